package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/OFFIS-RIT/newsgraph/pkg/common"
)

// ErrUnknownEndpoint is returned by AddRelationship under
// common.RejectUnknownEndpoints when an endpoint has not been added.
var ErrUnknownEndpoint = errors.New("relationship endpoint is not a known entity")

// NodeDegree pairs an entity with its number of distinct incident edges.
type NodeDegree struct {
	Entity common.Entity `json:"entity"`
	Degree int           `json:"degree"`
}

// Edge is an undirected, labeled connection in the accumulated graph. A and B
// keep the orientation of the first relationship that created the edge.
type Edge struct {
	A         string `json:"a"`
	B         string `json:"b"`
	Predicate string `json:"predicate"`
}

type edgeKey struct {
	lo, hi    string
	predicate string
}

func keyOf(a, b, predicate string) edgeKey {
	if b < a {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b, predicate: predicate}
}

// Accumulator is the in-memory undirected multigraph built across a run.
// Nodes are keyed by entity name. Two edges are the same edge when they join
// the same pair of nodes with the same predicate.
//
// An Accumulator is not safe for concurrent use.
type Accumulator struct {
	policy common.EndpointPolicy

	order  []string
	nodes  map[string]common.Entity
	degree map[string]int

	edges    []Edge
	edgeSeen map[edgeKey]struct{}
}

// NewAccumulator creates an empty graph that treats unknown relationship
// endpoints according to policy. An empty policy means
// common.AutoCreateEndpoints.
func NewAccumulator(policy common.EndpointPolicy) *Accumulator {
	if policy == "" {
		policy = common.AutoCreateEndpoints
	}
	return &Accumulator{
		policy:   policy,
		nodes:    make(map[string]common.Entity),
		degree:   make(map[string]int),
		edgeSeen: make(map[edgeKey]struct{}),
	}
}

// Policy returns the endpoint policy of the graph.
func (a *Accumulator) Policy() common.EndpointPolicy {
	return a.policy
}

// AddEntity inserts e or, if a node with the same name exists, overwrites its
// type. It never creates a second node for a name.
func (a *Accumulator) AddEntity(e common.Entity) {
	if e.Name == "" {
		return
	}
	if _, ok := a.nodes[e.Name]; !ok {
		a.order = append(a.order, e.Name)
	}
	a.nodes[e.Name] = e
}

// AddRelationship records r as an undirected edge. Adding an edge that is
// already present is a no-op.
func (a *Accumulator) AddRelationship(r common.Relationship) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid relationship: %w", err)
	}

	_, subjectKnown := a.nodes[r.Subject]
	_, objectKnown := a.nodes[r.Object]
	if a.policy == common.RejectUnknownEndpoints && (!subjectKnown || !objectKnown) {
		return fmt.Errorf("%w: %s -[%s]-> %s", ErrUnknownEndpoint, r.Subject, r.Predicate, r.Object)
	}

	if !subjectKnown {
		a.AddEntity(common.Entity{Name: r.Subject})
	}
	if !objectKnown {
		a.AddEntity(common.Entity{Name: r.Object})
	}

	key := keyOf(r.Subject, r.Object, r.Predicate)
	if _, ok := a.edgeSeen[key]; ok {
		return nil
	}
	a.edgeSeen[key] = struct{}{}
	a.edges = append(a.edges, Edge{A: r.Subject, B: r.Object, Predicate: r.Predicate})

	a.degree[r.Subject]++
	if r.Object != r.Subject {
		a.degree[r.Object]++
	}
	return nil
}

// NodeDegree returns the degree of the named node and whether it exists.
func (a *Accumulator) NodeDegree(name string) (int, bool) {
	if _, ok := a.nodes[name]; !ok {
		return 0, false
	}
	return a.degree[name], true
}

// TopKByDegree ranks nodes by degree, highest first. Ties keep insertion
// order. If filter is non-nil only nodes of that type are ranked.
func (a *Accumulator) TopKByDegree(k int, filter *common.EntityType) []NodeDegree {
	if k <= 0 {
		return []NodeDegree{}
	}

	ranked := make([]NodeDegree, 0, len(a.order))
	for _, name := range a.order {
		e := a.nodes[name]
		if filter != nil && e.Type != *filter {
			continue
		}
		ranked = append(ranked, NodeDegree{Entity: e, Degree: a.degree[name]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Degree > ranked[j].Degree
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// Nodes returns the entities in insertion order.
func (a *Accumulator) Nodes() []common.Entity {
	out := make([]common.Entity, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.nodes[name])
	}
	return out
}

// Edges returns the edges in insertion order.
func (a *Accumulator) Edges() []Edge {
	out := make([]Edge, len(a.edges))
	copy(out, a.edges)
	return out
}

func (a *Accumulator) NodeCount() int { return len(a.order) }

func (a *Accumulator) EdgeCount() int { return len(a.edges) }

// Snapshot is a serialisable copy of the accumulated graph.
type Snapshot struct {
	Nodes []common.Entity `json:"nodes"`
	Edges []Edge          `json:"edges"`
}

// Snapshot copies the current graph.
func (a *Accumulator) Snapshot() Snapshot {
	return Snapshot{Nodes: a.Nodes(), Edges: a.Edges()}
}
