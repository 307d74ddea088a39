package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator"
)

// EntityType is the coarse semantic kind of an entity.
type EntityType string

const (
	EntityTypePerson       EntityType = "PERSON"
	EntityTypeOrganization EntityType = "ORGANIZATION"
	EntityTypeLocation     EntityType = "LOCATION"
	EntityTypeDate         EntityType = "DATE"
	EntityTypeTechnology   EntityType = "TECHNOLOGY"
)

// EntityTypes lists every allowed entity type in prompt order.
var EntityTypes = []EntityType{
	EntityTypePerson,
	EntityTypeOrganization,
	EntityTypeLocation,
	EntityTypeDate,
	EntityTypeTechnology,
}

// ParseEntityType maps a loosely formatted type name ("organization ", "Person")
// onto one of the allowed kinds. Unknown kinds are rejected.
func ParseEntityType(s string) (EntityType, error) {
	candidate := EntityType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range EntityTypes {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown entity type %q", s)
}

// Entity represents a node in the graph. The name is the natural identity key;
// re-adding an entity with the same name merges into the existing node.
type Entity struct {
	Name string     `json:"name" validate:"required"`
	Type EntityType `json:"type" validate:"omitempty,oneof=PERSON ORGANIZATION LOCATION DATE TECHNOLOGY"`
}

// Relationship is a directed, labeled connection between two entities.
// The predicate is free text.
type Relationship struct {
	Subject   string `json:"subject" validate:"required"`
	Predicate string `json:"predicate" validate:"required"`
	Object    string `json:"object" validate:"required"`
}

// Article is a single news item consumed once per pipeline run.
type Article struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// Subgraph is the neighbourhood of a seed entity up to a bounded path length.
type Subgraph struct {
	Nodes         []Entity       `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

// EmptySubgraph returns a subgraph whose slices encode as [] rather than null.
func EmptySubgraph() *Subgraph {
	return &Subgraph{
		Nodes:         []Entity{},
		Relationships: []Relationship{},
	}
}

// EndpointPolicy decides what happens when a relationship references an
// entity that is not yet known.
type EndpointPolicy string

const (
	// AutoCreateEndpoints creates placeholder nodes for unknown endpoints.
	AutoCreateEndpoints EndpointPolicy = "auto"
	// RejectUnknownEndpoints drops relationships with unknown endpoints.
	RejectUnknownEndpoints EndpointPolicy = "reject"
)

// ParseEndpointPolicy parses a policy name. An empty string selects AutoCreateEndpoints.
func ParseEndpointPolicy(s string) (EndpointPolicy, error) {
	switch EndpointPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", AutoCreateEndpoints:
		return AutoCreateEndpoints, nil
	case RejectUnknownEndpoints:
		return RejectUnknownEndpoints, nil
	default:
		return "", fmt.Errorf("unknown endpoint policy %q", s)
	}
}

var validate = validator.New()

// Validate checks the entity has a name and, if typed, an allowed type.
func (e Entity) Validate() error {
	return validate.Struct(e)
}

// Validate checks that all three parts of the relationship are present.
func (r Relationship) Validate() error {
	return validate.Struct(r)
}
