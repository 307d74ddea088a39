package store

import (
	"github.com/OFFIS-RIT/newsgraph/pkg/common"
)

// ChunkRange calls fn with consecutive [start, end) windows of at most
// chunkSize over total items.
func ChunkRange(total, chunkSize int, fn func(start, end int) error) error {
	if total <= 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = total
	}
	for start := 0; start < total; start += chunkSize {
		end := min(start+chunkSize, total)
		if err := fn(start, end); err != nil {
			return err
		}
	}
	return nil
}

// DedupeEntities keeps one entity per name. A later entity overwrites the
// type of an earlier one but keeps its position.
func DedupeEntities(in []common.Entity) []common.Entity {
	if len(in) == 0 {
		return nil
	}
	index := make(map[string]int, len(in))
	out := make([]common.Entity, 0, len(in))
	for _, e := range in {
		if e.Name == "" {
			continue
		}
		if i, ok := index[e.Name]; ok {
			out[i].Type = e.Type
			continue
		}
		index[e.Name] = len(out)
		out = append(out, e)
	}
	return out
}

// DedupeRelationships drops exact (subject, predicate, object) repeats and
// relationships with a missing part.
func DedupeRelationships(in []common.Relationship) []common.Relationship {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[common.Relationship]struct{}, len(in))
	out := make([]common.Relationship, 0, len(in))
	for _, r := range in {
		if r.Subject == "" || r.Predicate == "" || r.Object == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
