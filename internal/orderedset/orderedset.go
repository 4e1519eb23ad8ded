// Package orderedset provides an insertion-ordered set of vertex ids.
// Traversal results iterate in first-insertion order, which keeps
// frontier expansion deterministic for a deterministic backend.
package orderedset

import (
	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/vanshika/graphwalk/graph"
)

// Set is an insertion-ordered set of graph.ID values.
type Set struct {
	inner *linkedhashset.Set
}

// New builds a set seeded with the given ids, in order.
func New(ids ...graph.ID) *Set {
	s := &Set{inner: linkedhashset.New()}
	for _, id := range ids {
		s.inner.Add(id)
	}
	return s
}

// Add inserts an id; re-inserting keeps the original position.
func (s *Set) Add(id graph.ID) {
	s.inner.Add(id)
}

// AddAll inserts every id of other, preserving other's order.
func (s *Set) AddAll(other *Set) {
	other.Each(func(id graph.ID) bool {
		s.inner.Add(id)
		return true
	})
}

// Contains reports membership.
func (s *Set) Contains(id graph.ID) bool {
	return s.inner.Contains(id)
}

// Size returns the number of ids.
func (s *Set) Size() int {
	return s.inner.Size()
}

// Values returns the ids in insertion order.
func (s *Set) Values() []graph.ID {
	raw := s.inner.Values()
	ids := make([]graph.ID, len(raw))
	for i, v := range raw {
		ids[i] = v.(graph.ID)
	}
	return ids
}

// Each iterates in insertion order until fn returns false.
func (s *Set) Each(fn func(id graph.ID) bool) {
	it := s.inner.Iterator()
	for it.Next() {
		if !fn(it.Value().(graph.ID)) {
			return
		}
	}
}

// Intersect returns the ids of a that are also in b, in a's order.
func Intersect(a, b *Set) *Set {
	result := New()
	a.Each(func(id graph.ID) bool {
		if b.Contains(id) {
			result.Add(id)
		}
		return true
	})
	return result
}

// Union returns all ids of a followed by the ids of b not already present.
func Union(a, b *Set) *Set {
	result := New()
	result.AddAll(a)
	result.AddAll(b)
	return result
}
