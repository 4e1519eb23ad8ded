package traversal

import (
	"strings"

	"github.com/vanshika/graphwalk/graph"
)

// PathNone is the empty vertex sequence.
var PathNone = []graph.ID{}

// Path is a completed path: an ordered vertex sequence plus an optional
// crosspoint recorded by bidirectional searches. Equality and hashing use the
// vertex sequence only; the crosspoint is ignored.
type Path struct {
	crosspoint    graph.ID
	hasCrosspoint bool
	vertices      []graph.ID
}

// NewPath builds a path without a crosspoint.
func NewPath(vertices []graph.ID) *Path {
	return &Path{vertices: vertices}
}

// NewPathWithCrosspoint builds a path recording where forward and backward
// frontiers met.
func NewPathWithCrosspoint(crosspoint graph.ID, vertices []graph.ID) *Path {
	return &Path{
		crosspoint:    crosspoint,
		hasCrosspoint: true,
		vertices:      vertices,
	}
}

// Crosspoint returns the meeting vertex, if one was recorded.
func (p *Path) Crosspoint() (graph.ID, bool) {
	return p.crosspoint, p.hasCrosspoint
}

// Vertices returns the vertex sequence.
func (p *Path) Vertices() []graph.ID {
	return p.vertices
}

// Reverse flips the vertex sequence in place.
func (p *Path) Reverse() {
	reverseIDs(p.vertices)
}

// OwnedBy reports whether source is the smallest vertex on the path under
// ID.Less (byte-wise string order). Paths discovered from multiple roots are kept only by their owner.
func (p *Path) OwnedBy(source graph.ID) bool {
	if len(p.vertices) == 0 {
		return false
	}
	min := p.vertices[0]
	for _, id := range p.vertices[1:] {
		if id.Less(min) {
			min = id
		}
	}
	return source == min
}

// Equals compares the vertex sequences without regard of crosspoint.
func (p *Path) Equals(other *Path) bool {
	if other == nil || len(p.vertices) != len(other.vertices) {
		return false
	}
	for i, id := range p.vertices {
		if other.vertices[i] != id {
			return false
		}
	}
	return true
}

// ToMap emits the serialization shape {"objects": [...]} with an optional
// crosspoint entry.
func (p *Path) ToMap(withCrossPoint bool) map[string]any {
	if withCrossPoint {
		return map[string]any{
			"crosspoint": p.crosspoint,
			"objects":    p.vertices,
		}
	}
	return map[string]any{"objects": p.vertices}
}

// key collapses the vertex sequence into a dedup key. The separator cannot
// appear in real ids, which are opaque but printable.
func (p *Path) key() string {
	var sb strings.Builder
	for i, id := range p.vertices {
		if i > 0 {
			sb.WriteByte(0)
		}
		sb.WriteString(string(id))
	}
	return sb.String()
}

// PathSet holds paths unique by vertex sequence, in insertion order. Adding a
// path whose sequence is already present is a no-op regardless of crosspoint.
type PathSet struct {
	keys  map[string]struct{}
	paths []*Path
}

// NewPathSet builds an empty path set.
func NewPathSet() *PathSet {
	return &PathSet{keys: make(map[string]struct{})}
}

// Add inserts the path; it reports false if the sequence is already present.
func (s *PathSet) Add(path *Path) bool {
	key := path.key()
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	s.paths = append(s.paths, path)
	return true
}

// AddAll inserts every path of other.
func (s *PathSet) AddAll(other *PathSet) {
	for _, path := range other.paths {
		s.Add(path)
	}
}

// Contains reports whether a path with the same sequence is present.
func (s *PathSet) Contains(path *Path) bool {
	_, ok := s.keys[path.key()]
	return ok
}

// Size returns the number of distinct paths.
func (s *PathSet) Size() int {
	return len(s.paths)
}

// Paths returns the contained paths in insertion order.
func (s *PathSet) Paths() []*Path {
	return append([]*Path(nil), s.paths...)
}

// Vertices returns the union of all vertex sequences, in first-seen order.
func (s *PathSet) Vertices() []graph.ID {
	seen := make(map[graph.ID]struct{})
	var vertices []graph.ID
	for _, path := range s.paths {
		for _, id := range path.vertices {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			vertices = append(vertices, id)
		}
	}
	return vertices
}
