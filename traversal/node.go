package traversal

import (
	"github.com/vanshika/graphwalk/graph"
)

// Node is one vertex on a partial path. Nodes link back to their parent,
// forming an immutable upward-linked forest rooted at the traversal sources.
// The parent reference is non-owning; a node's lifetime ends with the
// traversal that built it.
type Node struct {
	id     graph.ID
	parent *Node
}

// NewNode builds a root node.
func NewNode(id graph.ID) *Node {
	return &Node{id: id}
}

// NewChildNode builds a node extending parent's path by one vertex.
func NewChildNode(id graph.ID, parent *Node) *Node {
	return &Node{id: id, parent: parent}
}

// ID returns the node's vertex id.
func (n *Node) ID() graph.ID {
	return n.id
}

// Parent returns the previous node on the path, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Path walks the parent chain and returns the vertex ids from the root to
// this node.
func (n *Node) Path() []graph.ID {
	var ids []graph.ID
	for current := n; current != nil; current = current.parent {
		ids = append(ids, current.id)
	}
	reverseIDs(ids)
	return ids
}

// JoinPath fuses this forward path with a backward path: self root-to-self,
// then back self-to-root. If the two share any vertex, the joined path would
// contain a loop and the empty path is returned instead.
func (n *Node) JoinPath(back *Node) []graph.ID {
	path := n.Path()

	backPath := back.Path()
	reverseIDs(backPath)

	if containsAny(path, backPath) {
		return PathNone
	}
	return append(path, backPath...)
}

// Contains reports whether id appears on this node's parent chain.
func (n *Node) Contains(id graph.ID) bool {
	for current := n; current != nil; current = current.parent {
		if current.id == id {
			return true
		}
	}
	return false
}

// Equals compares id and the full parent chain.
func (n *Node) Equals(other *Node) bool {
	a, b := n, other
	for a != nil && b != nil {
		if a.id != b.id {
			return false
		}
		a, b = a.parent, b.parent
	}
	return a == nil && b == nil
}

// NodeSet stores nodes keyed by id with structural equality resolving
// collisions. Hashing only the id keeps membership tests O(1) on the id
// instead of O(depth) on the chain; two distinct chains ending at the same
// vertex land in the same bucket and are told apart by Equals.
type NodeSet struct {
	buckets map[graph.ID][]*Node
	size    int
}

// NewNodeSet builds an empty node set.
func NewNodeSet() *NodeSet {
	return &NodeSet{buckets: make(map[graph.ID][]*Node)}
}

// Add inserts the node; it reports false if an equal node is present.
func (s *NodeSet) Add(node *Node) bool {
	for _, existing := range s.buckets[node.id] {
		if existing.Equals(node) {
			return false
		}
	}
	s.buckets[node.id] = append(s.buckets[node.id], node)
	s.size++
	return true
}

// Contains reports whether an equal node is present.
func (s *NodeSet) Contains(node *Node) bool {
	for _, existing := range s.buckets[node.id] {
		if existing.Equals(node) {
			return true
		}
	}
	return false
}

// ContainsID reports whether any node with the given vertex id is present.
func (s *NodeSet) ContainsID(id graph.ID) bool {
	return len(s.buckets[id]) > 0
}

// Size returns the number of distinct nodes.
func (s *NodeSet) Size() int {
	return s.size
}

func reverseIDs(ids []graph.ID) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}

func containsAny(ids, others []graph.ID) bool {
	seen := make(map[graph.ID]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for _, id := range others {
		if _, ok := seen[id]; ok {
			return true
		}
	}
	return false
}
