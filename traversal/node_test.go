package traversal

import (
	"testing"

	"github.com/vanshika/graphwalk/graph"
)

func chain(ids ...graph.ID) *Node {
	var node *Node
	for _, id := range ids {
		node = NewChildNode(id, node)
	}
	return node
}

func TestNode_Path(t *testing.T) {
	node := chain("a", "b", "c")

	path := node.Path()
	assertIDs(t, path, "a", "b", "c")
	if path[len(path)-1] != node.ID() {
		t.Errorf("expected path to end at the node itself")
	}
}

func TestNode_PathOfRoot(t *testing.T) {
	root := NewNode("a")
	assertIDs(t, root.Path(), "a")
	if root.Parent() != nil {
		t.Errorf("expected root to have no parent")
	}
}

func TestNode_JoinPath(t *testing.T) {
	forward := chain("a", "b")
	backward := chain("d", "c")

	assertIDs(t, forward.JoinPath(backward), "a", "b", "c", "d")
}

func TestNode_JoinPathLoopGuard(t *testing.T) {
	forward := chain("a", "b", "c")
	backward := chain("d", "c")

	if got := forward.JoinPath(backward); len(got) != 0 {
		t.Fatalf("expected empty path on shared vertex, got %v", got)
	}
}

func TestNode_Contains(t *testing.T) {
	node := chain("a", "b", "c")

	for _, id := range []graph.ID{"a", "b", "c"} {
		if !node.Contains(id) {
			t.Errorf("expected chain to contain %s", id)
		}
	}
	if node.Contains("d") {
		t.Errorf("expected chain not to contain d")
	}
}

func TestNode_EqualsIsStructural(t *testing.T) {
	a := chain("x", "y", "z")
	b := chain("x", "y", "z")
	c := chain("w", "y", "z")
	shorter := chain("y", "z")

	if !a.Equals(b) {
		t.Errorf("expected equal chains to compare equal")
	}
	if a.Equals(c) {
		t.Errorf("expected chains with different roots to differ")
	}
	if a.Equals(shorter) {
		t.Errorf("expected chains of different length to differ")
	}
}

func TestNodeSet_ResolvesIDCollisions(t *testing.T) {
	set := NewNodeSet()

	viaB := chain("a", "b", "d")
	viaC := chain("a", "c", "d")

	if !set.Add(viaB) {
		t.Fatalf("expected first insert to succeed")
	}
	if !set.Add(viaC) {
		t.Fatalf("expected distinct chain to the same vertex to insert")
	}
	if set.Add(chain("a", "b", "d")) {
		t.Fatalf("expected duplicate chain to be rejected")
	}

	if set.Size() != 2 {
		t.Errorf("expected 2 nodes, got %d", set.Size())
	}
	if !set.Contains(viaC) {
		t.Errorf("expected set to contain the second chain")
	}
	if !set.ContainsID("d") {
		t.Errorf("expected set to know vertex d")
	}
	if set.ContainsID("x") {
		t.Errorf("expected set not to know vertex x")
	}
}
