package traversal

import (
	"testing"

	"github.com/vanshika/graphwalk/graph"
)

func TestPath_EqualityIgnoresCrosspoint(t *testing.T) {
	vertices := []graph.ID{"a", "b", "c"}
	p1 := NewPathWithCrosspoint("b", append([]graph.ID(nil), vertices...))
	p2 := NewPathWithCrosspoint("c", append([]graph.ID(nil), vertices...))
	p3 := NewPath(append([]graph.ID(nil), vertices...))

	if !p1.Equals(p2) || !p1.Equals(p3) {
		t.Errorf("expected equality to ignore crosspoint")
	}
	if p1.Equals(NewPath([]graph.ID{"a", "b"})) {
		t.Errorf("expected different sequences to differ")
	}
}

func TestPath_Reverse(t *testing.T) {
	p := NewPath([]graph.ID{"a", "b", "c"})
	p.Reverse()
	assertIDs(t, p.Vertices(), "c", "b", "a")
}

func TestPath_OwnedBy(t *testing.T) {
	p := NewPath([]graph.ID{"3", "1", "2"})

	if !p.OwnedBy("1") {
		t.Errorf("expected path to be owned by its smallest vertex")
	}
	if p.OwnedBy("3") {
		t.Errorf("expected path not to be owned by a larger vertex")
	}
	if NewPath(nil).OwnedBy("1") {
		t.Errorf("expected empty path to have no owner")
	}
}

func TestPath_ToMap(t *testing.T) {
	p := NewPathWithCrosspoint("b", []graph.ID{"a", "b", "c"})

	plain := p.ToMap(false)
	if _, ok := plain["crosspoint"]; ok {
		t.Errorf("expected no crosspoint entry")
	}
	objects, ok := plain["objects"].([]graph.ID)
	if !ok || len(objects) != 3 {
		t.Fatalf("expected objects list, got %v", plain["objects"])
	}

	withCross := p.ToMap(true)
	if withCross["crosspoint"] != graph.ID("b") {
		t.Errorf("expected crosspoint b, got %v", withCross["crosspoint"])
	}
}

func TestPathSet_DeduplicatesBySequence(t *testing.T) {
	set := NewPathSet()

	if !set.Add(NewPathWithCrosspoint("b", []graph.ID{"a", "b"})) {
		t.Fatalf("expected first insert to succeed")
	}
	if set.Add(NewPathWithCrosspoint("a", []graph.ID{"a", "b"})) {
		t.Fatalf("expected same sequence with other crosspoint to be rejected")
	}
	if !set.Add(NewPath([]graph.ID{"b", "a"})) {
		t.Fatalf("expected reversed sequence to be distinct")
	}

	if set.Size() != 2 {
		t.Errorf("expected 2 paths, got %d", set.Size())
	}
}

func TestPathSet_Vertices(t *testing.T) {
	set := NewPathSet()
	set.Add(NewPath([]graph.ID{"a", "b"}))
	set.Add(NewPath([]graph.ID{"b", "c"}))
	set.Add(NewPath([]graph.ID{"c", "d"}))

	assertIDs(t, set.Vertices(), "a", "b", "c", "d")
}

func TestPathSet_AddAll(t *testing.T) {
	a := NewPathSet()
	a.Add(NewPath([]graph.ID{"a", "b"}))

	b := NewPathSet()
	b.Add(NewPath([]graph.ID{"a", "b"}))
	b.Add(NewPath([]graph.ID{"x", "y"}))

	a.AddAll(b)
	if a.Size() != 2 {
		t.Errorf("expected 2 paths after union, got %d", a.Size())
	}
	if !a.Contains(NewPath([]graph.ID{"x", "y"})) {
		t.Errorf("expected union to contain x-y")
	}
}

func TestTopN(t *testing.T) {
	values := []Weighted{
		{Key: "a", Weight: 1},
		{Key: "b", Weight: 3},
		{Key: "c", Weight: 2},
	}

	top := TopN(values, true, 2)
	if len(top) != 2 || top[0].Key != "b" || top[1].Key != "c" {
		t.Fatalf("expected [b c], got %v", top)
	}

	unsorted := TopN(values, false, NoLimit)
	if len(unsorted) != 3 || unsorted[0].Key != "a" {
		t.Fatalf("expected original order untouched, got %v", unsorted)
	}
}
