package traversal

import (
	"context"
	"errors"
	"testing"

	"github.com/vanshika/graphwalk/graph"
	"github.com/vanshika/graphwalk/internal/orderedset"
)

// triangleBackend builds the reference graph: vertices {1,2,3,4} with
// undirected edges (1,2), (2,3), (3,4), (1,3) under the "knows" label.
func triangleBackend(t *testing.T) *graph.MemoryBackend {
	t.Helper()
	m := graph.NewMemoryBackend()
	m.RegisterEdgeLabel("knows")
	for _, e := range [][2]graph.ID{{"1", "2"}, {"2", "3"}, {"3", "4"}, {"1", "3"}} {
		if err := m.AddEdge("knows", e[0], e[1], nil); err != nil {
			t.Fatalf("add edge %v: %v", e, err)
		}
	}
	return m
}

func newTestTraverser(m *graph.MemoryBackend) *Traverser {
	return New(m, m)
}

func assertIDs(t *testing.T, got []graph.ID, want ...graph.ID) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestKOut_NearestFirstLayer(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	got, err := tr.KOut(context.Background(), "1", graph.DirectionBoth, "", 1, true, 10, 10, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertIDs(t, got, "2", "3")
}

func TestKOut_NearestSecondLayerExcludesCloserVertices(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	got, err := tr.KOut(context.Background(), "1", graph.DirectionBoth, "", 2, true, 10, 10, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// 3 is reachable in two hops via 2, but it already sits at depth 1.
	assertIDs(t, got, "4")
}

func TestKOut_NotNearestMayRevisit(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	got, err := tr.KOut(context.Background(), "1", graph.DirectionBoth, "", 2, false, 10, NoLimit, NoLimit)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Raw second expansion from {2,3}: neighbors of 2 are 3,1; of 3 are 4,2,1.
	assertIDs(t, got, "3", "1", "4", "2")
}

func TestKOut_DegreeBoundsFanOut(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	got, err := tr.KOut(context.Background(), "1", graph.DirectionBoth, "", 1, true, 1, 10, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertIDs(t, got, "2")
}

func TestKOut_CapacityExceeded(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	_, err := tr.KOut(context.Background(), "1", graph.DirectionBoth, "", 3, true, 10, 3, 3)
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if capErr.Capacity != 3 {
		t.Errorf("expected capacity 3 in error, got %d", capErr.Capacity)
	}
}

func TestKOut_UnlimitedBudgetsAcceptMaxDepth(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	got, err := tr.KOut(context.Background(), "1", graph.DirectionBoth, "", DefaultMaxDepth, true, 10, NoLimit, NoLimit)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// The whole component is visited long before depth 50.
	if len(got) != 0 {
		t.Errorf("expected empty frontier at depth %d, got %v", DefaultMaxDepth, got)
	}
}

func TestKOut_LastLayerLimit(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	got, err := tr.KOut(context.Background(), "1", graph.DirectionBoth, "", 1, true, 10, 100, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertIDs(t, got, "2")
}

func TestKOut_ParameterValidation(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))
	ctx := context.Background()

	cases := []struct {
		name string
		call func() error
	}{
		{"empty source", func() error {
			_, err := tr.KOut(ctx, "", graph.DirectionBoth, "", 1, true, 10, 10, 10)
			return err
		}},
		{"zero depth", func() error {
			_, err := tr.KOut(ctx, "1", graph.DirectionBoth, "", 0, true, 10, 10, 10)
			return err
		}},
		{"zero degree", func() error {
			_, err := tr.KOut(ctx, "1", graph.DirectionBoth, "", 1, true, 0, 10, 10)
			return err
		}},
		{"capacity below limit", func() error {
			_, err := tr.KOut(ctx, "1", graph.DirectionBoth, "", 1, true, 10, 5, 10)
			return err
		}},
		{"finite capacity with unlimited limit", func() error {
			_, err := tr.KOut(ctx, "1", graph.DirectionBoth, "", 1, true, 10, 5, NoLimit)
			return err
		}},
	}
	for _, tc := range cases {
		var paramErr *ParameterError
		if err := tc.call(); !errors.As(err, &paramErr) {
			t.Errorf("%s: expected ParameterError, got %v", tc.name, err)
		}
	}
}

func TestKOut_UnknownLabel(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	_, err := tr.KOut(context.Background(), "1", graph.DirectionBoth, "admires", 1, true, 10, 10, 10)
	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected SchemaMismatchError, got %v", err)
	}
}

func TestKOut_BackendFailure(t *testing.T) {
	m := triangleBackend(t)
	m.WithError(errors.New("connection reset"))
	tr := newTestTraverser(m)

	_, err := tr.KOut(context.Background(), "1", graph.DirectionBoth, "", 1, true, 10, 10, 10)
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %v", err)
	}
}

func TestKNeighbor_CollectsAllLayers(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	got, err := tr.KNeighbor(context.Background(), "1", graph.DirectionBoth, "", 2, 10, 100)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertIDs(t, got, "1", "2", "3", "4")
}

func TestKNeighbor_LimitStopsExpansion(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	got, err := tr.KNeighbor(context.Background(), "1", graph.DirectionBoth, "", 2, 10, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if int64(len(got)) > 2 {
		t.Fatalf("expected at most 2 vertices, got %v", got)
	}
	if got[0] != "1" {
		t.Errorf("expected source in result, got %v", got)
	}
}

func TestSameNeighbors(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	got, err := tr.SameNeighbors(context.Background(), "1", "3", graph.DirectionBoth, "", 10, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// N(1) = {2,3}, N(3) = {4,2,1}: the intersection keeps N(1)'s order.
	assertIDs(t, got, "2")
}

func TestSameNeighbors_TruncatesAfterIntersection(t *testing.T) {
	m := graph.NewMemoryBackend()
	m.RegisterEdgeLabel("knows")
	for _, target := range []graph.ID{"a", "b", "c"} {
		if err := m.AddEdge("knows", "u", target, nil); err != nil {
			t.Fatalf("add edge: %v", err)
		}
		if err := m.AddEdge("knows", "v", target, nil); err != nil {
			t.Fatalf("add edge: %v", err)
		}
	}
	tr := newTestTraverser(m)

	got, err := tr.SameNeighbors(context.Background(), "u", "v", graph.DirectionOut, "", 10, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertIDs(t, got, "a", "b")
}

func TestJaccardSimilarity(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	got, err := tr.JaccardSimilarity(context.Background(), "1", "3", graph.DirectionBoth, "", 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
}

func TestJaccardSimilarity_EmptyNeighborhoods(t *testing.T) {
	m := graph.NewMemoryBackend()
	m.RegisterEdgeLabel("knows")
	tr := newTestTraverser(m)

	_, err := tr.JaccardSimilarity(context.Background(), "x", "y", graph.DirectionBoth, "", 10)
	if !errors.Is(err, ErrEmptyNeighborhood) {
		t.Fatalf("expected ErrEmptyNeighborhood, got %v", err)
	}
}

func TestAdjacentVertexIDs_KeepsDuplicates(t *testing.T) {
	m := graph.NewMemoryBackend()
	m.RegisterEdgeLabel("knows")
	m.RegisterEdgeLabel("likes")
	if err := m.AddEdge("knows", "u", "w", nil); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if err := m.AddEdge("likes", "u", "w", nil); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	tr := newTestTraverser(m)

	got, err := tr.AdjacentVertexIDs(context.Background(), "u", graph.DirectionOut, "", 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	assertIDs(t, got, "w", "w")
}

func TestAdjacentVertices_ZeroLimitSkipsBackend(t *testing.T) {
	m := triangleBackend(t)
	tr := newTestTraverser(m)

	got, err := tr.adjacentVertices(context.Background(), orderedset.New("1"),
		graph.DirectionBoth, nil, nil, 10, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Size() != 0 {
		t.Fatalf("expected empty result, got %v", got.Values())
	}
	if queries := m.Queries(); len(queries) != 0 {
		t.Fatalf("expected no backend queries, got %d", len(queries))
	}
}

func TestAdjacentVertices_ShortCircuitsOnLimit(t *testing.T) {
	m := triangleBackend(t)
	tr := newTestTraverser(m)

	got, err := tr.adjacentVertices(context.Background(), orderedset.New("1", "2"),
		graph.DirectionBoth, nil, nil, 10, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Size() != 1 {
		t.Fatalf("expected a single vertex, got %v", got.Values())
	}
	// Only the first frontier vertex should have been queried.
	if queries := m.Queries(); len(queries) != 1 {
		t.Fatalf("expected 1 backend query, got %d", len(queries))
	}
}

func TestKOut_CancelledContext(t *testing.T) {
	tr := newTestTraverser(triangleBackend(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.KOut(ctx, "1", graph.DirectionBoth, "", 2, true, 10, 10, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
