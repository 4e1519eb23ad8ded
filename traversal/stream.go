package traversal

import (
	"context"

	"github.com/vanshika/graphwalk/graph"
	"github.com/vanshika/graphwalk/metrics"
)

// SkipSuperNodeIfNeeded enforces super-node suppression on an edge stream.
// With skipDegree <= 0 the stream passes through untouched. Otherwise up to
// degree edges are buffered; if the underlying iterator ever reaches the
// skipDegree-th edge, the whole stream becomes empty. A super-node
// contributes no edges at all, never a prefix, so high-degree hubs cannot
// bias samples.
func SkipSuperNodeIfNeeded(edges graph.EdgeIterator, degree, skipDegree int64) graph.EdgeIterator {
	if skipDegree <= 0 {
		return edges
	}
	return &superNodeIterator{
		src:        edges,
		degree:     degree,
		skipDegree: skipDegree,
	}
}

type superNodeIterator struct {
	src        graph.EdgeIterator
	degree     int64
	skipDegree int64

	primed   bool
	buffered []graph.Edge
	idx      int
	cur      graph.Edge
	err      error
}

func (it *superNodeIterator) Next(ctx context.Context) bool {
	if !it.primed {
		it.prime(ctx)
	}
	if it.err != nil || it.idx >= len(it.buffered) {
		return false
	}
	it.cur = it.buffered[it.idx]
	it.idx++
	return true
}

// prime drains the source until it ends or the skip threshold is hit; the
// rest of the source is not read once the threshold is hit. The source is
// closed here either way.
func (it *superNodeIterator) prime(ctx context.Context) {
	it.primed = true
	defer it.src.Close()

	for i := int64(1); it.src.Next(ctx); i++ {
		if i <= it.degree {
			it.buffered = append(it.buffered, it.src.Edge())
		}
		if i >= it.skipDegree {
			it.buffered = nil
			metrics.SuperNodesSkippedTotal.Inc()
			return
		}
	}
	it.err = it.src.Err()
}

func (it *superNodeIterator) Edge() graph.Edge { return it.cur }
func (it *superNodeIterator) Err() error       { return it.err }

func (it *superNodeIterator) Close() {
	if !it.primed {
		it.primed = true
		it.src.Close()
	}
	it.buffered = nil
}

// multiLabelIterator concatenates one edge query per label, opening each
// query lazily as the previous one drains.
type multiLabelIterator struct {
	open    func(ctx context.Context, label graph.ID) (graph.EdgeIterator, error)
	pending []graph.ID
	current graph.EdgeIterator
	err     error
}

func (it *multiLabelIterator) Next(ctx context.Context) bool {
	for {
		if it.err != nil {
			return false
		}
		if it.current == nil {
			if len(it.pending) == 0 {
				return false
			}
			next, err := it.open(ctx, it.pending[0])
			if err != nil {
				it.err = err
				return false
			}
			it.pending = it.pending[1:]
			it.current = next
		}
		if it.current.Next(ctx) {
			return true
		}
		if err := it.current.Err(); err != nil {
			it.err = err
			return false
		}
		it.current.Close()
		it.current = nil
	}
}

func (it *multiLabelIterator) Edge() graph.Edge {
	return it.current.Edge()
}

func (it *multiLabelIterator) Err() error { return it.err }

func (it *multiLabelIterator) Close() {
	if it.current != nil {
		it.current.Close()
		it.current = nil
	}
	it.pending = nil
}
