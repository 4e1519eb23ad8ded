// Package traversal implements bounded breadth-first expansions and local
// structure queries over a property graph reached through graph.Backend.
// All state is call-local: concurrent traversals against the same backend
// are safe, and ordering within a traversal is deterministic given a
// deterministic backend.
package traversal

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vanshika/graphwalk/graph"
	"github.com/vanshika/graphwalk/internal/orderedset"
	"github.com/vanshika/graphwalk/metrics"
)

// Traverser answers neighborhood and path queries against a backend.
type Traverser struct {
	backend graph.Backend
	schema  graph.Schema
	logger  *slog.Logger
}

// Option customizes a Traverser.
type Option func(*Traverser)

// WithLogger attaches a structured logger; k-out layer transitions log at debug.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Traverser) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New builds a Traverser over the given backend and schema.
func New(backend graph.Backend, schema graph.Schema, opts ...Option) *Traverser {
	t := &Traverser{
		backend: backend,
		schema:  schema,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// KOut returns the vertices reached by the depth-th expansion from source.
// With nearest true the result holds only vertices whose shortest hop count
// equals depth; with nearest false it is the raw depth-th expansion, which
// may revisit closer vertices. An empty label matches any edge label.
func (t *Traverser) KOut(ctx context.Context, source graph.ID,
	dir graph.Direction, label string, depth int, nearest bool,
	degree, capacity, limit int64) ([]graph.ID, error) {

	if err := checkSource(source); err != nil {
		return nil, err
	}
	if err := CheckPositive(int64(depth), "k-out max_depth"); err != nil {
		return nil, err
	}
	if err := CheckDegree(degree); err != nil {
		return nil, err
	}
	if err := CheckCapacity(capacity); err != nil {
		return nil, err
	}
	if err := CheckLimit(limit); err != nil {
		return nil, err
	}
	if capacity != NoLimit {
		// Capacity must cover limit because the source counts toward capacity.
		if limit == NoLimit || capacity < limit {
			return nil, parameterError("capacity", capacity,
				"can't be less than limit %d", limit)
		}
	}

	labels, err := t.edgeLabelIDs(label)
	if err != nil {
		return nil, err
	}

	metrics.TraversalsTotal.WithLabelValues("kout").Inc()

	latest := orderedset.New(source)
	all := orderedset.New(source)

	remaining := NoLimit
	if capacity != NoLimit {
		remaining = capacity - int64(latest.Size())
	}
	for depth > 0 {
		depth--
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Just get limit vertices in the last layer if limit < remaining
		// capacity.
		if depth == 0 && limit != NoLimit &&
			(limit < remaining || remaining == NoLimit) {
			remaining = limit
		}
		if nearest {
			latest, err = t.adjacentVertices(ctx, latest, dir, labels, all,
				degree, remaining)
			if err != nil {
				return nil, err
			}
			all.AddAll(latest)
		} else {
			latest, err = t.adjacentVertices(ctx, latest, dir, labels, nil,
				degree, remaining)
			if err != nil {
				return nil, err
			}
		}
		if capacity != NoLimit {
			remaining -= int64(latest.Size())
			if remaining <= 0 && depth > 0 {
				metrics.CapacityExceededTotal.Inc()
				return nil, &CapacityError{
					Capacity: capacity,
					Detail:   fmt.Sprintf("while remaining depth %d", depth),
				}
			}
		}
		t.logger.Debug("k-out layer expanded",
			"source", source, "remaining_depth", depth, "layer_size", latest.Size())
	}

	return latest.Values(), nil
}

// KNeighbor returns every vertex within depth hops of source, the source
// included. Expansion stops early once limit vertices are collected.
func (t *Traverser) KNeighbor(ctx context.Context, source graph.ID,
	dir graph.Direction, label string, depth int,
	degree, limit int64) ([]graph.ID, error) {

	if err := checkSource(source); err != nil {
		return nil, err
	}
	if err := CheckPositive(int64(depth), "k-neighbor max_depth"); err != nil {
		return nil, err
	}
	if err := CheckDegree(degree); err != nil {
		return nil, err
	}
	if err := CheckLimit(limit); err != nil {
		return nil, err
	}

	labels, err := t.edgeLabelIDs(label)
	if err != nil {
		return nil, err
	}

	metrics.TraversalsTotal.WithLabelValues("kneighbor").Inc()

	latest := orderedset.New(source)
	all := orderedset.New(source)

	for depth > 0 {
		depth--
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		remaining := NoLimit
		if limit != NoLimit {
			remaining = limit - int64(all.Size())
		}
		latest, err = t.adjacentVertices(ctx, latest, dir, labels, all,
			degree, remaining)
		if err != nil {
			return nil, err
		}
		all.AddAll(latest)
		if limit != NoLimit && int64(all.Size()) >= limit {
			break
		}
	}

	return all.Values(), nil
}

// SameNeighbors returns the common neighbors of two vertices, each
// neighborhood bounded by degree, in the iteration order of the first
// vertex's neighborhood, truncated to limit.
func (t *Traverser) SameNeighbors(ctx context.Context, vertex, other graph.ID,
	dir graph.Direction, label string, degree, limit int64) ([]graph.ID, error) {

	if err := checkSource(vertex); err != nil {
		return nil, err
	}
	if err := checkSource(other); err != nil {
		return nil, err
	}
	if err := CheckDegree(degree); err != nil {
		return nil, err
	}
	if err := CheckLimit(limit); err != nil {
		return nil, err
	}

	labels, err := t.edgeLabelIDs(label)
	if err != nil {
		return nil, err
	}

	metrics.TraversalsTotal.WithLabelValues("same_neighbors").Inc()

	sourceNeighbors, err := t.neighborSet(ctx, vertex, dir, labels, degree)
	if err != nil {
		return nil, err
	}
	targetNeighbors, err := t.neighborSet(ctx, other, dir, labels, degree)
	if err != nil {
		return nil, err
	}

	same := orderedset.Intersect(sourceNeighbors, targetNeighbors).Values()
	if limit != NoLimit && int64(len(same)) > limit {
		same = same[:limit]
	}
	return same, nil
}

// JaccardSimilarity computes |N(u) ∩ N(v)| / |N(u) ∪ N(v)| with both
// neighborhoods bounded by degree. It fails with ErrEmptyNeighborhood when
// both neighborhoods are empty and the ratio is undefined.
func (t *Traverser) JaccardSimilarity(ctx context.Context, vertex, other graph.ID,
	dir graph.Direction, label string, degree int64) (float64, error) {

	if err := checkSource(vertex); err != nil {
		return 0, err
	}
	if err := checkSource(other); err != nil {
		return 0, err
	}
	if err := CheckDegree(degree); err != nil {
		return 0, err
	}

	labels, err := t.edgeLabelIDs(label)
	if err != nil {
		return 0, err
	}

	metrics.TraversalsTotal.WithLabelValues("jaccard_similarity").Inc()

	sourceNeighbors, err := t.neighborSet(ctx, vertex, dir, labels, degree)
	if err != nil {
		return 0, err
	}
	targetNeighbors, err := t.neighborSet(ctx, other, dir, labels, degree)
	if err != nil {
		return 0, err
	}

	interNum := orderedset.Intersect(sourceNeighbors, targetNeighbors).Size()
	unionNum := orderedset.Union(sourceNeighbors, targetNeighbors).Size()
	if unionNum == 0 {
		return 0, ErrEmptyNeighborhood
	}
	return float64(interNum) / float64(unionNum), nil
}

// AdjacentVertexIDs maps the edges of one vertex to their other endpoints,
// duplicates preserved, bounded by limit.
func (t *Traverser) AdjacentVertexIDs(ctx context.Context, source graph.ID,
	dir graph.Direction, label string, limit int64) ([]graph.ID, error) {

	if err := checkSource(source); err != nil {
		return nil, err
	}
	if err := CheckLimit(limit); err != nil {
		return nil, err
	}

	labels, err := t.edgeLabelIDs(label)
	if err != nil {
		return nil, err
	}

	edges, err := t.edgesOfVertex(ctx, source, dir, labels, limit)
	if err != nil {
		return nil, err
	}
	defer edges.Close()

	var ids []graph.ID
	for edges.Next(ctx) {
		metrics.EdgesScannedTotal.Inc()
		ids = append(ids, edges.Edge().Other(source))
	}
	if err := edges.Err(); err != nil {
		return nil, backendError("edges", err)
	}
	return ids, nil
}

// EdgesOfVertexStep streams the edges of source selected by step. Property
// predicates, if any, are pushed to the backend in property mode; super-node
// suppression applies on top.
func (t *Traverser) EdgesOfVertexStep(ctx context.Context, source graph.ID,
	step *EdgeStep) (graph.EdgeIterator, error) {

	if !step.HasProperties() {
		edges, err := t.edgesOfVertex(ctx, source, step.direction,
			step.labelIDs, step.queryLimit())
		if err != nil {
			return nil, err
		}
		return step.SkipSuperNodeIfNeeded(edges), nil
	}
	return t.edgesOfVertexFiltered(ctx, source, step, false)
}

// EdgesOfVertexWithSortKeys streams the edges of source with the step's
// property predicates required to cover the sort key of its single edge
// label, enabling pushdown into the primary edge index.
func (t *Traverser) EdgesOfVertexWithSortKeys(ctx context.Context,
	source graph.ID, step *EdgeStep) (graph.EdgeIterator, error) {

	if !step.HasProperties() {
		return nil, &SchemaMismatchError{
			Detail: "sort-key mode requires property filters",
		}
	}
	return t.edgesOfVertexFiltered(ctx, source, step, true)
}

// EdgesCount counts the edges of source selected by step through a backend
// COUNT aggregate, then folds in the step's degree and skip-degree caps: a
// super-node counts as zero, and any other vertex counts at most degree.
func (t *Traverser) EdgesCount(ctx context.Context, source graph.ID,
	step *EdgeStep) (int64, error) {

	query := graph.ConstructEdgesQuery(source, step.direction, step.labelIDs...)
	if err := t.fillFilterBySortKeys(query, step); err != nil {
		return 0, err
	}
	query.Aggregate(graph.AggregateCount)
	query.Capacity(graph.UnboundedCapacity)
	query.Limit(graph.NoQueryLimit)

	count, err := t.backend.QueryNumber(ctx, query)
	if err != nil {
		return 0, backendError("count", err)
	}

	switch {
	case step.degree == NoLimit || count < step.degree:
		return count, nil
	case step.skipDegree != 0 && count >= step.skipDegree:
		return 0, nil
	default:
		return step.degree, nil
	}
}

// EdgeLabelID resolves an edge label name; an empty name means any label.
func (t *Traverser) EdgeLabelID(label string) (graph.ID, bool, error) {
	if label == "" {
		return "", false, nil
	}
	id, err := t.schema.LabelID(graph.EdgeLabel, label)
	if err != nil {
		return "", false, &SchemaMismatchError{Detail: "edge label " + label, Err: err}
	}
	return id, true, nil
}

// VertexLabelID resolves a vertex label name; an empty name means any label.
func (t *Traverser) VertexLabelID(label string) (graph.ID, bool, error) {
	if label == "" {
		return "", false, nil
	}
	id, err := t.schema.LabelID(graph.VertexLabel, label)
	if err != nil {
		return "", false, &SchemaMismatchError{Detail: "vertex label " + label, Err: err}
	}
	return id, true, nil
}

// adjacentVertices expands a frontier one hop: every edge of every frontier
// vertex contributes its other endpoint unless excluded. Expansion
// short-circuits as soon as limit vertices are collected; iteration order is
// frontier order crossed with each vertex's edge stream order.
func (t *Traverser) adjacentVertices(ctx context.Context,
	vertices *orderedset.Set, dir graph.Direction, labels []graph.ID,
	excluded *orderedset.Set, degree, limit int64) (*orderedset.Set, error) {

	neighbors := orderedset.New()
	if limit == 0 {
		return neighbors, nil
	}

	var expandErr error
	vertices.Each(func(source graph.ID) bool {
		edges, err := t.edgesOfVertex(ctx, source, dir, labels, degree)
		if err != nil {
			expandErr = err
			return false
		}
		full := false
		for edges.Next(ctx) {
			metrics.EdgesScannedTotal.Inc()
			target := edges.Edge().Other(source)
			if excluded != nil && excluded.Contains(target) {
				continue
			}
			neighbors.Add(target)
			if limit != NoLimit && int64(neighbors.Size()) >= limit {
				full = true
				break
			}
		}
		if err := edges.Err(); err != nil {
			expandErr = backendError("edges", err)
		}
		edges.Close()
		return expandErr == nil && !full
	})

	if expandErr != nil {
		return nil, expandErr
	}
	return neighbors, nil
}

// neighborSet collects the distinct other endpoints of one vertex's edges,
// bounded by degree.
func (t *Traverser) neighborSet(ctx context.Context, source graph.ID,
	dir graph.Direction, labels []graph.ID, degree int64) (*orderedset.Set, error) {

	edges, err := t.edgesOfVertex(ctx, source, dir, labels, degree)
	if err != nil {
		return nil, err
	}
	defer edges.Close()

	neighbors := orderedset.New()
	for edges.Next(ctx) {
		metrics.EdgesScannedTotal.Inc()
		neighbors.Add(edges.Edge().Other(source))
	}
	if err := edges.Err(); err != nil {
		return nil, backendError("edges", err)
	}
	return neighbors, nil
}

// edgesOfVertex opens one edge query per label and concatenates the streams.
// TODO: limit is applied per label, not across all labels.
func (t *Traverser) edgesOfVertex(ctx context.Context, source graph.ID,
	dir graph.Direction, labels []graph.ID, limit int64) (graph.EdgeIterator, error) {

	open := func(ctx context.Context, labels ...graph.ID) (graph.EdgeIterator, error) {
		query := graph.ConstructEdgesQuery(source, dir, labels...)
		if limit != NoLimit {
			query.Limit(limit)
		}
		edges, err := t.backend.Edges(ctx, query)
		if err != nil {
			return nil, backendError("edges", err)
		}
		return edges, nil
	}

	if len(labels) <= 1 {
		return open(ctx, labels...)
	}
	return &multiLabelIterator{
		open: func(ctx context.Context, label graph.ID) (graph.EdgeIterator, error) {
			return open(ctx, label)
		},
		pending: append([]graph.ID(nil), labels...),
	}, nil
}

func (t *Traverser) edgesOfVertexFiltered(ctx context.Context, source graph.ID,
	step *EdgeStep, mustAllSortKeys bool) (graph.EdgeIterator, error) {

	query := graph.ConstructEdgesQuery(source, step.direction, step.labelIDs...)
	if mustAllSortKeys {
		if err := t.fillFilterBySortKeys(query, step); err != nil {
			return nil, err
		}
	} else {
		fillFilterByProperties(query, step.properties)
	}
	query.Capacity(graph.UnboundedCapacity)
	if queryLimit := step.queryLimit(); queryLimit != NoLimit {
		query.Limit(queryLimit)
	}

	edges, err := t.backend.Edges(ctx, query)
	if err != nil {
		return nil, backendError("edges", err)
	}
	return step.SkipSuperNodeIfNeeded(edges), nil
}

// fillFilterBySortKeys adds the step's property predicates and verifies they
// cover the sort key of the step's single edge label.
func (t *Traverser) fillFilterBySortKeys(query *graph.EdgeQuery, step *EdgeStep) error {
	if !step.HasProperties() {
		return nil
	}
	if len(step.labelIDs) != 1 {
		return &SchemaMismatchError{
			Detail: "the properties filter condition can be set " +
				"only if just one edge label is set",
		}
	}

	fillFilterByProperties(query, step.properties)

	if !t.backend.MatchesFullEdgeSortKeys(query) {
		labelName := step.labels[step.labelIDs[0]]
		return &SchemaMismatchError{
			Detail: fmt.Sprintf("the properties %v do not match sort keys "+
				"of edge label %q", t.propertyNames(step.properties), labelName),
		}
	}
	return nil
}

// fillFilterByProperties adds equality predicates in a stable key order.
func fillFilterByProperties(query *graph.EdgeQuery, properties map[graph.ID]any) {
	keys := make([]graph.ID, 0, len(properties))
	for key := range properties {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	for _, key := range keys {
		query.AddCondition(key, properties[key])
	}
}

func (t *Traverser) propertyNames(properties map[graph.ID]any) []string {
	names := make([]string, 0, len(properties))
	for id := range properties {
		name, err := t.schema.PropertyName(id)
		if err != nil {
			name = string(id)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Traverser) edgeLabelIDs(label string) ([]graph.ID, error) {
	id, ok, err := t.EdgeLabelID(label)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return []graph.ID{id}, nil
}

func checkSource(id graph.ID) error {
	if id == "" {
		return parameterError("source vertex id", id, "must not be empty")
	}
	return nil
}
