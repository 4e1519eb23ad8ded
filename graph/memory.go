package graph

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBackend is an in-memory implementation of Backend and Schema used for
// unit testing traversal logic without a running graph database. Adjacency
// lists preserve edge insertion order, so traversals over it are
// deterministic.
type MemoryBackend struct {
	mu sync.Mutex

	nextLabel    int
	nextProperty int

	vertexLabels map[string]ID
	edgeLabels   map[string]ID
	labelNames   map[ID]string
	properties   map[string]ID
	propNames    map[ID]string
	sortKeys     map[ID][]ID

	out map[ID][]memoryEdge
	in  map[ID][]memoryEdge

	queries []*EdgeQuery
	err     error
}

type memoryEdge struct {
	edge  Edge
	props map[ID]any
}

// NewMemoryBackend instantiates an empty in-memory graph.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		vertexLabels: make(map[string]ID),
		edgeLabels:   make(map[string]ID),
		labelNames:   make(map[ID]string),
		properties:   make(map[string]ID),
		propNames:    make(map[ID]string),
		sortKeys:     make(map[ID][]ID),
		out:          make(map[ID][]memoryEdge),
		in:           make(map[ID][]memoryEdge),
	}
}

// WithError configures the backend to fail every subsequent call with err.
func (m *MemoryBackend) WithError(err error) *MemoryBackend {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// RegisterVertexLabel registers a vertex label and returns its id.
func (m *MemoryBackend) RegisterVertexLabel(name string) ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.vertexLabels[name]; ok {
		return id
	}
	m.nextLabel++
	id := ID(fmt.Sprintf("vl-%d", m.nextLabel))
	m.vertexLabels[name] = id
	m.labelNames[id] = name
	return id
}

// RegisterEdgeLabel registers an edge label with an optional sort key, given
// as property names, and returns its id.
func (m *MemoryBackend) RegisterEdgeLabel(name string, sortKeyProps ...string) ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.edgeLabels[name]; ok {
		return id
	}
	m.nextLabel++
	id := ID(fmt.Sprintf("el-%d", m.nextLabel))
	m.edgeLabels[name] = id
	m.labelNames[id] = name
	for _, prop := range sortKeyProps {
		m.sortKeys[id] = append(m.sortKeys[id], m.registerPropertyLocked(prop))
	}
	return id
}

// RegisterProperty registers a property key and returns its id.
func (m *MemoryBackend) RegisterProperty(name string) ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registerPropertyLocked(name)
}

func (m *MemoryBackend) registerPropertyLocked(name string) ID {
	if id, ok := m.properties[name]; ok {
		return id
	}
	m.nextProperty++
	id := ID(fmt.Sprintf("pk-%d", m.nextProperty))
	m.properties[name] = id
	m.propNames[id] = name
	return id
}

// AddEdge inserts a directed edge with optional properties. The label must
// have been registered beforehand.
func (m *MemoryBackend) AddEdge(label string, source, target ID, props map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	labelID, ok := m.edgeLabels[label]
	if !ok {
		return fmt.Errorf("unknown edge label %q", label)
	}

	propIDs := make(map[ID]any, len(props))
	for name, value := range props {
		propIDs[m.registerPropertyLocked(name)] = value
	}

	me := memoryEdge{
		edge:  Edge{Label: labelID, Source: source, Target: target},
		props: propIDs,
	}
	m.out[source] = append(m.out[source], me)
	m.in[target] = append(m.in[target], me)
	return nil
}

// Queries returns a snapshot of every edge query executed so far.
func (m *MemoryBackend) Queries() []*EdgeQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*EdgeQuery(nil), m.queries...)
}

// Edges runs an edge scan and returns an iterator over matching edges.
func (m *MemoryBackend) Edges(_ context.Context, query *EdgeQuery) (EdgeIterator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	m.queries = append(m.queries, query)

	matched := m.matchLocked(query)
	if query.HasLimit() && int64(len(matched)) > query.LimitValue() {
		matched = matched[:query.LimitValue()]
	}
	return &sliceIterator{edges: matched}, nil
}

// QueryNumber evaluates a COUNT aggregate query.
func (m *MemoryBackend) QueryNumber(_ context.Context, query *EdgeQuery) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return 0, m.err
	}
	m.queries = append(m.queries, query)

	if query.AggregateFunc() != AggregateCount {
		return 0, fmt.Errorf("unsupported aggregate %d", query.AggregateFunc())
	}
	return int64(len(m.matchLocked(query))), nil
}

// MatchesFullEdgeSortKeys reports whether the query's property conditions
// exactly cover the sort key of its single edge label.
func (m *MemoryBackend) MatchesFullEdgeSortKeys(query *EdgeQuery) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	labels := query.Labels()
	if len(labels) != 1 {
		return false
	}
	keys := m.sortKeys[labels[0]]
	if len(keys) == 0 {
		return false
	}

	conditioned := make(map[ID]bool, len(query.Conditions()))
	for _, cond := range query.Conditions() {
		conditioned[cond.Key] = true
	}
	if len(conditioned) != len(keys) {
		return false
	}
	for _, key := range keys {
		if !conditioned[key] {
			return false
		}
	}
	return true
}

// Close releases nothing; it exists to satisfy Backend.
func (m *MemoryBackend) Close(context.Context) error {
	return nil
}

// LabelID resolves a registered label name to its id.
func (m *MemoryBackend) LabelID(typ LabelType, name string) (ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	table := m.edgeLabels
	if typ == VertexLabel {
		table = m.vertexLabels
	}
	id, ok := table[name]
	if !ok {
		return "", fmt.Errorf("unknown %s label %q", typ, name)
	}
	return id, nil
}

// EdgeLabelName resolves an edge label id back to its name.
func (m *MemoryBackend) EdgeLabelName(id ID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.labelNames[id]
	if !ok {
		return "", fmt.Errorf("unknown edge label id %q", id)
	}
	return name, nil
}

// PropertyID resolves a registered property name to its id.
func (m *MemoryBackend) PropertyID(name string) (ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.properties[name]
	if !ok {
		return "", fmt.Errorf("unknown property %q", name)
	}
	return id, nil
}

// PropertyName resolves a property key id back to its name.
func (m *MemoryBackend) PropertyName(id ID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, ok := m.propNames[id]
	if !ok {
		return "", fmt.Errorf("unknown property id %q", id)
	}
	return name, nil
}

func (m *MemoryBackend) matchLocked(query *EdgeQuery) []Edge {
	var candidates []memoryEdge
	switch query.Direction() {
	case DirectionOut:
		candidates = m.out[query.Source()]
	case DirectionIn:
		candidates = m.in[query.Source()]
	case DirectionBoth:
		candidates = append(append([]memoryEdge(nil), m.out[query.Source()]...),
			m.in[query.Source()]...)
	}

	var matched []Edge
	for _, cand := range candidates {
		if !labelMatches(query.Labels(), cand.edge.Label) {
			continue
		}
		if !conditionsMatch(query.Conditions(), cand.props) {
			continue
		}
		matched = append(matched, cand.edge)
	}
	return matched
}

func labelMatches(labels []ID, label ID) bool {
	if len(labels) == 0 {
		return true
	}
	for _, want := range labels {
		if want == label {
			return true
		}
	}
	return false
}

func conditionsMatch(conditions []PropertyCondition, props map[ID]any) bool {
	for _, cond := range conditions {
		value, ok := props[cond.Key]
		if !ok || value != cond.Value {
			return false
		}
	}
	return true
}

type sliceIterator struct {
	edges []Edge
	idx   int
	cur   Edge
	err   error
}

func (it *sliceIterator) Next(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		it.err = err
		return false
	}
	if it.idx >= len(it.edges) {
		return false
	}
	it.cur = it.edges[it.idx]
	it.idx++
	return true
}

func (it *sliceIterator) Edge() Edge { return it.cur }
func (it *sliceIterator) Err() error { return it.err }
func (it *sliceIterator) Close()     {}
