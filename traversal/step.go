package traversal

import (
	"github.com/vanshika/graphwalk/graph"
)

// EdgeStep bundles the per-step edge filters of a traversal: direction,
// label set, property predicates, per-vertex fan-out cap, super-node skip
// threshold and result limit.
type EdgeStep struct {
	direction  graph.Direction
	labelIDs   []graph.ID
	labels     map[graph.ID]string
	properties map[graph.ID]any
	degree     int64
	skipDegree int64
	limit      int64
}

// NewEdgeStep resolves label and property names through the schema and
// validates the budget constraints. An empty label list matches any label.
func NewEdgeStep(schema graph.Schema, direction graph.Direction,
	labelNames []string, properties map[string]any,
	degree, skipDegree, limit int64) (*EdgeStep, error) {

	if err := CheckDegree(degree); err != nil {
		return nil, err
	}
	if err := CheckSkipDegree(skipDegree, degree, NoLimit); err != nil {
		return nil, err
	}
	if err := CheckLimit(limit); err != nil {
		return nil, err
	}

	step := &EdgeStep{
		direction:  direction,
		labels:     make(map[graph.ID]string, len(labelNames)),
		properties: make(map[graph.ID]any, len(properties)),
		degree:     degree,
		skipDegree: skipDegree,
		limit:      limit,
	}

	for _, name := range labelNames {
		id, err := schema.LabelID(graph.EdgeLabel, name)
		if err != nil {
			return nil, &SchemaMismatchError{Detail: "edge label " + name, Err: err}
		}
		if _, ok := step.labels[id]; ok {
			continue
		}
		step.labelIDs = append(step.labelIDs, id)
		step.labels[id] = name
	}

	for name, value := range properties {
		id, err := schema.PropertyID(name)
		if err != nil {
			return nil, &SchemaMismatchError{Detail: "property " + name, Err: err}
		}
		step.properties[id] = value
	}

	return step, nil
}

// Direction returns the step's direction.
func (s *EdgeStep) Direction() graph.Direction {
	return s.direction
}

// EdgeLabelIDs returns the label ids in declaration order.
func (s *EdgeStep) EdgeLabelIDs() []graph.ID {
	return s.labelIDs
}

// LabelName returns the declared name behind a label id.
func (s *EdgeStep) LabelName(id graph.ID) string {
	return s.labels[id]
}

// Properties returns the resolved property predicates.
func (s *EdgeStep) Properties() map[graph.ID]any {
	return s.properties
}

// HasProperties reports whether the step filters on properties.
func (s *EdgeStep) HasProperties() bool {
	return len(s.properties) > 0
}

// Degree returns the per-vertex fan-out cap.
func (s *EdgeStep) Degree() int64 {
	return s.degree
}

// SkipDegree returns the super-node threshold; 0 disables suppression.
func (s *EdgeStep) SkipDegree() int64 {
	return s.skipDegree
}

// Limit returns the step's result cap.
func (s *EdgeStep) Limit() int64 {
	return s.limit
}

// queryLimit is the limit pushed into the backend query. With super-node
// suppression on, the stream must observe the skipDegree-th edge to detect a
// super-node, so the query reads up to skipDegree; otherwise the smaller of
// degree and limit bounds the scan.
func (s *EdgeStep) queryLimit() int64 {
	if s.skipDegree > 0 {
		return s.skipDegree
	}
	limit := s.degree
	if s.limit != NoLimit && (limit == NoLimit || s.limit < limit) {
		limit = s.limit
	}
	return limit
}

// SkipSuperNodeIfNeeded wraps the stream with super-node suppression when the
// step declares a skip degree. The suppressed stream yields at most the
// smaller of degree and limit edges.
func (s *EdgeStep) SkipSuperNodeIfNeeded(edges graph.EdgeIterator) graph.EdgeIterator {
	degree := s.degree
	if s.limit != NoLimit && s.limit < degree {
		degree = s.limit
	}
	return SkipSuperNodeIfNeeded(edges, degree, s.skipDegree)
}
