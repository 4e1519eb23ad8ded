package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jBackend implements Backend and Schema over the Bolt protocol using the
// official Neo4j driver. Vertices are matched by their "id" property and edge
// labels map onto relationship types, so label and property ids are the names
// themselves. Neptune's openCypher endpoint is wire-compatible with Bolt,
// allowing the same backend to serve both local Neo4j and AWS Neptune.
type Neo4jBackend struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jBackend establishes a Bolt connection and verifies connectivity.
func NewNeo4jBackend(ctx context.Context, opts Options) (*Neo4jBackend, error) {
	if opts.URI == "" {
		return nil, ErrMissingURI
	}

	auth := neo4j.NoAuth()
	if opts.Username != "" {
		auth = neo4j.BasicAuth(opts.Username, opts.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI, auth, func(c *neo4j.Config) {
		if opts.MaxConnections > 0 {
			c.MaxConnectionPoolSize = opts.MaxConnections
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}

	return &Neo4jBackend{
		driver:   driver,
		database: opts.Database,
	}, nil
}

// Edges translates the query into a Cypher edge scan and streams the result.
// The returned iterator owns a session that is released on Close.
func (b *Neo4jBackend) Edges(ctx context.Context, query *EdgeQuery) (EdgeIterator, error) {
	cypher, params := buildEdgesCypher(query, false)

	session := b.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: b.database,
		AccessMode:   neo4j.AccessModeRead,
	})

	res, err := session.Run(ctx, cypher, params)
	if err != nil {
		_ = session.Close(ctx)
		return nil, fmt.Errorf("edges query: %w", err)
	}

	return &neo4jIterator{session: session, result: res}, nil
}

// QueryNumber evaluates a COUNT aggregate query.
func (b *Neo4jBackend) QueryNumber(ctx context.Context, query *EdgeQuery) (int64, error) {
	cypher, params := buildEdgesCypher(query, true)

	session := b.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: b.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, cypher, params)
	if err != nil {
		return 0, fmt.Errorf("count query: %w", err)
	}

	record, err := res.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("count result: %w", err)
	}
	value, _ := record.Get("total")
	count, ok := value.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected count value %T", value)
	}
	return count, nil
}

// MatchesFullEdgeSortKeys reports whether the backend can push the query's
// property predicates into its primary relationship index. Relationship
// properties are always filterable over Bolt, so any single-label query with
// predicates qualifies.
func (b *Neo4jBackend) MatchesFullEdgeSortKeys(query *EdgeQuery) bool {
	return len(query.Labels()) == 1 && len(query.Conditions()) > 0
}

// Close releases the driver and its connection pool.
func (b *Neo4jBackend) Close(ctx context.Context) error {
	return b.driver.Close(ctx)
}

// LabelID maps a label name onto itself: relationship types and node labels
// are addressed by name over Bolt.
func (b *Neo4jBackend) LabelID(typ LabelType, name string) (ID, error) {
	if name == "" {
		return "", fmt.Errorf("empty %s label name", typ)
	}
	return ID(name), nil
}

// EdgeLabelName returns the relationship type behind an edge label id.
func (b *Neo4jBackend) EdgeLabelName(id ID) (string, error) {
	return string(id), nil
}

// PropertyID maps a property name onto itself.
func (b *Neo4jBackend) PropertyID(name string) (ID, error) {
	if name == "" {
		return "", fmt.Errorf("empty property name")
	}
	return ID(name), nil
}

// PropertyName returns the property key behind a property id.
func (b *Neo4jBackend) PropertyName(id ID) (string, error) {
	return string(id), nil
}

func buildEdgesCypher(query *EdgeQuery, count bool) (string, map[string]any) {
	var relTypes string
	if labels := query.Labels(); len(labels) > 0 {
		names := make([]string, len(labels))
		for i, label := range labels {
			names[i] = string(label)
		}
		relTypes = ":" + strings.Join(names, "|")
	}

	var pattern string
	switch query.Direction() {
	case DirectionOut:
		pattern = fmt.Sprintf("(s {id: $source})-[e%s]->()", relTypes)
	case DirectionIn:
		pattern = fmt.Sprintf("(s {id: $source})<-[e%s]-()", relTypes)
	default:
		pattern = fmt.Sprintf("(s {id: $source})-[e%s]-()", relTypes)
	}

	params := map[string]any{"source": string(query.Source())}

	var where []string
	for i, cond := range query.Conditions() {
		param := fmt.Sprintf("p%d", i)
		where = append(where, fmt.Sprintf("e.%s = $%s", cond.Key, param))
		params[param] = cond.Value
	}

	var sb strings.Builder
	sb.WriteString("MATCH ")
	sb.WriteString(pattern)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	if count {
		sb.WriteString(" RETURN count(e) AS total")
	} else {
		sb.WriteString(" RETURN startNode(e).id AS source, endNode(e).id AS target, type(e) AS label")
		if query.HasLimit() {
			fmt.Fprintf(&sb, " LIMIT %d", query.LimitValue())
		}
	}
	return sb.String(), params
}

type neo4jIterator struct {
	session neo4j.SessionWithContext
	result  neo4j.ResultWithContext
	cur     Edge
	err     error
	closed  bool
}

func (it *neo4jIterator) Next(ctx context.Context) bool {
	if it.err != nil || it.closed {
		return false
	}
	if !it.result.Next(ctx) {
		it.err = it.result.Err()
		return false
	}

	record := it.result.Record()
	source, _ := record.Get("source")
	target, _ := record.Get("target")
	label, _ := record.Get("label")
	it.cur = Edge{
		Label:  ID(asString(label)),
		Source: ID(asString(source)),
		Target: ID(asString(target)),
	}
	return true
}

func (it *neo4jIterator) Edge() Edge { return it.cur }
func (it *neo4jIterator) Err() error { return it.err }

func (it *neo4jIterator) Close() {
	if it.closed {
		return
	}
	it.closed = true
	_ = it.session.Close(context.Background())
}

func asString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
