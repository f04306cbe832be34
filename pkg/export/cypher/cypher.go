// Package cypher exports graphs into Neo4j-compatible databases (Neo4j,
// Memgraph) with parameterized Cypher.
//
// Every node becomes a vertex carrying one label, with its id, display label
// and attributes as properties. Every edge becomes a relationship of one
// type. Writes use MERGE keyed on id, so exporting the same graph twice
// leaves a single copy. Undirected edges are stored as one relationship from
// source to target with directed = false.
//
// Usage:
//
//	exec, err := cypher.NewDriverExecutor(ctx, "bolt://localhost:7687", "neo4j", "secret")
//	if err != nil {
//	    return err
//	}
//	defer exec.Close(ctx)
//	stats, err := cypher.New(exec).Export(ctx, g)
package cypher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/charmbracelet/log"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/infer"
	"github.com/matzehuels/graphloom/pkg/record"
)

// Defaults for the exported schema.
const (
	DefaultLabel     = "Entity"
	DefaultRelType   = "RELATES_TO"
	DefaultBatchSize = 500
)

// ErrInvalidIdentifier is returned for labels or relationship types that are
// not plain Cypher identifiers.
var ErrInvalidIdentifier = errors.New("invalid cypher identifier")

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Executor runs one Cypher statement with parameters.
type Executor interface {
	Execute(ctx context.Context, query string, params map[string]any) error
}

// Stats reports what an export wrote.
type Stats struct {
	Nodes   int
	Edges   int
	Batches int
}

// Exporter writes graphs through an Executor.
type Exporter struct {
	Executor  Executor
	Label     string // node label, defaults to DefaultLabel
	RelType   string // relationship type, defaults to DefaultRelType
	BatchSize int    // rows per statement, defaults to DefaultBatchSize
	Replace   bool   // delete every node with Label before writing
	Logger    *log.Logger
}

// New returns an exporter with default schema names.
func New(exec Executor) *Exporter {
	return &Exporter{Executor: exec}
}

// Export writes every node, then every edge, of g.
func (e *Exporter) Export(ctx context.Context, g *graph.Graph) (Stats, error) {
	label, relType, err := e.names()
	if err != nil {
		return Stats{}, err
	}
	logger := e.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	var stats Stats
	if e.Replace {
		if err := e.Executor.Execute(ctx, fmt.Sprintf("MATCH (n:`%s`) DETACH DELETE n", label), nil); err != nil {
			return stats, fmt.Errorf("clear %s nodes: %w", label, err)
		}
	}

	// Index creation fails harmlessly on servers that already have it or
	// use a different syntax.
	indexQuery := fmt.Sprintf("CREATE INDEX IF NOT EXISTS FOR (n:`%s`) ON (n.id)", label)
	if err := e.Executor.Execute(ctx, indexQuery, nil); err != nil {
		logger.Warn("failed to create index", "label", label, "err", err)
	}

	nodeQuery := fmt.Sprintf(
		"UNWIND $rows AS row MERGE (n:`%s` {id: row.id}) SET n += row.props, n.label = row.label",
		label)
	nodes := g.Nodes()
	for start := 0; start < len(nodes); start += e.batchSize() {
		end := min(start+e.batchSize(), len(nodes))
		rows := make([]map[string]any, 0, end-start)
		for _, n := range nodes[start:end] {
			rows = append(rows, NodeRow(n))
		}
		if err := e.Executor.Execute(ctx, nodeQuery, map[string]any{"rows": rows}); err != nil {
			return stats, fmt.Errorf("write nodes %d-%d: %w", start, end-1, err)
		}
		stats.Nodes += len(rows)
		stats.Batches++
	}

	edgeQuery := fmt.Sprintf(
		"UNWIND $rows AS row "+
			"MATCH (s:`%[1]s` {id: row.source}) "+
			"MATCH (t:`%[1]s` {id: row.target}) "+
			"MERGE (s)-[r:`%[2]s` {id: row.id}]->(t) "+
			"SET r += row.props, r.weight = row.weight, r.directed = row.directed",
		label, relType)
	edges := g.Edges()
	for start := 0; start < len(edges); start += e.batchSize() {
		end := min(start+e.batchSize(), len(edges))
		rows := make([]map[string]any, 0, end-start)
		for _, ed := range edges[start:end] {
			rows = append(rows, EdgeRow(ed))
		}
		if err := e.Executor.Execute(ctx, edgeQuery, map[string]any{"rows": rows}); err != nil {
			return stats, fmt.Errorf("write edges %d-%d: %w", start, end-1, err)
		}
		stats.Edges += len(rows)
		stats.Batches++
	}

	logger.Info("exported graph", "nodes", stats.Nodes, "edges", stats.Edges, "batches", stats.Batches)
	return stats, nil
}

func (e *Exporter) names() (string, string, error) {
	label, relType := e.Label, e.RelType
	if label == "" {
		label = DefaultLabel
	}
	if relType == "" {
		relType = DefaultRelType
	}
	for _, s := range []string{label, relType} {
		if !identPattern.MatchString(s) {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
		}
	}
	return label, relType, nil
}

func (e *Exporter) batchSize() int {
	if e.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return e.BatchSize
}

// NodeRow returns the statement parameters for one node.
func NodeRow(n *graph.Node) map[string]any {
	return map[string]any{
		"id":    n.ID,
		"label": n.DisplayLabel(),
		"props": Properties(n.Attributes),
	}
}

// EdgeRow returns the statement parameters for one edge.
func EdgeRow(e *graph.Edge) map[string]any {
	return map[string]any{
		"id":       e.ID,
		"source":   e.Source,
		"target":   e.Target,
		"weight":   e.Weight,
		"directed": e.Directed,
		"props":    Properties(e.Attributes),
	}
}

// Properties converts attributes into driver property values. Dates become
// Cypher dates; anything that is not a number or date is written as text.
func Properties(attrs graph.Attributes) map[string]any {
	props := make(map[string]any, len(attrs))
	for k, v := range attrs {
		switch x := v.(type) {
		case int64, float64, string:
			props[k] = x
		case infer.Date:
			props[k] = dbtype.Date(x.Time())
		default:
			props[k] = record.Text(x)
		}
	}
	return props
}
