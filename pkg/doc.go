// Package pkg provides the core libraries for Graphloom entity graphs.
//
// # Overview
//
// Graphloom turns semi-structured data (CSV/TSV tables, JSON or YAML lists
// and trees) into a validated entity graph and lays it out level by level.
// The pkg directory is organized into four main areas:
//
//  1. Ingestion - [source], [infer], [record], [build]
//  2. Structure - [graph], [workspace], [layout]
//  3. Output - [render], [export/cypher]
//  4. Infrastructure - [pipeline], [cache], [storage], [observability]
//
// # Architecture
//
// The typical data flow through Graphloom:
//
//	Raw payload (table, list, tree)
//	         ↓
//	    [source] normalizers (canonical node and edge records)
//	         ↓
//	    [build] package (validated graph with inferred attributes)
//	         ↓
//	    [layout] package (BFS levels + coordinates)
//	         ↓
//	    SVG/DOT/JSON output, or Neo4j via [export/cypher]
//
// # Quick Start
//
// Ingest a CSV edge list and render it:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, _ := runner.Execute(ctx, pipeline.Source{
//	    Name: "people.csv",
//	    Data: data,
//	}, pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("people.svg", result.Artifacts["svg"], 0o644)
//
// # Main Packages
//
// ## Ingestion
//
// [source] - Normalizer registry. [source/table] reads delimited edge lists,
// [source/object] reads JSON and YAML lists and trees, and [source/sources]
// wires them together with the auto-detecting normalizer. [source/remote]
// fetches payloads over HTTP.
//
// [infer] - Attribute type inference (integer, float, date, text).
//
// [record] - Canonical node and edge records shared by every normalizer.
//
// [build] - Builds and validates a [graph.Graph] from canonical records.
//
// ## Structure
//
// [graph] - Entity graph with stable node order and its plain JSON form.
//
// [workspace] - Current graph with undo history, search, and filters.
//
// [layout] - Breadth-first levels and simple or block placement.
//
// ## Output
//
// [render] - Output formats: direct SVG, Graphviz DOT and SVG, layout JSON.
//
// [export/cypher] - Batched MERGE export into Neo4j.
//
// ## Infrastructure
//
// [pipeline] - Ingest → layout → render orchestration shared by the CLI and
// the HTTP server, with per-stage caching.
//
// [cache] - Null, file, and Redis caches keyed by content hash.
//
// [storage] - Durable graph documents on the filesystem or in MongoDB.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example                 # Examples only
//
// [source]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/source
// [source/table]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/source/table
// [source/object]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/source/object
// [source/sources]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/source/sources
// [source/remote]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/source/remote
// [infer]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/infer
// [record]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/record
// [build]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/build
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/graph
// [workspace]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/workspace
// [layout]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/render
// [export/cypher]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/export/cypher
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/storage
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/observability
//
// [graph.Graph]: https://pkg.go.dev/github.com/matzehuels/graphloom/pkg/graph#Graph
package pkg
