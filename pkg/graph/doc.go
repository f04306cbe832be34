// Package graph provides the validated entity graph and its wire format.
//
// A [Graph] owns ordered nodes and edges for the lifetime of one ingestion
// result. It is populated by the builder (pkg/build) and then handed to the
// layout engine or any other consumer; structural changes after building are
// not supported, although the graph-level direction may still be changed with
// [Graph.SetDirected].
//
// # Invariants
//
//   - Node IDs are non-empty and unique; Label defaults to the ID.
//   - Edge IDs are unique; an edge added without an ID gets the next free
//     value of a per-graph counter rendered in decimal ("1", "2", ...).
//   - Every edge's Source and Target exist at insertion time.
//   - Nodes and edges keep insertion order everywhere: accessors, adjacency
//     lists and the plain form.
//
// # Plain Form
//
// [Graph.ToPlain] returns the serialization form used for files, API
// responses, caching and storage:
//
//	{
//	  "directed": true,
//	  "nodes": [{"id": "a", "label": "A", "attributes": {"age": 3}}],
//	  "edges": [{"id": "1", "source": "a", "target": "b", "weight": 1.0,
//	             "directed": true, "attributes": {}}]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalPlain(g)             // Graph → []byte
//	graph.WritePlainFile(g, "out.graph.json")    // Graph → File
//	p, _ := graph.ReadPlainFile("out.graph.json") // File → Plain
//	g2, _ := build.Build(build.FromPlain(p))     // Plain → Graph
//
// # Concurrency
//
// Graph is not safe for concurrent writes. Concurrent reads of a fully built
// graph are safe.
package graph
