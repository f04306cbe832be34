// Package nodelink renders entity graphs as traditional node-link diagrams.
//
// # Overview
//
// This package produces graph visualizations using Graphviz, where nodes
// appear as boxes connected by lines or arrows. It is an alternative to the
// level renderer in pkg/render for cases where Graphviz's edge routing is
// preferred.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, layout.Levels(g), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) with rounded box
// nodes. Each BFS level becomes a rank=same group, which keeps Graphviz's
// columns aligned with the level layout. Undirected graphs produce a plain
// "graph" with "--" edges.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
