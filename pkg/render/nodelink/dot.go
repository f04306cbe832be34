package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/layout"
	"github.com/matzehuels/graphloom/pkg/record"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes node attributes in node labels.
	// When false, only the node label is shown.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT format. Nodes of the same BFS level
// are grouped with rank=same, so Graphviz lays the levels out as columns like
// the level layout does.
//
// The graph is emitted as a digraph when it is directed; undirected edges in a
// directed graph get dir=none.
func ToDOT(g *graph.Graph, levels layout.LevelMap, opts Options) string {
	kind, arrow := "graph", "--"
	if g.Directed() {
		kind, arrow = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, fmtLabel(n, opts.Detailed))
	}

	if len(levels) > 0 {
		buf.WriteString("\n")
		for _, lvl := range levels.Order() {
			ids := make([]string, len(levels[lvl]))
			for i, id := range levels[lvl] {
				ids[i] = strconv.Quote(id)
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		var attrs []string
		if e.Weight != 1 {
			attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(e.Weight, 'g', -1, 64)))
		}
		if g.Directed() && !e.Directed {
			attrs = append(attrs, "dir=none")
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q %s %q [%s];\n", e.Source, arrow, e.Target, strings.Join(attrs, ", "))
			continue
		}
		fmt.Fprintf(&buf, "  %q %s %q;\n", e.Source, arrow, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed || len(n.Attributes) == 0 {
		return label
	}

	parts := make([]string, 0, len(n.Attributes))
	for _, k := range n.Attributes.Keys() {
		parts = append(parts, fmt.Sprintf("%s: %s", k, record.Text(n.Attributes[k])))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// =============================================================================
// Renderers
// =============================================================================

// DOT renders a graph as Graphviz DOT source.
type DOT struct{ Options Options }

// Render implements the renderer contract of pkg/render.
func (d DOT) Render(g *graph.Graph, l layout.Layout) ([]byte, error) {
	return []byte(ToDOT(g, l.Levels, d.Options)), nil
}

// Graphviz renders a graph to SVG by laying out its DOT source with Graphviz.
type Graphviz struct{ Options Options }

// Render implements the renderer contract of pkg/render.
func (r Graphviz) Render(g *graph.Graph, l layout.Layout) ([]byte, error) {
	return RenderSVG(context.Background(), ToDOT(g, l.Levels, r.Options))
}
