package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/layout"
	"github.com/matzehuels/graphloom/pkg/record"
)

// MaxVisibleAttributes is the number of attribute lines drawn inside a block.
// Further attributes are summarized as "+N more".
const MaxVisibleAttributes = 4

const (
	edgeColor    = "#555"
	nodeStroke   = "#333"
	nodeFill     = "#fff"
	charWidth    = 0.55
	lineSpacing  = 1.3
	minLineChars = 3
)

const svgStyle = `
    .node circle, .node rect { stroke: ` + nodeStroke + `; stroke-width: 1.5; fill: ` + nodeFill + `; }
    .node text { font-family: sans-serif; fill: #111; }
    .node .label { font-weight: bold; }
    .edge { stroke: ` + edgeColor + `; stroke-width: 1.5; fill: none; }
    .weight { font-family: sans-serif; fill: ` + edgeColor + `; }`

// SVG draws a placed graph directly, without Graphviz: circles for simple
// layouts and attribute blocks for block layouts.
type SVG struct{}

// Render implements [Renderer].
func (SVG) Render(g *graph.Graph, l layout.Layout) ([]byte, error) {
	return RenderSVG(g, l), nil
}

// RenderSVG draws g at the positions in l. Nodes without a position are
// skipped, as are edges touching them. Directed edges end in an arrowhead.
func RenderSVG(g *graph.Graph, l layout.Layout) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", svgStyle)

	edges := g.Edges()
	if hasDirected(edges) {
		renderArrowDefs(&buf)
	}

	for _, e := range edges {
		renderEdge(&buf, l, e)
	}
	for _, n := range g.Nodes() {
		p, ok := l.Positions[n.ID]
		if !ok {
			continue
		}
		if l.IsBlock() {
			renderBlock(&buf, l, n, p)
		} else {
			renderCircle(&buf, l, n, p)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func hasDirected(edges []*graph.Edge) bool {
	for _, e := range edges {
		if e.Directed {
			return true
		}
	}
	return false
}

func renderArrowDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">` + "\n")
	fmt.Fprintf(buf, `      <path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>`+"\n", edgeColor)
	buf.WriteString("    </marker>\n")
	buf.WriteString("  </defs>\n")
}

// =============================================================================
// Edges
// =============================================================================

func renderEdge(buf *bytes.Buffer, l layout.Layout, e *graph.Edge) {
	src, okS := l.Positions[e.Source]
	dst, okD := l.Positions[e.Target]
	if !okS || !okD {
		return
	}

	marker := ""
	if e.Directed {
		marker = ` marker-end="url(#arrow)"`
	}
	hw, hh := extent(l)

	if e.Source == e.Target {
		// Loop over the top of the node.
		x, y := src.X, src.Y-hh
		r := max(hw, hh) / 2
		fmt.Fprintf(buf, `  <path class="edge" data-edge="%s" d="M %.1f %.1f A %.1f %.1f 0 1 1 %.1f %.1f"%s/>`+"\n",
			escapeXML(e.ID), x-r, y, r, r, x+r/2, y, marker)
		return
	}

	dx, dy := dst.X-src.X, dst.Y-src.Y
	t := clip(dx, dy, hw, hh, l.IsBlock())
	x1, y1 := src.X+dx*t, src.Y+dy*t
	x2, y2 := dst.X-dx*t, dst.Y-dy*t
	fmt.Fprintf(buf, `  <line class="edge" data-edge="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"%s/>`+"\n",
		escapeXML(e.ID), x1, y1, x2, y2, marker)

	if e.Weight != 1 {
		fmt.Fprintf(buf, `  <text class="weight" x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle">%s</text>`+"\n",
			(x1+x2)/2, (y1+y2)/2-2, l.FontSize, strconv.FormatFloat(e.Weight, 'g', -1, 64))
	}
}

// extent returns the half width and half height of a drawn node.
func extent(l layout.Layout) (float64, float64) {
	if l.IsBlock() {
		return l.BlockWidth / 2, l.BlockHeight / 2
	}
	return l.Radius, l.Radius
}

// clip returns the fraction of the center-to-center vector (dx, dy) that lies
// inside a node, so lines start and end at node borders. Overlapping nodes
// yield 0.
func clip(dx, dy, hw, hh float64, rect bool) float64 {
	var t float64
	if rect {
		t = math.Inf(1)
		if dx != 0 {
			t = hw / math.Abs(dx)
		}
		if dy != 0 {
			t = min(t, hh/math.Abs(dy))
		}
	} else if d := math.Hypot(dx, dy); d > 0 {
		t = hw / d
	}
	if t >= 0.5 {
		return 0
	}
	return t
}

// =============================================================================
// Nodes
// =============================================================================

func renderCircle(buf *bytes.Buffer, l layout.Layout, n *graph.Node, p layout.Position) {
	fmt.Fprintf(buf, `  <g class="node" id="node-%s">`+"\n", escapeXML(n.ID))
	fmt.Fprintf(buf, "    <title>%s</title>\n", escapeXML(tooltip(n)))
	fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", p.X, p.Y, l.Radius)
	fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		p.X, p.Y, l.FontSize, escapeXML(truncate(n.DisplayLabel(), 2*l.Radius, l.FontSize)))
	buf.WriteString("  </g>\n")
}

func renderBlock(buf *bytes.Buffer, l layout.Layout, n *graph.Node, p layout.Position) {
	fmt.Fprintf(buf, `  <g class="node" id="node-%s">`+"\n", escapeXML(n.ID))
	fmt.Fprintf(buf, "    <title>%s</title>\n", escapeXML(tooltip(n)))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f"/>`+"\n",
		p.TopX, p.TopY, l.BlockWidth, l.BlockHeight, 6*l.Scale)

	step := l.FontSize * lineSpacing
	x := p.TopX + l.FontSize/2
	y := p.TopY + step
	fmt.Fprintf(buf, `    <text class="label" x="%.1f" y="%.1f" font-size="%.1f">%s</text>`+"\n",
		x, y, l.FontSize, escapeXML(truncate(n.DisplayLabel(), l.BlockWidth, l.FontSize)))

	for _, line := range attributeLines(n) {
		y += step
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f">%s</text>`+"\n",
			x, y, l.FontSize, escapeXML(truncate(line, l.BlockWidth, l.FontSize)))
	}
	buf.WriteString("  </g>\n")
}

// attributeLines returns the "key: value" lines drawn inside a block.
func attributeLines(n *graph.Node) []string {
	keys := n.Attributes.Keys()
	lines := make([]string, 0, min(len(keys), MaxVisibleAttributes)+1)
	for i, k := range keys {
		if i == MaxVisibleAttributes {
			lines = append(lines, fmt.Sprintf("+%d more", len(keys)-i))
			break
		}
		lines = append(lines, k+": "+record.Text(n.Attributes[k]))
	}
	return lines
}

func tooltip(n *graph.Node) string {
	parts := []string{n.DisplayLabel()}
	if n.DisplayLabel() != n.ID {
		parts[0] += " (" + n.ID + ")"
	}
	for _, k := range n.Attributes.Keys() {
		parts = append(parts, k+": "+record.Text(n.Attributes[k]))
	}
	return strings.Join(parts, "\n")
}

// truncate shortens s to the characters that fit in width at fontSize.
func truncate(s string, width, fontSize float64) string {
	if fontSize <= 0 {
		return s
	}
	maxChars := max(minLineChars, int(width/(fontSize*charWidth)))
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
