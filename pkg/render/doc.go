// Package render draws placed entity graphs.
//
// # Overview
//
// A [Renderer] turns a graph and its [layout.Layout] into bytes in one output
// format. [Default] returns a [Registry] with every built-in format:
//
//   - svg: direct SVG of the level layout ([SVG])
//   - dot: Graphviz DOT source with one rank per level ([nodelink.DOT])
//   - graphviz: SVG laid out by Graphviz ([nodelink.Graphviz])
//   - json: the layout itself ([JSON])
//
// Typical use:
//
//	l, _ := layout.Compute(g, layout.Options{Style: layout.StyleBlock})
//	r, _ := render.Default().Get(render.FormatSVG)
//	svg, _ := r.Render(g, l)
//
// # Styles
//
// The svg renderer follows the layout style: simple layouts draw labelled
// circles, block layouts draw rounded blocks holding the label and up to
// [MaxVisibleAttributes] attribute lines. Directed edges end in an arrowhead
// and edges with a non-default weight are labelled with it.
//
// [nodelink]: github.com/matzehuels/graphloom/pkg/render/nodelink
package render
