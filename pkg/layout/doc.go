// Package layout computes level layouts for entity graphs.
//
// Layout happens in two steps. [Levels] assigns each node a depth by
// breadth-first search from the graph's roots; [Place] turns those levels into
// coordinates inside a frame, one column per level:
//
//	levels := layout.Levels(g)
//	l, err := layout.Place(levels, g.NodeCount(), layout.Options{Style: layout.StyleBlock})
//
// [Compute] does both. The result is a [Layout], which renderers in pkg/render
// draw and which serializes to JSON with [MarshalLayout].
//
// # Styles
//
// [StyleSimple] keeps a fixed 800×600 frame and draws circles whose radius
// shrinks as the graph grows. [StyleBlock] draws larger attribute blocks and
// widens the frame by 250 units per level and heightens it by 120 units per
// node in the widest level.
package layout
