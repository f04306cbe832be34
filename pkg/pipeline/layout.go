package pipeline

import (
	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/layout"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout levels and places g without caching.
func GenerateLayout(g *graph.Graph, opts Options) (layout.Layout, error) {
	levels := layout.Levels(g)
	l, err := layout.Place(levels, g.NodeCount(), opts.LayoutOptions())
	if err != nil {
		return layout.Layout{}, err
	}
	opts.Logger.Debug("placed nodes",
		"style", l.Style,
		"levels", len(levels),
		"widest", levels.Widest(),
		"frame", [2]float64{l.Width, l.Height})
	return l, nil
}
