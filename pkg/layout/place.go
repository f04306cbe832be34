package layout

import (
	"errors"
	"fmt"

	"github.com/matzehuels/graphloom/pkg/graph"
)

// Layout styles.
const (
	StyleSimple = "simple" // circles in a fixed frame
	StyleBlock  = "block"  // attribute blocks in a frame that grows with the graph
)

// Default frame and sizing constants.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0

	simpleRadius   = 25.0
	simpleFont     = 12.0
	simpleMinScale = 0.4
	simpleScaleDiv = 100.0

	blockColumn   = 250.0
	blockRow      = 120.0
	blockW        = 160.0
	blockH        = 100.0
	blockFont     = 11.0
	blockMinScale = 0.6
	blockScaleDiv = 60.0
)

// ErrUnknownStyle is returned for a style other than [StyleSimple] or
// [StyleBlock].
var ErrUnknownStyle = errors.New("unknown layout style")

// Styles lists the supported layout styles.
var Styles = []string{StyleSimple, StyleBlock}

// Options controls placement. Zero values select the defaults.
type Options struct {
	Style  string
	Width  float64
	Height float64
}

// ValidateStyle reports whether s names a supported style. The empty string
// is accepted and means [StyleSimple].
func ValidateStyle(s string) error {
	switch s {
	case "", StyleSimple, StyleBlock:
		return nil
	}
	return fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownStyle, s, StyleSimple, StyleBlock)
}

// Position is the placement of one node. X and Y are the node's center; for
// block layouts TopX and TopY hold the block's top-left corner.
type Position struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	TopX float64 `json:"top_x,omitempty"`
	TopY float64 `json:"top_y,omitempty"`
}

// Compute levels g and places the result.
func Compute(g *graph.Graph, opts Options) (Layout, error) {
	return Place(Levels(g), g.NodeCount(), opts)
}

// Place positions the nodes of levels inside a frame. Each level is a column:
// level l sits at x = (l+1)·dx with dx = width/(maxLevel+2), and the i-th node
// of a column of n nodes sits at y = (i+1)·height/(n+1). Element sizes shrink
// as nodeCount grows, down to a per-style minimum scale.
func Place(levels LevelMap, nodeCount int, opts Options) (Layout, error) {
	if err := ValidateStyle(opts.Style); err != nil {
		return Layout{}, err
	}
	style := opts.Style
	if style == "" {
		style = StyleSimple
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	maxLvl := levels.MaxLevel()
	l := Layout{
		Style:     style,
		Levels:    levels,
		Positions: make(map[string]Position, levels.Len()),
	}

	n := float64(nodeCount)
	switch style {
	case StyleSimple:
		l.Scale = max(simpleMinScale, 1-n/simpleScaleDiv)
		l.Radius = simpleRadius * l.Scale
		l.FontSize = simpleFont * l.Scale
	case StyleBlock:
		width = max(width, float64(maxLvl+2)*blockColumn)
		height = max(height, float64(levels.Widest()+1)*blockRow)
		l.Scale = max(blockMinScale, 1-n/blockScaleDiv)
		l.BlockWidth = blockW * l.Scale
		l.BlockHeight = blockH * l.Scale
		l.FontSize = blockFont * l.Scale
	}
	l.Width, l.Height = width, height

	dx := width / float64(maxLvl+2)
	for lvl, ids := range levels {
		x := float64(lvl+1) * dx
		dy := height / float64(len(ids)+1)
		for i, id := range ids {
			p := Position{X: x, Y: dy * float64(i+1)}
			if style == StyleBlock {
				p.TopX = p.X - l.BlockWidth/2
				p.TopY = p.Y - l.BlockHeight/2
			}
			l.Positions[id] = p
		}
	}
	return l, nil
}
