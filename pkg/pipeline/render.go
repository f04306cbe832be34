package pipeline

import (
	"fmt"

	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/layout"
	"github.com/matzehuels/graphloom/pkg/render"
)

// RenderAll generates output artifacts in the requested formats without
// caching.
func RenderAll(g *graph.Graph, l layout.Layout, reg *render.Registry, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		r, err := reg.Get(format)
		if err != nil {
			return nil, err
		}
		data, err := r.Render(g, l)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
