package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/layout"
	"github.com/matzehuels/graphloom/pkg/render/nodelink"
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
	FormatJSON     = "json"
)

// ErrUnknownFormat is returned by [Registry.Get] for an unregistered format.
var ErrUnknownFormat = errors.New("unknown render format")

// Renderer draws a placed graph into one output format.
type Renderer interface {
	Render(g *graph.Graph, l layout.Layout) ([]byte, error)
}

// RendererFunc adapts a function to [Renderer].
type RendererFunc func(g *graph.Graph, l layout.Layout) ([]byte, error)

// Render calls f.
func (f RendererFunc) Render(g *graph.Graph, l layout.Layout) ([]byte, error) { return f(g, l) }

// Registry maps format names to renderers. It is built explicitly; there is
// no package-level registration.
type Registry struct {
	renderers map[string]Renderer
	names     []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Default returns a registry with the svg, dot, graphviz and json renderers.
func Default() *Registry {
	r := NewRegistry()
	r.Register(FormatSVG, SVG{})
	r.Register(FormatDOT, nodelink.DOT{Options: nodelink.Options{Detailed: true}})
	r.Register(FormatGraphviz, nodelink.Graphviz{Options: nodelink.Options{Detailed: true}})
	r.Register(FormatJSON, JSON{})
	return r
}

// Register adds or replaces the renderer for name.
func (r *Registry) Register(name string, rd Renderer) {
	if _, ok := r.renderers[name]; !ok {
		r.names = append(r.names, name)
	}
	r.renderers[name] = rd
}

// Get returns the renderer for name.
func (r *Registry) Get(name string) (Renderer, error) {
	rd, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownFormat, name, strings.Join(r.names, ", "))
	}
	return rd, nil
}

// Names returns the registered formats in registration order.
func (r *Registry) Names() []string { return slices.Clone(r.names) }

// Validate checks that every format is registered.
func (r *Registry) Validate(formats []string) error {
	for _, f := range formats {
		if _, err := r.Get(f); err != nil {
			return err
		}
	}
	return nil
}

// Extension returns the file extension used for an output format.
func Extension(format string) string {
	switch format {
	case FormatSVG:
		return ".svg"
	case FormatDOT:
		return ".dot"
	case FormatGraphviz:
		return ".gv.svg"
	case FormatJSON:
		return ".layout.json"
	}
	return "." + format
}

// ContentType returns the MIME type of an output format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatGraphviz:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// JSON renders the layout itself as JSON.
type JSON struct{}

// Render implements [Renderer].
func (JSON) Render(_ *graph.Graph, l layout.Layout) ([]byte, error) {
	return layout.MarshalLayout(l)
}
