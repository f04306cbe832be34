package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/layout"
)

func chain(directed bool) *graph.Graph {
	g := graph.New(directed)
	_ = g.AddNode(graph.Node{ID: "a", Label: "A", Attributes: graph.Attributes{"n": int64(1)}})
	_ = g.AddNode(graph.Node{ID: "b"})
	_ = g.AddNode(graph.Node{ID: "c"})
	_, _ = g.AddEdge(graph.Edge{Source: "a", Target: "b", Weight: 1, Directed: directed})
	_, _ = g.AddEdge(graph.Edge{Source: "b", Target: "c", Weight: 3, Directed: false})
	return g
}

func TestToDOT(t *testing.T) {
	g := chain(true)
	dot := ToDOT(g, layout.Levels(g), Options{})

	for _, want := range []string{
		"digraph G {",
		`"a" [label="A"];`,
		`{ rank=same; "a"; }`,
		`{ rank=same; "c"; }`,
		`"a" -> "b";`,
		`"b" -> "c" [label="3", dir=none];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s:\n%s", want, dot)
		}
	}
}

func TestToDOTUndirected(t *testing.T) {
	g := chain(false)
	dot := ToDOT(g, nil, Options{Detailed: true})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Errorf("DOT = %.20s, want undirected graph", dot)
	}
	if !strings.Contains(dot, `"a" -- "b";`) {
		t.Error("missing undirected edge")
	}
	if strings.Contains(dot, "rank=same") {
		t.Error("rank groups without levels")
	}
	if !strings.Contains(dot, `label="A\nn: 1"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	g := chain(true)
	svg, err := RenderSVG(context.Background(), ToDOT(g, layout.Levels(g), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("output is not SVG: %.80s", svg)
	}
}
