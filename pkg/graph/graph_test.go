package graph

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/graphloom/pkg/infer"
)

func chain(t *testing.T) *Graph {
	t.Helper()
	g := New(true)
	for _, id := range []string{"a", "b", "c"} {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	if _, err := g.AddEdge(Edge{Source: "a", Target: "b", Weight: 1, Directed: true}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if _, err := g.AddEdge(Edge{Source: "b", Target: "c", Weight: 1, Directed: true}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := New(true)

	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	n, ok := g.Node("a")
	if !ok {
		t.Fatal("Node(a) not found")
	}
	if n.Label != "a" {
		t.Errorf("Label = %q, want id", n.Label)
	}
	if n.Attributes == nil {
		t.Error("Attributes not initialized")
	}

	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate AddNode() error = %v, want ErrDuplicateNodeID", err)
	}
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty AddNode() error = %v, want ErrInvalidNodeID", err)
	}
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{"valid", Edge{Source: "a", Target: "b"}, nil},
		{"self loop", Edge{Source: "a", Target: "a"}, nil},
		{"unknown source", Edge{Source: "x", Target: "b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{Source: "a", Target: "x"}, ErrUnknownTargetNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(true)
			_ = g.AddNode(Node{ID: "a"})
			_ = g.AddNode(Node{ID: "b"})

			_, err := g.AddEdge(tt.edge)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAutoEdgeIDs(t *testing.T) {
	g := New(true)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})

	e1, _ := g.AddEdge(Edge{Source: "a", Target: "b"})
	e2, _ := g.AddEdge(Edge{ID: "3", Source: "b", Target: "a"})
	e3, _ := g.AddEdge(Edge{Source: "a", Target: "a"})
	e4, _ := g.AddEdge(Edge{Source: "b", Target: "b"})

	got := []string{e1.ID, e2.ID, e3.ID, e4.ID}
	want := []string{"1", "3", "2", "4"}
	if !slices.Equal(got, want) {
		t.Errorf("edge IDs = %v, want %v", got, want)
	}

	if _, err := g.AddEdge(Edge{ID: "2", Source: "a", Target: "b"}); !errors.Is(err, ErrDuplicateEdgeID) {
		t.Errorf("AddEdge(dup) error = %v, want ErrDuplicateEdgeID", err)
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount() = %d, want 4", g.EdgeCount())
	}
}

func TestNextNodeID(t *testing.T) {
	g := New(true)
	_ = g.AddNode(Node{ID: "1"})

	if got := g.NextNodeID(); got != "2" {
		t.Errorf("NextNodeID() = %q, want 2", got)
	}
	if got := g.NextNodeID(); got != "3" {
		t.Errorf("NextNodeID() = %q, want 3", got)
	}
}

func TestAdjacency(t *testing.T) {
	g := chain(t)

	if got := g.Children("a"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Children(a) = %v", got)
	}
	if got := g.Parents("c"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Parents(c) = %v", got)
	}
	if g.InDegree("a") != 0 || g.OutDegree("a") != 1 {
		t.Errorf("degrees of a = in %d out %d", g.InDegree("a"), g.OutDegree("a"))
	}
	if got := g.Roots(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("Roots() = %v, want [a]", got)
	}
	if got := g.NodeIDs(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("NodeIDs() = %v", got)
	}
	if _, ok := g.Edge("1"); !ok {
		t.Error("Edge(1) not found")
	}
}

func TestSetDirected(t *testing.T) {
	g := chain(t)
	g.SetDirected(false)
	if g.Directed() {
		t.Error("Directed() = true after SetDirected(false)")
	}
	if !g.Edges()[0].Directed {
		t.Error("existing edge lost its own direction")
	}
}

func TestToPlain(t *testing.T) {
	g := New(false)
	_ = g.AddNode(Node{ID: "a", Label: "A", Attributes: Attributes{"n": int64(1)}})
	_ = g.AddNode(Node{ID: "b"})
	_, _ = g.AddEdge(Edge{Source: "a", Target: "b", Weight: 2.5})

	p := g.ToPlain()
	if p.Directed {
		t.Error("Directed = true, want false")
	}
	if len(p.Nodes) != 2 || p.Nodes[0].Label != "A" || p.Nodes[1].Label != "b" {
		t.Errorf("Nodes = %+v", p.Nodes)
	}
	if len(p.Edges) != 1 || p.Edges[0].ID != "1" || p.Edges[0].Weight != 2.5 {
		t.Errorf("Edges = %+v", p.Edges)
	}

	p.Nodes[0].Attributes["n"] = int64(99)
	if n, _ := g.Node("a"); n.Attributes["n"] != int64(1) {
		t.Error("ToPlain() shares attribute maps with the graph")
	}
}

func TestMarshalPlain(t *testing.T) {
	g := New(true)
	_ = g.AddNode(Node{ID: "a", Attributes: Attributes{
		"f":    3.0,
		"i":    int64(3),
		"d":    infer.Date{Year: 2024, Month: 1, Day: 15},
		"text": "hi",
	}})

	data, err := MarshalPlain(g)
	if err != nil {
		t.Fatalf("MarshalPlain() error = %v", err)
	}
	s := string(data)
	for _, want := range []string{`"d": "2024-01-15"`, `"f": 3.0`, `"i": 3`, `"text": "hi"`} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %s:\n%s", want, s)
		}
	}

	p, err := UnmarshalPlain(data)
	if err != nil {
		t.Fatalf("UnmarshalPlain() error = %v", err)
	}
	if got := p.Nodes[0].Attributes["f"]; got != json.Number("3.0") {
		t.Errorf("f = %#v, want json.Number 3.0", got)
	}
}

func TestPlainFileRoundTrip(t *testing.T) {
	g := chain(t)
	path := filepath.Join(t.TempDir(), "g.json")

	if err := WritePlainFile(g, path); err != nil {
		t.Fatalf("WritePlainFile() error = %v", err)
	}
	p, err := ReadPlainFile(path)
	if err != nil {
		t.Fatalf("ReadPlainFile() error = %v", err)
	}
	if len(p.Nodes) != 3 || len(p.Edges) != 2 || !p.Directed {
		t.Errorf("ReadPlainFile() = %+v", p)
	}

	if _, err := ReadPlainFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadPlainFile(missing) error = nil")
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPlainFile(path); err == nil {
		t.Error("ReadPlainFile(invalid) error = nil")
	}
}
