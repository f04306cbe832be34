package workspace

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/matzehuels/graphloom/pkg/errors"
	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/infer"
)

func people(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(true)
	joined1, _ := infer.ParseDate("2024-01-15")
	joined2, _ := infer.ParseDate("2023-06-01")
	nodes := []graph.Node{
		{ID: "p1", Label: "Alice", Attributes: graph.Attributes{"age": int64(30), "joined": joined1, "city": "Berlin"}},
		{ID: "p2", Label: "Bob", Attributes: graph.Attributes{"age": int64(9), "joined": joined2, "score": 7.5}},
		{ID: "p3", Label: "alina", Attributes: graph.Attributes{"age": "unknown"}},
		{ID: "p4"},
	}
	for _, n := range nodes {
		require.NoError(t, g.AddNode(n))
	}
	edges := []graph.Edge{
		{ID: "e1", Source: "p1", Target: "p2", Weight: 1, Directed: true, Attributes: graph.Attributes{"kind": "friend"}},
		{ID: "e2", Source: "p2", Target: "p3", Weight: 2.5, Directed: true, Attributes: graph.Attributes{"kind": "colleague", "since": int64(2020)}},
		{ID: "e3", Source: "p3", Target: "p1", Weight: 4, Directed: true},
	}
	for _, e := range edges {
		_, err := g.AddEdge(e)
		require.NoError(t, err)
	}
	return g
}

func nodeIDs(nodes []*graph.Node) []string {
	ids := []string{}
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func edgeIDs(edges []*graph.Edge) []string {
	ids := []string{}
	for _, e := range edges {
		ids = append(ids, e.ID)
	}
	return ids
}

func ptr(f float64) *float64 { return &f }

func TestEmptyWorkspace(t *testing.T) {
	ws := New()

	assert.False(t, ws.Has())
	assert.Nil(t, ws.Current())
	assert.Empty(t, ws.Nodes())
	assert.Empty(t, ws.Edges())
	assert.Empty(t, ws.FindNodesByLabel("a"))
	assert.Empty(t, ws.FindEdgesByWeight(nil, nil))

	_, ok := ws.FindNode("p1")
	assert.False(t, ok)

	found, err := ws.FindNodesByAttribute("age", ">", "1")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, ok = ws.Undo()
	assert.False(t, ok)
}

func TestHistory(t *testing.T) {
	ws := New()
	g1, g2, g3 := graph.New(true), graph.New(false), graph.New(true)

	ws.Set(g1)
	assert.Equal(t, 0, ws.HistorySize())
	ws.Set(g2)
	ws.Set(g3)
	assert.Equal(t, 2, ws.HistorySize())
	assert.Same(t, g3, ws.Current())

	prev, ok := ws.Previous()
	require.True(t, ok)
	assert.Same(t, g2, prev)
	assert.Equal(t, 2, ws.HistorySize(), "Previous leaves the history alone")

	got, ok := ws.Undo()
	require.True(t, ok)
	assert.Same(t, g2, got)
	assert.Same(t, g2, ws.Current())
	assert.Equal(t, 1, ws.HistorySize())

	got, ok = ws.Undo()
	require.True(t, ok)
	assert.Same(t, g1, got)

	_, ok = ws.Undo()
	assert.False(t, ok, "history exhausted")
	_, ok = ws.Previous()
	assert.False(t, ok)
	assert.Same(t, g1, ws.Current(), "failed undo keeps the current graph")

	ws.Set(g2)
	ws.Clear()
	assert.False(t, ws.Has())
	assert.Equal(t, 0, ws.HistorySize())
}

func TestFindNode(t *testing.T) {
	ws := New()
	ws.Set(people(t))

	n, ok := ws.FindNode("p2")
	require.True(t, ok)
	assert.Equal(t, "Bob", n.Label)

	_, ok = ws.FindNode("nope")
	assert.False(t, ok)

	assert.Len(t, ws.Nodes(), 4)
	assert.Len(t, ws.Edges(), 3)
}

func TestFilter(t *testing.T) {
	ws := New()
	ws.Set(people(t))

	noAttrs := ws.FilterNodes(func(n *graph.Node) bool { return len(n.Attributes) == 0 })
	assert.Equal(t, []string{"p4"}, nodeIDs(noAttrs))

	intoP1 := ws.FilterEdges(func(e *graph.Edge) bool { return e.Target == "p1" })
	assert.Equal(t, []string{"e3"}, edgeIDs(intoP1))
}

func TestFindNodesByLabel(t *testing.T) {
	ws := New()
	ws.Set(people(t))

	assert.Equal(t, []string{"p1", "p3"}, nodeIDs(ws.FindNodesByLabel("AL")))
	assert.Equal(t, []string{"p4"}, nodeIDs(ws.FindNodesByLabel("p4")), "label defaults to id")
	assert.Len(t, ws.FindNodesByLabel(""), 4)
	assert.Empty(t, ws.FindNodesByLabel("zed"))
}

func TestFindNodesByAttribute(t *testing.T) {
	ws := New()
	ws.Set(people(t))

	tests := []struct {
		name  string
		attr  string
		op    string
		value string
		want  []string
	}{
		{"numeric greater", "age", ">", "10", []string{"p1"}},
		{"numeric at most", "age", "<=", "30", []string{"p1", "p2"}},
		{"not equal includes incomparable", "age", "!=", "30", []string{"p2", "p3"}},
		{"text equality", "age", "==", "unknown", []string{"p3"}},
		{"date before", "joined", "<", "2024-01-01", []string{"p2"}},
		{"date equal", "joined", "==", "2024-01-15", []string{"p1"}},
		{"float against float", "score", ">=", "7.5", []string{"p2"}},
		{"float against int", "score", ">", "7", []string{"p2"}},
		{"name falls back to label", "name", "==", "Bob", []string{"p2"}},
		{"label ordering", "label", "<", "B", []string{"p1"}},
		{"id fallback", "id", "==", "p3", []string{"p3"}},
		{"missing attribute", "height", "!=", "1", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ws.FindNodesByAttribute(tt.attr, tt.op, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, nodeIDs(got))
		})
	}
}

func TestFindNodesByAttributeUnknownOperator(t *testing.T) {
	ws := New()
	ws.Set(people(t))

	_, err := ws.FindNodesByAttribute("age", "~", "1")
	require.Error(t, err)
	assert.True(t, gerrors.Is(err, gerrors.ErrCodeInvalidInput))
}

func TestFindEdgesByWeight(t *testing.T) {
	ws := New()
	ws.Set(people(t))

	assert.Equal(t, []string{"e2", "e3"}, edgeIDs(ws.FindEdgesByWeight(ptr(2), nil)))
	assert.Equal(t, []string{"e1", "e2"}, edgeIDs(ws.FindEdgesByWeight(nil, ptr(2.5))))
	assert.Equal(t, []string{"e2"}, edgeIDs(ws.FindEdgesByWeight(ptr(2.5), ptr(2.5))))
	assert.Len(t, ws.FindEdgesByWeight(nil, nil), 3)
	assert.Empty(t, ws.FindEdgesByWeight(ptr(5), ptr(1)))
}

func TestFindEdgesByAttribute(t *testing.T) {
	ws := New()
	ws.Set(people(t))

	assert.Equal(t, []string{"e1"}, edgeIDs(ws.FindEdgesByAttribute("kind", "friend")))
	assert.Equal(t, []string{"e2"}, edgeIDs(ws.FindEdgesByAttribute("since", "2020")))
	assert.Empty(t, ws.FindEdgesByAttribute("since", "2021"))
	assert.Empty(t, ws.FindEdgesByAttribute("missing", ""))
}

func TestStore(t *testing.T) {
	s := NewStore()

	id, ws := s.Create(people(t))
	require.NotEmpty(t, id)
	assert.True(t, ws.Has())
	assert.NoError(t, gerrors.ValidateGraphID(id), "ids are safe as file names")

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Same(t, ws, got)

	other, _ := s.Create(nil)
	assert.NotEqual(t, id, other)
	assert.Equal(t, 2, s.Len())
	assert.Len(t, s.IDs(), 2)

	assert.True(t, s.Delete(id))
	assert.False(t, s.Delete(id))
	_, err = s.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)

	s.Put("fixed", New())
	_, err = s.Get("fixed")
	assert.NoError(t, err)
}

func TestStoreConcurrent(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, ws := s.Create(graph.New(true))
			ws.Set(graph.New(false))
			ws.Undo()
			if _, err := s.Get(id); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, s.Len())
}
