package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/layout"
)

func levelGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(true)
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := g.AddNode(graph.Node{ID: id, Attributes: graph.Attributes{"rank": int64(len(id))}}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}} {
		if _, err := g.AddEdge(graph.Edge{Source: e[0], Target: e[1], Weight: 1, Directed: true}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestLevelModelNavigation(t *testing.T) {
	g := levelGraph(t)
	m := NewLevelModel(g, layout.Levels(g))

	if len(m.Levels) != 3 {
		t.Fatalf("Levels = %v, want 3 levels", m.Levels)
	}
	if n := m.Selected(); n == nil || n.ID != "a" {
		t.Fatalf("Selected() = %v, want a", n)
	}

	got := press(m, "right", "j").(LevelModel)
	if got.Level != 1 || got.Selected().ID != "c" {
		t.Errorf("after right,j: level %d node %s, want 1 c", got.Level, got.Selected().ID)
	}

	got = press(got, "j", "j").(LevelModel)
	if got.Selected().ID != "c" {
		t.Errorf("cursor moved past the end: %s", got.Selected().ID)
	}

	got = press(got, "right", "right", "right").(LevelModel)
	if got.Level != 2 || got.Cursor != 0 {
		t.Errorf("level = %d cursor = %d, want 2 and 0", got.Level, got.Cursor)
	}

	got = press(got, "left", "left", "left", "k").(LevelModel)
	if got.Level != 0 || got.Cursor != 0 {
		t.Errorf("level = %d cursor = %d, want 0 and 0", got.Level, got.Cursor)
	}
}

func TestLevelModelQuit(t *testing.T) {
	g := levelGraph(t)
	_, cmd := NewLevelModel(g, layout.Levels(g)).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestLevelModelView(t *testing.T) {
	g := levelGraph(t)
	view := NewLevelModel(g, layout.Levels(g)).View()

	for _, want := range []string{"Graph Levels", "rank", "b, c"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	empty := NewLevelModel(graph.New(true), layout.LevelMap{}).View()
	if !strings.Contains(empty, "empty graph") {
		t.Errorf("empty View() = %q", empty)
	}
}
