package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/layout"
	"github.com/matzehuels/graphloom/pkg/record"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// LevelModel - Interactive level browser
// =============================================================================

// LevelModel is the bubbletea model that browses a graph level by level.
// Left and right switch levels, up and down move through the nodes of the
// current level, and the detail pane shows the selected node.
type LevelModel struct {
	Graph  *graph.Graph
	Levels [][]string // node ids per level, in visit order

	Level  int
	Cursor int
	Offset int
	Height int
}

// NewLevelModel creates a level browser for g.
func NewLevelModel(g *graph.Graph, levels layout.LevelMap) LevelModel {
	m := LevelModel{Graph: g, Height: 15}
	for _, lvl := range levels.Order() {
		m.Levels = append(m.Levels, levels[lvl])
	}
	return m
}

func (m LevelModel) Init() tea.Cmd {
	return nil
}

func (m LevelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Level > 0 {
				m.Level--
				m.Cursor, m.Offset = 0, 0
			}
		case "right", "l":
			if m.Level < len(m.Levels)-1 {
				m.Level++
				m.Cursor, m.Offset = 0, 0
			}
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.current())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m LevelModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Graph Levels"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ level  ↑/↓ node  q quit"))
	b.WriteString("\n\n")

	if len(m.Levels) == 0 {
		b.WriteString(listDimStyle.Render("  empty graph"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.levelTabs())
	b.WriteString("\n\n")

	ids := m.current()
	end := min(m.Offset+m.Height, len(ids))
	for i := m.Offset; i < end; i++ {
		n, _ := m.Graph.Node(ids[i])
		line := fmt.Sprintf("%-20s %s", n.ID, listDimStyle.Render(n.DisplayLabel()))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(ids))))
	b.WriteString("\n\n")

	if n := m.Selected(); n != nil {
		b.WriteString(m.detail(n))
	}
	return b.String()
}

// Selected returns the node under the cursor.
func (m LevelModel) Selected() *graph.Node {
	ids := m.current()
	if m.Cursor >= len(ids) {
		return nil
	}
	n, _ := m.Graph.Node(ids[m.Cursor])
	return n
}

func (m LevelModel) current() []string {
	if m.Level >= len(m.Levels) {
		return nil
	}
	return m.Levels[m.Level]
}

func (m LevelModel) levelTabs() string {
	tabs := make([]string, len(m.Levels))
	for i, ids := range m.Levels {
		tab := fmt.Sprintf(" %d (%d) ", i, len(ids))
		if i == m.Level {
			tabs[i] = listSelectedStyle.Render("[" + tab + "]")
		} else {
			tabs[i] = listDimStyle.Render(" " + tab + " ")
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// detail renders the attributes and neighbours of n as a table.
func (m LevelModel) detail(n *graph.Node) string {
	rows := [][]string{{"id", n.ID}, {"label", n.DisplayLabel()}}
	for _, k := range n.Attributes.Keys() {
		rows = append(rows, []string{k, record.Text(n.Attributes[k])})
	}
	var out []string
	for _, e := range m.Graph.Edges() {
		if e.Source == n.ID {
			out = append(out, e.Target)
		}
	}
	if len(out) > 0 {
		rows = append(rows, []string{"→", strings.Join(out, ", ")})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Field", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}
