package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning renders warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailed  = lipgloss.NewStyle().Foreground(colorRed)
	styleNote    = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Printer
// =============================================================================

// printer writes the human-facing result lines of a command. Logs go to the
// logger on stderr; everything a user might pipe goes through a printer.
type printer struct {
	w io.Writer
}

func (p *printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

func (p *printer) success(format string, args ...any) {
	p.println(styleOK.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func (p *printer) failure(format string, args ...any) {
	p.println(styleFailed.Render("✗") + " " + fmt.Sprintf(format, args...))
}

func (p *printer) warning(format string, args ...any) {
	p.println(StyleWarning.Render("! " + fmt.Sprintf(format, args...)))
}

func (p *printer) info(format string, args ...any) {
	p.println(styleNote.Render("›") + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented, dimmed line.
func (p *printer) detail(format string, args ...any) {
	p.println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a written output path.
func (p *printer) file(path string) {
	p.println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func (p *printer) keyValue(key, value string) {
	p.println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// nextStep suggests the command to run after this one.
func (p *printer) nextStep(description, cmd string) {
	p.println("")
	p.println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// graphStats summarizes a command result on one line.
type graphStats struct {
	Nodes  int
	Edges  int
	Levels int
	Cached bool
}

// stats prints s as "3 nodes · 2 edges · 2 levels · cached". Zero counts
// are omitted.
func (p *printer) stats(s graphStats) {
	var parts []string
	for _, c := range []struct {
		n    int
		unit string
	}{{s.Nodes, "node"}, {s.Edges, "edge"}, {s.Levels, "level"}} {
		switch {
		case c.n == 1:
			parts = append(parts, "1 "+c.unit)
		case c.n > 1:
			parts = append(parts, fmt.Sprintf("%d %ss", c.n, c.unit))
		}
	}
	status := styleNote.Render("fresh")
	if s.Cached {
		status = styleOK.Render("cached")
	}
	for i := range parts {
		parts[i] = StyleDim.Render(parts[i])
	}
	parts = append(parts, status)
	p.println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}
