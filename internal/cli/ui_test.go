package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinterStats(t *testing.T) {
	tests := []struct {
		name  string
		stats graphStats
		want  []string
		skip  []string
	}{
		{
			name:  "fresh",
			stats: graphStats{Nodes: 3, Edges: 2, Levels: 3},
			want:  []string{"3 nodes", "2 edges", "3 levels", "fresh"},
		},
		{
			name:  "singular and zero",
			stats: graphStats{Nodes: 1, Levels: 1, Cached: true},
			want:  []string{"1 node", "1 level", "cached"},
			skip:  []string{"edge", "fresh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			(&printer{w: &buf}).stats(tt.stats)
			got := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("stats() = %q, missing %q", got, w)
				}
			}
			for _, s := range tt.skip {
				if strings.Contains(got, s) {
					t.Errorf("stats() = %q, should not contain %q", got, s)
				}
			}
		})
	}
}

func TestPrinterLines(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf}

	p.success("Graph built")
	p.file("people.graph.json")
	p.keyValue("Storage", "mongo")
	p.nextStep("Render", "graphloom render people.graph.json")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "Graph built") || !strings.Contains(lines[1], "people.graph.json") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[2], "Storage") || !strings.HasSuffix(lines[2], "mongo") {
		t.Errorf("keyValue line = %q", lines[2])
	}
	if lines[3] != "" {
		t.Errorf("nextStep should start with a blank line, got %q", lines[3])
	}
}
