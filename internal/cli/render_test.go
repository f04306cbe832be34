package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/graphloom/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,dot,json", []string{"svg", "dot", "json"}},
		{"spaces and blanks", " svg, ,graphviz ", []string{"svg", "graphviz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid all", []string{"svg", "graphviz", "dot", "json"}, false},
		{"invalid format", []string{"pdf"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/people.csv", "data/people"},
		{"", "data/people.graph.json", "data/people"},
		{"out/graph.svg", "people.csv", "out/graph"},
		{"out/graph.gv.svg", "people.csv", "out/graph"},
		{"out/graph.layout.json", "people.csv", "out/graph"},
		{"out/graph", "people.csv", "out/graph"},
	}

	for _, tt := range tests {
		if got := outputBase(tt.output, tt.input); got != tt.want {
			t.Errorf("outputBase(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "graph")
	artifacts := map[string][]byte{
		"svg":  []byte("<svg/>"),
		"dot":  []byte("digraph {}"),
		"json": []byte("{}"),
	}

	paths, err := writeArtifacts(artifacts, base)
	if err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}

	want := []string{base + ".dot", base + ".layout.json", base + ".svg"}
	if len(paths) != len(want) {
		t.Fatalf("writeArtifacts() = %v, want %v", paths, want)
	}
	for i, p := range paths {
		if p != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, p, want[i])
		}
	}

	data, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("svg file = %q", data)
	}
}
