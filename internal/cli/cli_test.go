package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/graphloom/pkg/layout"
	"github.com/matzehuels/graphloom/pkg/pipeline"
)

// newTestCLI returns a CLI whose command output lands in the returned buffer.
func newTestCLI() (*CLI, *bytes.Buffer) {
	var buf bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.out = &printer{w: &buf}
	return c, &buf
}

func TestBasePath(t *testing.T) {
	tests := []struct{ input, want string }{
		{"people.csv", "people"},
		{"dir/people.graph.json", "dir/people"},
		{"dir/tree.yaml", "dir/tree"},
		{"noext", "noext"},
		{"https://example.com/org/people.csv?rev=1", "people"},
		{"https://example.com", "remote"},
	}
	for _, tt := range tests {
		if got := basePath(tt.input); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestApplyConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	undirected := false
	c.config.Ingest.Directed = &undirected
	c.config.Ingest.Delimiter = ";"
	c.config.Ingest.Style = "block"

	var opts pipeline.Options
	c.applyConfig(&opts)
	if opts.IsDirected() || opts.Delimiter != ";" || opts.Style != "block" {
		t.Errorf("applyConfig() = %+v", opts)
	}

	directed := true
	opts = pipeline.Options{Directed: &directed, Delimiter: ",", Style: "simple"}
	c.applyConfig(&opts)
	if !opts.IsDirected() || opts.Delimiter != "," || opts.Style != "simple" {
		t.Errorf("applyConfig() overrode flags: %+v", opts)
	}
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"ingest", "layout", "render", "explore", "serve", "export", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestIngestLayoutRender(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "people.csv")
	if err := os.WriteFile(input, []byte("source,target\nada,grace\ngrace,linus\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, stdout := newTestCLI()
	root := c.RootCommand()
	root.SetArgs([]string{"ingest", input, "--no-cache", "--config", filepath.Join(dir, "missing.toml")})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("ingest error = %v", err)
	}

	graphFile := filepath.Join(dir, "people.graph.json")
	g, err := c.loadGraph(graphFile)
	if err != nil {
		t.Fatalf("loadGraph() error = %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("graph = %d nodes, %d edges, want 3 and 2", g.NodeCount(), g.EdgeCount())
	}

	ctx := context.Background()
	if err := c.runLayout(ctx, graphFile, pipeline.Options{Style: layout.StyleBlock}, "", true); err != nil {
		t.Fatalf("runLayout() error = %v", err)
	}
	l, err := layout.ReadLayoutFile(filepath.Join(dir, "people.layout.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !l.IsBlock() || l.Levels.MaxLevel() != 2 {
		t.Errorf("layout style %q with max level %d", l.Style, l.Levels.MaxLevel())
	}

	out := filepath.Join(dir, "out", "people")
	if err := c.runRender(ctx, input, pipeline.Options{Formats: []string{"svg", "dot"}}, out, true); err != nil {
		t.Fatalf("runRender() error = %v", err)
	}
	svg, err := os.ReadFile(out + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(svg), "<svg") {
		t.Errorf("svg = %.40q", svg)
	}
	if _, err := os.Stat(out + ".dot"); err != nil {
		t.Errorf("dot file missing: %v", err)
	}

	printed := stdout.String()
	for _, want := range []string{"Graph built", graphFile, "3 nodes", "3 levels", "Rendered 2 file(s)", out + ".svg"} {
		if !strings.Contains(printed, want) {
			t.Errorf("output missing %q:\n%s", want, printed)
		}
	}
}

func TestIngestMissingFile(t *testing.T) {
	c := New(io.Discard, LogInfo)
	err := c.runIngest(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), pipeline.Options{}, "", true)
	if err == nil {
		t.Fatal("runIngest() succeeded on a missing file")
	}
}

func TestCompletion(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion bash error = %v", err)
	}
	if !strings.Contains(buf.String(), "graphloom") {
		t.Errorf("bash completion does not mention the command: %.80q", buf.String())
	}

	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("completion accepted an unknown shell")
	}
}
