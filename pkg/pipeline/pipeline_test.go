package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/graphloom/pkg/cache"
	gerrors "github.com/matzehuels/graphloom/pkg/errors"
	"github.com/matzehuels/graphloom/pkg/source/sources"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"graphviz", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !gerrors.Is(err, gerrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, gerrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"block", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
		if err != nil && !gerrors.Is(err, gerrors.ErrCodeInvalidStyle) {
			t.Errorf("ValidateStyle(%q) code = %s, want INVALID_STYLE", tt.style, gerrors.GetCode(err))
		}
	}
}

func TestValidateNormalizer(t *testing.T) {
	for _, name := range []string{"", "table", "list", "tree", "auto"} {
		if err := ValidateNormalizer(name); err != nil {
			t.Errorf("ValidateNormalizer(%q) error = %v", name, err)
		}
	}
	if err := ValidateNormalizer("xml"); !gerrors.Is(err, gerrors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateNormalizer(xml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("frame = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if !opts.IsDirected() {
		t.Error("IsDirected() = false, want true by default")
	}
	if opts.Logger == nil {
		t.Error("Logger not set")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() error = %v", err)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code gerrors.Code
	}{
		{"bad delimiter", Options{Delimiter: "ab"}, gerrors.ErrCodeInvalidInput},
		{"bad normalizer", Options{Format: "xml"}, gerrors.ErrCodeInvalidFormat},
		{"bad style", Options{Style: "tower"}, gerrors.ErrCodeInvalidStyle},
		{"negative width", Options{Width: -1}, gerrors.ErrCodeInvalidInput},
		{"bad output", Options{Formats: []string{"png"}}, gerrors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !gerrors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		src      Source
		format   string
		wantName string
		wantRaw  bool
	}{
		{"csv extension", Source{Name: "people.csv", Data: []byte("id,name\n1,a\n")}, "", "table", true},
		{"tsv extension", Source{Name: "people.TSV", Data: []byte("id\tname\n")}, "", "table", true},
		{"json extension", Source{Name: "g.json", Data: []byte(`[{"id": "a"}]`)}, "", "auto", false},
		{"yaml extension", Source{Name: "g.yaml", Data: []byte("- id: a\n")}, "", "auto", false},
		{"sniff object", Source{Data: []byte("  \n{\"id\": \"a\"}")}, "", "auto", false},
		{"sniff bom list", Source{Data: []byte("\ufeff[]")}, "", "auto", false},
		{"sniff table", Source{Data: []byte("source,target\na,b\n")}, "", "table", true},
		{"explicit list", Source{Name: "g.json", Data: []byte(`[]`)}, "list", "list", false},
		{"explicit table", Source{Name: "g.json", Data: []byte("a,b\n")}, "table", "table", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, name, err := Decode(tt.src, Options{Format: tt.format})
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if name != tt.wantName {
				t.Errorf("Decode() normalizer = %q, want %q", name, tt.wantName)
			}
			_, raw := payload.([]byte)
			if raw != tt.wantRaw {
				t.Errorf("Decode() payload = %T, raw bytes %v, want %v", payload, raw, tt.wantRaw)
			}
		})
	}
}

func TestIngest(t *testing.T) {
	reg := sources.Default()

	g, err := Ingest(Source{Name: "edges.csv", Data: []byte("source,target\na,b\nb,c\n")}, reg, Options{})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("Ingest() = %d nodes, %d edges, want 3 and 2", g.NodeCount(), g.EdgeCount())
	}
	if !g.Directed() {
		t.Error("graph not directed by default")
	}

	undirected := false
	g, err = Ingest(Source{Name: "edges.tsv", Data: []byte("source\ttarget\na\tb\n")}, reg, Options{Directed: &undirected})
	if err != nil {
		t.Fatalf("Ingest(tsv) error = %v", err)
	}
	if g.Directed() || g.Edges()[0].Directed {
		t.Error("Directed option not applied")
	}
}

func TestIngestErrors(t *testing.T) {
	reg := sources.Default()
	tests := []struct {
		name string
		src  Source
		opts Options
		code gerrors.Code
	}{
		{
			name: "broken json",
			src:  Source{Name: "g.json", Data: []byte(`{"id": `)},
			code: gerrors.ErrCodeMalformedInput,
		},
		{
			name: "shape mismatch",
			src:  Source{Name: "g.json", Data: []byte(`{"id": "a"}`)},
			opts: Options{Format: "list"},
			code: gerrors.ErrCodeMalformedInput,
		},
		{
			name: "unknown normalizer",
			src:  Source{Name: "g.json", Data: []byte(`[]`)},
			opts: Options{Format: "xml"},
			code: gerrors.ErrCodeInvalidFormat,
		},
		{
			name: "duplicate node",
			src:  Source{Name: "g.json", Data: []byte(`{"nodes": [{"id": "a"}, {"id": "a"}], "edges": []}`)},
			code: gerrors.ErrCodeDuplicateIdentifier,
		},
		{
			name: "dangling edge",
			src:  Source{Name: "g.json", Data: []byte(`{"nodes": [{"id": "a"}], "edges": [{"source": "a", "target": "x"}]}`)},
			code: gerrors.ErrCodeUnresolvedReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Ingest(tt.src, reg, tt.opts)
			if g != nil {
				t.Error("Ingest() returned a graph on error")
			}
			if !gerrors.Is(err, tt.code) {
				t.Errorf("Ingest() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	src := Source{Name: "edges.csv", Data: []byte("source,target\na,b\nb,c\na,d\n")}
	opts := Options{Style: "block", Formats: []string{"svg", "json"}}

	first, err := runner.Execute(ctx, src, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo != (CacheInfo{}) {
		t.Errorf("first run CacheInfo = %+v, want all misses", first.CacheInfo)
	}
	if first.Stats.NodeCount != 4 || first.Stats.EdgeCount != 3 || first.Stats.Levels != 3 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if !first.Layout.IsBlock() {
		t.Errorf("Layout.Style = %q, want block", first.Layout.Style)
	}
	if !bytes.HasPrefix(first.Artifacts["svg"], []byte("<svg")) {
		t.Errorf("svg artifact = %.40q", first.Artifacts["svg"])
	}
	if len(first.Artifacts["json"]) == 0 {
		t.Error("json artifact missing")
	}
	if first.GraphHash == "" {
		t.Error("GraphHash empty")
	}

	second, err := runner.Execute(ctx, src, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	want := CacheInfo{IngestHit: true, LayoutHit: true, RenderHit: true}
	if second.CacheInfo != want {
		t.Errorf("second run CacheInfo = %+v, want %+v", second.CacheInfo, want)
	}
	if second.GraphHash != first.GraphHash {
		t.Error("cached graph hashes differently")
	}
	if !bytes.Equal(second.Artifacts["svg"], first.Artifacts["svg"]) {
		t.Error("cached svg differs from rendered svg")
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, src, opts)
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if third.CacheInfo.IngestHit {
		t.Error("Refresh still read the graph from cache")
	}
}

func TestRunnerStages(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)

	g, err := runner.Ingest(ctx, Source{Data: []byte(`[{"id": "a", "next": "b"}, {"id": "b"}]`)}, Options{})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	l, err := runner.Layout(ctx, g, Options{})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if l.Width != DefaultWidth || l.Height != DefaultHeight {
		t.Errorf("Layout() frame = %vx%v", l.Width, l.Height)
	}

	artifacts, err := runner.Render(ctx, g, l, Options{Formats: []string{"dot"}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(artifacts["dot"]), "->") {
		t.Errorf("dot artifact = %s", artifacts["dot"])
	}

	if _, err := runner.Render(ctx, g, l, Options{Formats: []string{"png"}}); !gerrors.Is(err, gerrors.ErrCodeInvalidFormat) {
		t.Errorf("Render(png) error = %v, want INVALID_FORMAT", err)
	}
}

func TestRunnerIngestError(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Ingest(context.Background(), Source{Name: "g.yaml", Data: []byte("")}, Options{})
	if !gerrors.Is(err, gerrors.ErrCodeMalformedInput) {
		t.Errorf("Ingest(empty yaml) error = %v, want MALFORMED_INPUT", err)
	}
}
