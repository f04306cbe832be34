package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/graphloom/pkg/build"
	gerrors "github.com/matzehuels/graphloom/pkg/errors"
	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/record"
)

func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := build.Build(record.Canonical{
		Nodes: []record.NodeRecord{
			{ID: "a", Label: "Alpha", Attributes: map[string]any{"born": "2020-02-29", "size": "3"}},
			{ID: "b"},
		},
		Edges: []record.EdgeRecord{
			{Source: "a", Target: "b", Weight: "2.5", Attributes: map[string]any{"kind": "x"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	g := sampleGraph(t)
	if err := s.Save(ctx, "g1", g.ToPlain()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	p, err := s.Load(ctx, "g1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	rebuilt, err := build.Rebuild(p)
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if !reflect.DeepEqual(rebuilt.ToPlain(), g.ToPlain()) {
		t.Errorf("Load() = %+v, want %+v", rebuilt.ToPlain(), g.ToPlain())
	}

	if _, err := os.Stat(filepath.Join(s.Path(), "g1.graph.json")); err != nil {
		t.Errorf("graph file missing: %v", err)
	}
}

func TestFileStoreOverwriteAndList(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"b", "a", "b"} {
		if err := s.Save(ctx, id, sampleGraph(t).ToPlain()); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}
	// Stray files are ignored.
	if err := os.WriteFile(filepath.Join(s.Path(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Errorf("List() = %v, want [a b]", ids)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete() of missing id error = %v", err)
	}
	if _, err := s.Load(ctx, "a"); err != ErrNotFound {
		t.Errorf("Load() after delete error = %v, want ErrNotFound", err)
	}
}

func TestFileStoreRejectsUnsafeIDs(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"", "../escape", "a/b"} {
		if err := s.Save(ctx, id, graph.Plain{}); !gerrors.Is(err, gerrors.ErrCodeInvalidID) {
			t.Errorf("Save(%q) error = %v, want INVALID_ID", id, err)
		}
		if _, err := s.Load(ctx, id); !gerrors.Is(err, gerrors.ErrCodeInvalidID) {
			t.Errorf("Load(%q) error = %v, want INVALID_ID", id, err)
		}
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Path(), "bad.graph.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "bad"); err == nil || err == ErrNotFound {
		t.Errorf("Load() error = %v, want parse error", err)
	}
}

func TestNewMongoStoreNeedsConfig(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoConfig{URI: "mongodb://localhost:27017"})
	if !gerrors.Is(err, gerrors.ErrCodeInvalidInput) {
		t.Errorf("NewMongoStore() error = %v, want INVALID_INPUT", err)
	}
}
