// Package storage persists graphs under opaque ids.
//
// Graphs are stored in their plain wire form ([graph.Plain]). Loading returns
// that form unchanged; callers rebuild a validated graph with
// [github.com/matzehuels/graphloom/pkg/build.Rebuild].
//
// Two backends are provided:
//   - [FileStore]: one JSON file per graph in a directory, for the CLI and
//     single-instance servers
//   - [MongoStore]: one document per graph in a MongoDB collection, for
//     deployments that share storage across instances
package storage

import (
	"bytes"
	"context"
	"errors"

	"github.com/matzehuels/graphloom/pkg/graph"
)

// ErrNotFound is returned by Load when no graph is stored under an id.
var ErrNotFound = errors.New("graph not found")

// Store is the interface for graph persistence backends.
type Store interface {
	// Save stores p under id, replacing any graph already there.
	Save(ctx context.Context, id string, p graph.Plain) error

	// Load returns the graph stored under id, or ErrNotFound.
	Load(ctx context.Context, id string) (graph.Plain, error)

	// Delete removes the graph stored under id. Deleting a missing id is not
	// an error.
	Delete(ctx context.Context, id string) error

	// List returns every stored id in sorted order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

func encode(p graph.Plain) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.WritePlain(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
