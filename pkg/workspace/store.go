package workspace

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/graphloom/pkg/graph"
)

// ErrNotFound is returned when no workspace is registered under an id.
var ErrNotFound = errors.New("workspace not found")

// Store maps opaque ids to workspaces. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	spaces map[string]*Workspace
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{spaces: make(map[string]*Workspace)}
}

// Create registers a new workspace holding g and returns its id.
func (s *Store) Create(g *graph.Graph) (string, *Workspace) {
	ws := New()
	if g != nil {
		ws.Set(g)
	}
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.spaces[id] = ws
	return id, ws
}

// Put registers ws under id, replacing any workspace already there.
func (s *Store) Put(id string, ws *Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spaces[id] = ws
}

// Get returns the workspace registered under id.
func (s *Store) Get(id string) (*Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.spaces[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ws, nil
}

// Delete removes the workspace registered under id. It reports whether one
// was registered.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.spaces[id]
	delete(s.spaces, id)
	return ok
}

// IDs returns the registered ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.spaces))
	for id := range s.spaces {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered workspaces.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.spaces)
}
