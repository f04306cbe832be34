// Package workspace holds the graph a user is currently exploring.
//
// A [Workspace] keeps one current graph plus the graphs it replaced, so that
// a later [Workspace.Undo] can restore them, and answers search and filter
// queries against the current graph. Every query on an empty workspace
// returns an empty result rather than an error.
//
// A [Store] maps opaque ids to workspaces for the HTTP API, where each
// ingested payload gets a workspace of its own.
//
// # Usage
//
//	ws := workspace.New()
//	ws.Set(g)
//	adults, err := ws.FindNodesByAttribute("age", ">=", "18")
//	heavy := ws.FindEdgesByWeight(ptr(2.0), nil)
package workspace

import (
	"sync"

	"github.com/matzehuels/graphloom/pkg/graph"
)

// Workspace is safe for concurrent use.
type Workspace struct {
	mu      sync.RWMutex
	current *graph.Graph
	history []*graph.Graph
}

// New returns an empty workspace.
func New() *Workspace {
	return &Workspace{}
}

// =============================================================================
// Graph State
// =============================================================================

// Set makes g the current graph. The graph it replaces, if any, is pushed
// onto the history.
func (w *Workspace) Set(g *graph.Graph) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current != nil {
		w.history = append(w.history, w.current)
	}
	w.current = g
}

// Current returns the current graph, or nil if none is set.
func (w *Workspace) Current() *graph.Graph {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Has reports whether a current graph is set.
func (w *Workspace) Has() bool {
	return w.Current() != nil
}

// Clear drops the current graph and the whole history.
func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = nil
	w.history = nil
}

// Undo restores the most recently replaced graph and returns it. When the
// history is empty nothing changes and ok is false.
func (w *Workspace) Undo() (g *graph.Graph, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := len(w.history)
	if n == 0 {
		return nil, false
	}
	w.current = w.history[n-1]
	w.history[n-1] = nil
	w.history = w.history[:n-1]
	return w.current, true
}

// Previous returns the graph Undo would restore, without restoring it.
func (w *Workspace) Previous() (*graph.Graph, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.history) == 0 {
		return nil, false
	}
	return w.history[len(w.history)-1], true
}

// HistorySize returns the number of graphs Undo can still restore.
func (w *Workspace) HistorySize() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.history)
}

// =============================================================================
// Nodes and Edges
// =============================================================================

// Nodes returns the current graph's nodes in insertion order.
func (w *Workspace) Nodes() []*graph.Node {
	g := w.Current()
	if g == nil {
		return nil
	}
	return g.Nodes()
}

// Edges returns the current graph's edges in insertion order.
func (w *Workspace) Edges() []*graph.Edge {
	g := w.Current()
	if g == nil {
		return nil
	}
	return g.Edges()
}

// FindNode looks up a node of the current graph by id.
func (w *Workspace) FindNode(id string) (*graph.Node, bool) {
	g := w.Current()
	if g == nil {
		return nil, false
	}
	return g.Node(id)
}

// FilterNodes returns the nodes for which keep returns true, in insertion
// order.
func (w *Workspace) FilterNodes(keep func(*graph.Node) bool) []*graph.Node {
	var out []*graph.Node
	for _, n := range w.Nodes() {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}

// FilterEdges returns the edges for which keep returns true, in insertion
// order.
func (w *Workspace) FilterEdges(keep func(*graph.Edge) bool) []*graph.Edge {
	var out []*graph.Edge
	for _, e := range w.Edges() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
