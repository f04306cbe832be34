package graph

import (
	"errors"
	"slices"
	"strconv"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] when an edge with the
	// same ID already exists in the graph.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the Source node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the Target node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Graph is a validated entity graph. Nodes and edges keep insertion order
// and are unique by ID; every edge connects two existing nodes.
//
// The zero value is not usable - use New to create a valid Graph instance.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	directed bool

	nodes     []*Node
	edges     []*Edge
	nodeIndex map[string]*Node
	edgeIndex map[string]*Edge
	outgoing  map[string][]string // nodeID -> target IDs, in edge insertion order
	incoming  map[string][]string // nodeID -> source IDs, in edge insertion order

	nodeSeq int
	edgeSeq int
}

// New creates an empty Graph. directed is the default for edges that do not
// state their own direction.
func New(directed bool) *Graph {
	return &Graph{
		directed:  directed,
		nodeIndex: make(map[string]*Node),
		edgeIndex: make(map[string]*Edge),
		outgoing:  make(map[string][]string),
		incoming:  make(map[string][]string),
	}
}

// Directed reports the graph-level default direction.
func (g *Graph) Directed() bool { return g.directed }

// SetDirected changes the graph-level default direction. Existing edges keep
// their own flag.
func (g *Graph) SetDirected(d bool) { g.directed = d }

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the node ID
// is empty, or ErrDuplicateNodeID if a node with the same ID already exists.
// An empty Label defaults to the ID and a nil Attributes map is initialized.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodeIndex[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Label == "" {
		n.Label = n.ID
	}
	if n.Attributes == nil {
		n.Attributes = Attributes{}
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.nodeIndex[node.ID] = node
	return nil
}

// NextNodeID returns the next auto-generated node ID: the node counter
// rendered in decimal, skipping values already taken by explicit IDs.
func (g *Graph) NextNodeID() string {
	return next(&g.nodeSeq, func(id string) bool {
		_, taken := g.nodeIndex[id]
		return taken
	})
}

// AddEdge adds an edge between two existing nodes and returns the stored
// edge. An empty ID is replaced by the next free value of the edge counter,
// in decimal.
//
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode if an endpoint does
// not exist, or ErrDuplicateEdgeID if the ID is already in use. Parallel
// edges and self-loops are allowed.
func (g *Graph) AddEdge(e Edge) (Edge, error) {
	if _, ok := g.nodeIndex[e.Source]; !ok {
		return Edge{}, ErrUnknownSourceNode
	}
	if _, ok := g.nodeIndex[e.Target]; !ok {
		return Edge{}, ErrUnknownTargetNode
	}
	if e.ID == "" {
		e.ID = next(&g.edgeSeq, func(id string) bool {
			_, taken := g.edgeIndex[id]
			return taken
		})
	} else if _, exists := g.edgeIndex[e.ID]; exists {
		return Edge{}, ErrDuplicateEdgeID
	}
	if e.Attributes == nil {
		e.Attributes = Attributes{}
	}

	edge := &e
	g.edges = append(g.edges, edge)
	g.edgeIndex[edge.ID] = edge
	g.outgoing[e.Source] = append(g.outgoing[e.Source], e.Target)
	g.incoming[e.Target] = append(g.incoming[e.Target], e.Source)
	return e, nil
}

func next(seq *int, taken func(string) bool) string {
	for {
		*seq++
		id := strconv.Itoa(*seq)
		if !taken(id) {
			return id
		}
	}
}

// Nodes returns all nodes in insertion order. The returned slice is a copy,
// but it holds pointers to the graph's nodes.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns all edges in insertion order. The returned slice is a copy,
// but it holds pointers to the graph's edges.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// NodeIDs returns the node IDs in insertion order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Node returns the node with the given ID and true, or nil and false if not
// found.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodeIndex[id]
	return n, ok
}

// Edge returns the edge with the given ID and true, or nil and false if not
// found.
func (g *Graph) Edge(id string) (*Edge, bool) {
	e, ok := g.edgeIndex[id]
	return e, ok
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the target IDs of the node's outgoing edges in edge
// insertion order. The returned slice should not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the source IDs of the node's incoming edges in edge
// insertion order. The returned slice should not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Roots returns the IDs of nodes that are no edge's target, in insertion
// order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, n := range g.nodes {
		if len(g.incoming[n.ID]) == 0 {
			roots = append(roots, n.ID)
		}
	}
	return roots
}

// PosMap creates a position lookup map from a slice of IDs.
// The returned map maps each ID to its index in the slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
