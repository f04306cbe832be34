package graph

import (
	"maps"
	"slices"
)

// =============================================================================
// Node / Edge - Validated Entities
// =============================================================================

// Attributes holds typed attribute values: int64, float64, infer.Date or
// string. Attributes maps are never nil after insertion into a Graph.
type Attributes map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty map.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	maps.Copy(out, a)
	return out
}

// Keys returns the attribute names in sorted order.
func (a Attributes) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

// Node is a validated entity. ID is non-empty and unique within its Graph;
// Label defaults to ID.
type Node struct {
	ID         string
	Label      string
	Attributes Attributes
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a validated relation between two existing nodes.
type Edge struct {
	ID         string
	Source     string
	Target     string
	Weight     float64
	Directed   bool
	Attributes Attributes
}

// =============================================================================
// Plain - Wire Format
// =============================================================================

// Plain is the serialization form of a Graph. It carries no internal types
// and is used for API responses, storage, caching and file output.
//
// The format is designed for round-trip fidelity: rebuilding a Graph from its
// Plain form yields identical nodes and edges.
type Plain struct {
	Directed bool        `json:"directed"`
	Nodes    []PlainNode `json:"nodes"`
	Edges    []PlainEdge `json:"edges"`
}

// PlainNode is the serialization form of a Node.
type PlainNode struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	Attributes Attributes `json:"attributes"`
}

// PlainEdge is the serialization form of an Edge.
type PlainEdge struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Weight     float64    `json:"weight"`
	Directed   bool       `json:"directed"`
	Attributes Attributes `json:"attributes"`
}

// ToPlain converts the graph to its serialization form, preserving
// insertion order. Attribute maps are copied.
func (g *Graph) ToPlain() Plain {
	out := Plain{
		Directed: g.directed,
		Nodes:    make([]PlainNode, len(g.nodes)),
		Edges:    make([]PlainEdge, len(g.edges)),
	}
	for i, n := range g.nodes {
		out.Nodes[i] = PlainNode{
			ID:         n.ID,
			Label:      n.Label,
			Attributes: n.Attributes.Clone(),
		}
	}
	for i, e := range g.edges {
		out.Edges[i] = PlainEdge{
			ID:         e.ID,
			Source:     e.Source,
			Target:     e.Target,
			Weight:     e.Weight,
			Directed:   e.Directed,
			Attributes: e.Attributes.Clone(),
		}
	}
	return out
}
