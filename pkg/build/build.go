// Package build turns canonical records into a validated [graph.Graph].
//
// Nodes are inserted first, in record order: a missing id is synthesized from
// the graph's node counter, the label defaults to the id and every attribute
// passes through type inference. Edges follow: an edge with an empty endpoint
// is dropped and logged, the weight is coerced to a float (1.0 when absent or
// not numeric) and the direction falls back to the graph default.
//
// Structural problems abort the whole build; no partial graph is returned:
//
//   - two nodes or two edges with the same explicit id (DUPLICATE_IDENTIFIER)
//   - an edge endpoint that is not a node (UNRESOLVED_REFERENCE)
package build

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	gerrors "github.com/matzehuels/graphloom/pkg/errors"
	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/infer"
	"github.com/matzehuels/graphloom/pkg/record"
	"github.com/matzehuels/graphloom/pkg/source"
)

// DefaultWeight is the weight of an edge without a numeric weight.
const DefaultWeight = 1.0

type config struct {
	directed bool
	logger   *log.Logger
}

// Option configures [Build].
type Option func(*config)

// WithDirected sets the graph default direction. The default is true.
func WithDirected(d bool) Option {
	return func(c *config) { c.directed = d }
}

// WithLogger sets the logger used to report dropped edges.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Build validates c and returns the resulting graph.
func Build(c record.Canonical, opts ...Option) (*graph.Graph, error) {
	cfg := config{directed: true, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := graph.New(cfg.directed)

	for i, nr := range c.Nodes {
		id := nr.ID
		if id == "" {
			id = g.NextNodeID()
		}
		n := graph.Node{
			ID:         id,
			Label:      nr.Label,
			Attributes: infer.InferMap(nr.Attributes),
		}
		if err := g.AddNode(n); err != nil {
			return nil, nodeError(i, id, err)
		}
	}

	dropped := 0
	for i, er := range c.Edges {
		if er.Source == "" || er.Target == "" {
			dropped++
			cfg.logger.Warn("dropping edge with missing endpoint",
				"index", i, "source", er.Source, "target", er.Target)
			continue
		}

		weight, ok := infer.Float(er.Weight)
		if !ok {
			if er.Weight != nil {
				cfg.logger.Debug("non-numeric edge weight, using default",
					"index", i, "weight", er.Weight)
			}
			weight = DefaultWeight
		}
		directed := cfg.directed
		if er.Directed != nil {
			directed = *er.Directed
		}

		e := graph.Edge{
			ID:         er.ID,
			Source:     er.Source,
			Target:     er.Target,
			Weight:     weight,
			Directed:   directed,
			Attributes: infer.InferMap(er.Attributes),
		}
		if _, err := g.AddEdge(e); err != nil {
			return nil, edgeError(i, er, err)
		}
	}

	cfg.logger.Debug("graph built",
		"nodes", g.NodeCount(), "edges", g.EdgeCount(), "dropped", dropped)
	return g, nil
}

// FromPlain converts a plain graph back into canonical records, so that
// Build(FromPlain(g.ToPlain())) reproduces g.
func FromPlain(p graph.Plain) record.Canonical {
	out := record.Canonical{
		Nodes: make([]record.NodeRecord, len(p.Nodes)),
		Edges: make([]record.EdgeRecord, len(p.Edges)),
	}
	for i, n := range p.Nodes {
		out.Nodes[i] = record.NodeRecord{
			ID:         n.ID,
			Label:      n.Label,
			Attributes: n.Attributes.Clone(),
		}
	}
	for i, e := range p.Edges {
		out.Edges[i] = record.EdgeRecord{
			ID:         e.ID,
			Source:     e.Source,
			Target:     e.Target,
			Weight:     e.Weight,
			Directed:   record.Bool(e.Directed),
			Attributes: e.Attributes.Clone(),
		}
	}
	return out
}

// Rebuild builds a graph from its plain form, keeping the plain form's
// default direction.
func Rebuild(p graph.Plain, opts ...Option) (*graph.Graph, error) {
	opts = append([]Option{WithDirected(p.Directed)}, opts...)
	return Build(FromPlain(p), opts...)
}

func nodeError(i int, id string, err error) error {
	if errors.Is(err, graph.ErrDuplicateNodeID) {
		return gerrors.Wrap(gerrors.ErrCodeDuplicateIdentifier, err, "node %d: id %q", i, id)
	}
	return gerrors.Wrap(gerrors.ErrCodeMalformedInput, err, "node %d", i)
}

func edgeError(i int, er record.EdgeRecord, err error) error {
	switch {
	case errors.Is(err, graph.ErrDuplicateEdgeID):
		return gerrors.Wrap(gerrors.ErrCodeDuplicateIdentifier, err, "edge %d: id %q", i, er.ID)
	case errors.Is(err, graph.ErrUnknownSourceNode):
		return gerrors.Wrap(gerrors.ErrCodeUnresolvedReference, err, "edge %d: source %q", i, er.Source)
	case errors.Is(err, graph.ErrUnknownTargetNode):
		return gerrors.Wrap(gerrors.ErrCodeUnresolvedReference, err, "edge %d: target %q", i, er.Target)
	}
	return gerrors.Wrap(gerrors.ErrCodeInternal, err, "edge %d", i)
}

// Classify maps normalizer and builder errors onto user-facing error codes.
// Errors that already carry a code are returned unchanged.
func Classify(err error) error {
	if err == nil || gerrors.GetCode(err) != "" {
		return err
	}
	if errors.Is(err, source.ErrMalformedInput) {
		return gerrors.Wrap(gerrors.ErrCodeMalformedInput, err, "cannot read payload")
	}
	if errors.Is(err, source.ErrUnknownNormalizer) {
		return gerrors.Wrap(gerrors.ErrCodeInvalidFormat, err, "unsupported format")
	}
	return gerrors.Wrap(gerrors.ErrCodeInternal, err, "ingest failed")
}
