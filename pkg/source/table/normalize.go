// Package table normalizes delimited text (CSV, TSV, semicolon or pipe
// separated) into canonical records.
//
// The header decides the mode:
//
//   - Edge list: the header has both a "source" and a "target" column
//     (case-insensitive). Every row is one edge; endpoints not seen before
//     become implicit nodes whose id and label are the endpoint text.
//   - Node list: otherwise. Every row is one node. Its id comes from an
//     id-like column or is synthesized as row_<n>. A cell that equals
//     another row's id becomes an edge to that row instead of an attribute.
//
// The node-list reference rule looks only at values, not column names, so a
// column that coincidentally holds another row's id (a phone number, a
// count) produces an edge as well. This is a known limitation of the
// heuristic and is kept deliberately stable.
package table

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/graphloom/pkg/record"
	"github.com/matzehuels/graphloom/pkg/source"
)

// Name is the registry name of the table normalizer.
const Name = "table"

// RelationKey is the attribute that records which column produced a
// node-list reference edge.
const RelationKey = "relation"

// Normalizer implements [source.Normalizer] for delimited tables.
//
// Accepted payloads: [Table], *Table, []byte, string, io.Reader,
// [][]string (first record is the header) and []map[string]string.
type Normalizer struct{}

// Name implements [source.Normalizer].
func (Normalizer) Name() string { return Name }

// Normalize implements [source.Normalizer].
func (Normalizer) Normalize(payload any, opts source.Options) (record.Canonical, error) {
	t, err := toTable(payload, opts.Delimiter)
	if err != nil {
		return record.Canonical{}, err
	}
	return Normalize(t), nil
}

// Normalize converts t into canonical records.
func Normalize(t Table) record.Canonical {
	src := t.Column(headerIs(record.KeySource))
	tgt := t.Column(headerIs(record.KeyTarget))
	if src >= 0 && tgt >= 0 {
		return edgeList(t, src, tgt)
	}
	return nodeList(t)
}

func toTable(payload any, delim rune) (Table, error) {
	switch v := payload.(type) {
	case Table:
		return v, nil
	case *Table:
		if v == nil {
			return Table{}, source.Malformed("nil table")
		}
		return *v, nil
	case []byte:
		return Read(bytes.NewReader(v), delim)
	case string:
		return Read(strings.NewReader(v), delim)
	case io.Reader:
		return Read(v, delim)
	case [][]string:
		return FromRecords(v)
	case []map[string]string:
		return FromMaps(v)
	default:
		return Table{}, source.Malformed("table normalizer cannot read %T", payload)
	}
}

func edgeList(t Table, src, tgt int) record.Canonical {
	directed := t.Column(headerIs(record.KeyDirected))
	weight := t.Column(headerIs(record.KeyWeight))

	out := record.Canonical{
		Nodes: []record.NodeRecord{},
		Edges: make([]record.EdgeRecord, 0, len(t.Rows)),
	}
	seen := make(map[string]struct{})
	implicit := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out.Nodes = append(out.Nodes, record.NodeRecord{ID: id, Label: id, Attributes: map[string]any{}})
	}

	for _, row := range t.Rows {
		s, d := row[src], row[tgt]
		if s == "" || d == "" {
			continue
		}
		implicit(s)
		implicit(d)

		e := record.EdgeRecord{Source: s, Target: d, Attributes: make(map[string]any, len(row))}
		for i, cell := range row {
			switch i {
			case src, tgt:
			case weight:
				if cell != "" {
					e.Weight = cell
				}
			case directed:
				if cell != "" {
					e.Directed = record.Directed(cell)
				}
			default:
				e.Attributes[t.Header[i]] = cell
			}
		}
		out.Edges = append(out.Edges, e)
	}
	return out
}

func nodeList(t Table) record.Canonical {
	idCol := t.Column(isIDHeader)
	labelCol := t.Column(headerIs(record.KeyLabel))
	if labelCol < 0 {
		labelCol = t.Column(headerIs(record.KeyName))
	}

	ids := make([]string, len(t.Rows))
	known := make(map[string]struct{}, len(t.Rows))
	for i, row := range t.Rows {
		id := ""
		if idCol >= 0 {
			id = row[idCol]
		}
		if id == "" {
			id = record.RowPrefix + strconv.Itoa(i+1)
		}
		ids[i] = id
		known[id] = struct{}{}
	}

	out := record.Canonical{
		Nodes: make([]record.NodeRecord, 0, len(t.Rows)),
		Edges: []record.EdgeRecord{},
	}
	for i, row := range t.Rows {
		n := record.NodeRecord{ID: ids[i], Attributes: make(map[string]any, len(row))}
		for c, cell := range row {
			if c == idCol {
				continue
			}
			// Every non-id cell, the label included, may name another row.
			if _, ok := known[cell]; ok && cell != "" && cell != ids[i] {
				out.Edges = append(out.Edges, record.EdgeRecord{
					Source:     ids[i],
					Target:     cell,
					Attributes: map[string]any{RelationKey: t.Header[c]},
				})
				continue
			}
			if c == labelCol {
				n.Label = cell
				continue
			}
			n.Attributes[t.Header[c]] = cell
		}
		out.Nodes = append(out.Nodes, n)
	}
	return out
}

func headerIs(name string) func(string) bool {
	return func(h string) bool { return strings.EqualFold(h, name) }
}

// isIDHeader matches id, ID, _id, @id, node_id, node-id, "Node ID" and
// similar spellings.
func isIDHeader(h string) bool {
	norm := strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '@', ' ':
			return -1
		}
		return r
	}, strings.ToLower(h))
	return norm == "id" || norm == "nodeid"
}
