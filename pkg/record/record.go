// Package record defines the canonical intermediate form shared by all source
// normalizers and the graph builder.
//
// Records are untyped and unvalidated: node identity is established during
// building, not before. An empty [NodeRecord.ID] means "absent" and the builder
// will synthesize one; an [EdgeRecord] with a nil Weight gets the default 1.0
// and a nil Directed flag inherits the graph default.
//
// Records are built in one pass from an ordered field list with
// [NodeFromFields] and [EdgeFromFields]: reserved keys are collected first and
// the complement becomes a fresh attribute map. Attribute maps are never
// shared between records.
package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Reserved keys. Nodes reserve id, @id, label and name; edges reserve id,
// source, target, weight and directed.
const (
	KeyID       = "id"
	KeyAtID     = "@id"
	KeyLabel    = "label"
	KeyName     = "name"
	KeySource   = "source"
	KeyTarget   = "target"
	KeyWeight   = "weight"
	KeyDirected = "directed"

	// KeyAttributes holds nested attributes in the plain graph form.
	KeyAttributes = "attributes"

	// KeyNodes and KeyEdges mark an already-canonical document.
	KeyNodes = "nodes"
	KeyEdges = "edges"
)

// Prefixes of synthesized node identifiers.
const (
	AutoPrefix = "auto_"
	RowPrefix  = "row_"
)

// NodeRecord is a node before validation.
type NodeRecord struct {
	ID         string         `json:"id,omitempty"`
	Label      string         `json:"label,omitempty"`
	Attributes map[string]any `json:"attributes"`
}

// EdgeRecord is an edge before validation.
type EdgeRecord struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	ID         string         `json:"id,omitempty"`
	Weight     any            `json:"weight,omitempty"`
	Directed   *bool          `json:"directed,omitempty"`
	Attributes map[string]any `json:"attributes"`
}

// Canonical is the {nodes, edges} shape every normalizer produces.
type Canonical struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// Append concatenates o onto c, preserving order.
func (c *Canonical) Append(o Canonical) {
	c.Nodes = append(c.Nodes, o.Nodes...)
	c.Edges = append(c.Edges, o.Edges...)
}

// Len returns the total number of records.
func (c Canonical) Len() int { return len(c.Nodes) + len(c.Edges) }

// Field is a single key/value pair of a source object, in document order.
type Field struct {
	Key   string
	Value any
}

// Fielder is implemented by ordered objects that can expose their fields.
type Fielder interface {
	Fields() []Field
}

// IsNodeKey reports whether key is reserved on node records.
func IsNodeKey(key string) bool {
	switch key {
	case KeyID, KeyAtID, KeyLabel, KeyName:
		return true
	}
	return false
}

// IsEdgeKey reports whether key is reserved on edge records.
func IsEdgeKey(key string) bool {
	switch key {
	case KeyID, KeySource, KeyTarget, KeyWeight, KeyDirected:
		return true
	}
	return false
}

// NodeFromFields builds a node record from fields. The id comes from "id",
// else "@id"; the label from "label", else "name". Every other field becomes an
// attribute. Null identifiers and labels are treated as absent.
//
// An object under "attributes" (the plain graph form) is flattened into the
// attribute map; top-level fields take precedence over nested ones.
func NodeFromFields(fields []Field) NodeRecord {
	var id, atID, label, name string
	attrs := make(map[string]any, len(fields))
	nested, hasNested := nestedAttributes(fields)
	for _, f := range fields {
		if hasNested && f.Key == KeyAttributes {
			continue
		}
		switch f.Key {
		case KeyID:
			id = Text(f.Value)
		case KeyAtID:
			atID = Text(f.Value)
		case KeyLabel:
			label = Text(f.Value)
		case KeyName:
			name = Text(f.Value)
		default:
			attrs[f.Key] = f.Value
		}
	}
	mergeMissing(attrs, nested)
	return NodeRecord{
		ID:         firstNonEmpty(id, atID),
		Label:      firstNonEmpty(label, name),
		Attributes: attrs,
	}
}

// EdgeFromFields builds an edge record from fields. "source", "target", "id",
// "weight" and "directed" are extracted; every other field becomes an
// attribute.
func EdgeFromFields(fields []Field) EdgeRecord {
	e := EdgeRecord{Attributes: make(map[string]any, len(fields))}
	nested, hasNested := nestedAttributes(fields)
	for _, f := range fields {
		if hasNested && f.Key == KeyAttributes {
			continue
		}
		switch f.Key {
		case KeySource:
			e.Source = Text(f.Value)
		case KeyTarget:
			e.Target = Text(f.Value)
		case KeyID:
			e.ID = Text(f.Value)
		case KeyWeight:
			e.Weight = f.Value
		case KeyDirected:
			e.Directed = Directed(f.Value)
		default:
			e.Attributes[f.Key] = f.Value
		}
	}
	mergeMissing(e.Attributes, nested)
	return e
}

// Text renders a scalar identifier value as a string. Nil yields "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case interface{ String() string }:
		return x.String()
	default:
		return fmtScalar(v)
	}
}

// Directed interprets a raw "directed" value. Unrecognized values yield nil,
// meaning "use the graph default".
func Directed(v any) *bool {
	switch x := v.(type) {
	case bool:
		return &x
	case nil:
		return nil
	default:
		if b, ok := ParseBool(Text(v)); ok {
			return &b
		}
		return nil
	}
}

// ParseBool accepts true/false, yes/no, y/n, t/f and 1/0 case-insensitively.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	}
	return false, false
}

// Bool returns a pointer to b, for building edge records in code.
func Bool(b bool) *bool { return &b }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func fmtScalar(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// nestedAttributes returns the object stored under "attributes", if any.
func nestedAttributes(fields []Field) (map[string]any, bool) {
	for _, f := range fields {
		if f.Key != KeyAttributes {
			continue
		}
		switch x := f.Value.(type) {
		case map[string]any:
			return x, true
		case Fielder:
			fs := x.Fields()
			m := make(map[string]any, len(fs))
			for _, nf := range fs {
				m[nf.Key] = nf.Value
			}
			return m, true
		}
	}
	return nil, false
}

func mergeMissing(dst, src map[string]any) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}
