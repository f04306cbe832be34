// Package object normalizes flat object lists and nested object trees into
// canonical records.
//
// Three normalizers share one traversal:
//
//   - [List]: a bare list of objects that may reference each other by id
//   - [Tree]: a single nested root object, or an already-canonical
//     {"nodes": [...], "edges": [...]} document which passes through as-is
//   - [Auto]: picks List or Tree from the payload shape
//
// Structure is inferred with three rules applied in document order:
// a nested object (or a list of objects) is a child connected by a
// parent → child edge; a string equal to any identifier found anywhere in the
// payload is a reference edge; everything else is an attribute.
//
// Payloads are values of the ordered object model produced by [DecodeJSON]
// and [DecodeYAML]. Plain Go maps are accepted too and converted with
// [FromValue], with keys in sorted order.
package object

import (
	"fmt"

	"github.com/matzehuels/graphloom/pkg/record"
	"github.com/matzehuels/graphloom/pkg/source"
)

// Normalizer names.
const (
	NameList = "list"
	NameTree = "tree"
	NameAuto = "auto"
)

// List normalizes a flat list of objects. Items that are not objects are
// ignored.
type List struct{}

// Name implements [source.Normalizer].
func (List) Name() string { return NameList }

// Normalize implements [source.Normalizer].
func (List) Normalize(payload any, _ source.Options) (record.Canonical, error) {
	items, ok := FromValue(payload).([]any)
	if !ok {
		return record.Canonical{}, source.Malformed("list normalizer expects a list of objects, got %s", kind(payload))
	}
	return normalizeList(items), nil
}

// Tree normalizes a single nested root object. A root that carries both
// "nodes" and "edges" keys is treated as already canonical.
type Tree struct{}

// Name implements [source.Normalizer].
func (Tree) Name() string { return NameTree }

// Normalize implements [source.Normalizer].
func (Tree) Normalize(payload any, _ source.Options) (record.Canonical, error) {
	root, ok := FromValue(payload).(Map)
	if !ok {
		return record.Canonical{}, source.Malformed("tree normalizer expects an object, got %s", kind(payload))
	}
	return normalizeTree(root)
}

// Auto dispatches lists to [List] and objects to [Tree].
type Auto struct{}

// Name implements [source.Normalizer].
func (Auto) Name() string { return NameAuto }

// Normalize implements [source.Normalizer].
func (Auto) Normalize(payload any, _ source.Options) (record.Canonical, error) {
	switch v := FromValue(payload).(type) {
	case []any:
		return normalizeList(v), nil
	case Map:
		return normalizeTree(v)
	default:
		return record.Canonical{}, source.Malformed("expected a list or an object, got %s", kind(payload))
	}
}

// IsCanonical reports whether m already has the {nodes, edges} shape.
func IsCanonical(m Map) bool {
	return m.Has(record.KeyNodes) && m.Has(record.KeyEdges)
}

func normalizeList(items []any) record.Canonical {
	w := newWalker(items...)
	var out record.Canonical
	for _, item := range items {
		if obj, ok := item.(Map); ok {
			out.Append(w.visit(obj, ""))
		}
	}
	return finish(out)
}

func normalizeTree(root Map) (record.Canonical, error) {
	if IsCanonical(root) {
		return passthrough(root)
	}
	w := newWalker(root)
	return finish(w.visit(root, "")), nil
}

// passthrough reads an already-canonical document without restructuring it.
func passthrough(root Map) (record.Canonical, error) {
	nodes, err := objects(root, record.KeyNodes)
	if err != nil {
		return record.Canonical{}, err
	}
	edges, err := objects(root, record.KeyEdges)
	if err != nil {
		return record.Canonical{}, err
	}

	out := record.Canonical{
		Nodes: make([]record.NodeRecord, len(nodes)),
		Edges: make([]record.EdgeRecord, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = record.NodeFromFields(n)
	}
	for i, e := range edges {
		out.Edges[i] = record.EdgeFromFields(e)
	}
	return out, nil
}

func objects(root Map, key string) ([]Map, error) {
	v, _ := root.Get(key)
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, source.Malformed("%q must be a list, got %s", key, kind(v))
	}
	out := make([]Map, len(items))
	for i, item := range items {
		obj, ok := item.(Map)
		if !ok {
			return nil, source.Malformed("%s[%d] must be an object, got %s", key, i, kind(item))
		}
		out[i] = obj
	}
	return out, nil
}

// finish replaces nil record lists with empty ones so an empty payload
// serializes as [] rather than null.
func finish(c record.Canonical) record.Canonical {
	if c.Nodes == nil {
		c.Nodes = []record.NodeRecord{}
	}
	if c.Edges == nil {
		c.Edges = []record.EdgeRecord{}
	}
	return c
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case Map, map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	default:
		return fmt.Sprintf("%T", v)
	}
}
