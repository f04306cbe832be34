package object

import (
	"strconv"

	"github.com/matzehuels/graphloom/pkg/record"
)

// idSet holds every identifier known to one normalization run.
type idSet map[string]struct{}

func (s idSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

// collectIDs walks v at any depth and records every value found under "id" or
// "@id". Null identifiers are skipped.
func collectIDs(v any, ids idSet) {
	switch x := v.(type) {
	case Map:
		for _, f := range x {
			if (f.Key == record.KeyID || f.Key == record.KeyAtID) && f.Value != nil {
				ids[record.Text(f.Value)] = struct{}{}
			}
			collectIDs(f.Value, ids)
		}
	case []any:
		for _, item := range x {
			collectIDs(item, ids)
		}
	}
}

// walker traverses objects and returns the records they produce. It owns the
// identifier set and the auto-id counter for one payload.
type walker struct {
	ids  idSet
	next int
}

func newWalker(roots ...any) *walker {
	w := &walker{ids: idSet{}}
	for _, r := range roots {
		collectIDs(r, w.ids)
	}
	return w
}

// autoID returns the next auto_<n> identifier not already in use.
func (w *walker) autoID() string {
	for {
		w.next++
		id := record.AutoPrefix + strconv.Itoa(w.next)
		if !w.ids.has(id) {
			w.ids[id] = struct{}{}
			return id
		}
	}
}

// visit converts obj and its nested objects into records. parent is the id of
// the enclosing object, or "" for a top-level object. The current node comes
// first, followed by its children in pre-order. Edges are ordered as: the
// node's reference edges, the parent edge, then the children's edges.
func (w *walker) visit(obj Map, parent string) record.Canonical {
	id := w.identify(obj)

	var (
		label, name string
		attrs       = make(map[string]any, len(obj))
		refs        []record.EdgeRecord
		children    []Map
	)
	for _, f := range obj {
		switch f.Key {
		case record.KeyID, record.KeyAtID:
			continue
		case record.KeyLabel:
			label = record.Text(f.Value)
			continue
		case record.KeyName:
			name = record.Text(f.Value)
			continue
		}

		switch v := f.Value.(type) {
		case Map:
			children = append(children, v)
		case []any:
			for _, item := range v {
				if child, ok := item.(Map); ok {
					children = append(children, child)
				}
			}
		case string:
			if w.ids.has(v) {
				refs = append(refs, edge(id, v))
				continue
			}
			attrs[f.Key] = v
		default:
			attrs[f.Key] = v
		}
	}

	out := record.Canonical{
		Nodes: []record.NodeRecord{{
			ID:         id,
			Label:      firstNonEmpty(label, name, id),
			Attributes: attrs,
		}},
		Edges: refs,
	}
	if parent != "" {
		out.Edges = append(out.Edges, edge(parent, id))
	}
	for _, c := range children {
		out.Append(w.visit(c, id))
	}
	return out
}

// identify returns the object's id, else its @id, else a fresh auto id.
// Empty identifiers count as absent.
func (w *walker) identify(obj Map) string {
	for _, key := range []string{record.KeyID, record.KeyAtID} {
		if v, ok := obj.Get(key); ok && v != nil {
			if id := record.Text(v); id != "" {
				return id
			}
		}
	}
	return w.autoID()
}

func edge(source, target string) record.EdgeRecord {
	return record.EdgeRecord{Source: source, Target: target, Attributes: map[string]any{}}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
