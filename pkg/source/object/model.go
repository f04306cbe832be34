package object

import (
	"maps"
	"slices"

	"github.com/matzehuels/graphloom/pkg/record"
)

// Map is an object whose fields keep their document order.
//
// Decoders in this package produce Map, []any and scalar values (string,
// json.Number, bool, nil). Keys are unique: a repeated key in the source
// document replaces the earlier value in place.
type Map []record.Field

// Fields implements [record.Fielder].
func (m Map) Fields() []record.Field { return m }

// Get returns the value stored under key.
func (m Map) Get(key string) (any, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (m Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the field names in document order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, f := range m {
		keys[i] = f.Key
	}
	return keys
}

// set replaces an existing key in place or appends a new field.
func (m Map) set(key string, v any) Map {
	for i := range m {
		if m[i].Key == key {
			m[i].Value = v
			return m
		}
	}
	return append(m, record.Field{Key: key, Value: v})
}

// FromValue converts plain Go values into the ordered object model.
// map[string]any becomes a [Map] with keys in sorted order, since Go maps
// carry no order of their own. Slices are converted element-wise; scalars are
// returned unchanged.
func FromValue(v any) any {
	switch x := v.(type) {
	case Map:
		out := make(Map, len(x))
		for i, f := range x {
			out[i] = record.Field{Key: f.Key, Value: FromValue(f.Value)}
		}
		return out
	case map[string]any:
		out := make(Map, 0, len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			out = append(out, record.Field{Key: k, Value: FromValue(x[k])})
		}
		return out
	case map[string]string:
		out := make(Map, 0, len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			out = append(out, record.Field{Key: k, Value: x[k]})
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = FromValue(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = FromValue(item)
		}
		return out
	default:
		return v
	}
}
