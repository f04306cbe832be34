package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// =============================================================================
// Plain Serialization API
// =============================================================================

// MarshalPlain converts a Graph to indented JSON bytes in insertion order.
func MarshalPlain(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePlain(g.ToPlain(), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePlain writes a Plain graph as indented JSON to an io.Writer.
func WritePlain(p Plain, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WritePlainFile writes a Graph to a JSON file.
// The file is created with 0644 permissions.
func WritePlainFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePlain(g.ToPlain(), f)
}

// UnmarshalPlain decodes JSON bytes into a Plain graph. Numbers inside
// attribute maps are kept as json.Number so their text survives type
// inference unchanged.
func UnmarshalPlain(data []byte) (Plain, error) {
	return ReadPlain(bytes.NewReader(data))
}

// ReadPlain decodes a Plain graph from an io.Reader.
func ReadPlain(r io.Reader) (Plain, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var p Plain
	if err := dec.Decode(&p); err != nil {
		return Plain{}, fmt.Errorf("decode: %w", err)
	}
	return p, nil
}

// ReadPlainFile reads a Plain graph from a JSON file.
func ReadPlainFile(path string) (Plain, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plain{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPlain(f)
}

// =============================================================================
// Attribute Encoding
// =============================================================================

// MarshalJSON encodes attributes with sorted keys. Whole floats keep a
// fractional part ("3.0") so they are read back as floats, not integers.
func (a Attributes) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalValue(a[k])
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	default:
		return json.Marshal(v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported float value %v", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !bytes.ContainsAny([]byte(s), ".eE") {
		s += ".0"
	}
	return []byte(s), nil
}
