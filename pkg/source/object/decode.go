package object

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/graphloom/pkg/source"
)

const (
	// maxJSONDepth bounds array and object nesting, matching encoding/json.
	maxJSONDepth = 10000

	// maxAliasNodes bounds the number of nodes produced by expanding YAML
	// aliases, so a small document cannot unfold into an enormous one.
	maxAliasNodes = 1_000_000
)

// DecodeJSON parses a JSON document into the ordered object model.
// Object keys keep their document order and numbers are kept as
// [json.Number] so their original text survives type inference.
func DecodeJSON(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, source.Malformed("invalid JSON document")
	}

	// One pass over the token stream; nesting is bounded by maxJSONDepth.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var stack []*jsonFrame
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, source.Malformed("invalid JSON document: %v", err)
		}

		var v any
		switch t := tok.(type) {
		case json.Delim:
			if t == '{' || t == '[' {
				if len(stack) >= maxJSONDepth {
					return nil, source.Malformed("JSON nesting exceeds %d levels", maxJSONDepth)
				}
				stack = append(stack, &jsonFrame{object: t == '{', items: []any{}})
				continue
			}
			v = stack[len(stack)-1].value()
			stack = stack[:len(stack)-1]
		case string:
			if top := len(stack) - 1; top >= 0 && stack[top].object && !stack[top].hasKey {
				stack[top].key, stack[top].hasKey = t, true
				continue
			}
			v = t
		default:
			v = tok
		}

		if len(stack) == 0 {
			return v, nil
		}
		stack[len(stack)-1].add(v)
	}
}

// jsonFrame is an array or object under construction.
type jsonFrame struct {
	object bool
	fields Map
	items  []any
	key    string
	hasKey bool
}

func (f *jsonFrame) add(v any) {
	if !f.object {
		f.items = append(f.items, v)
		return
	}
	f.fields = f.fields.set(f.key, v)
	f.key, f.hasKey = "", false
}

func (f *jsonFrame) value() any {
	if !f.object {
		return f.items
	}
	if f.fields == nil {
		return Map{}
	}
	return f.fields
}

// DecodeYAML parses a YAML document into the ordered object model.
// Mapping keys keep their document order. Scalars tagged as strings or
// timestamps stay text; numbers, booleans and nulls are decoded natively.
// Aliases are expanded in place; recursive aliases are rejected.
func DecodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, source.Malformed("invalid YAML document: %v", err)
	}
	if doc.Kind == 0 {
		return nil, source.Malformed("empty YAML document")
	}
	d := &yamlDecoder{expanding: map[*yaml.Node]bool{}}
	return d.decode(&doc)
}

type yamlDecoder struct {
	// expanding holds the anchored nodes on the current path.
	expanding map[*yaml.Node]bool
	aliasDepth int
	aliasNodes int
}

func (d *yamlDecoder) decode(n *yaml.Node) (any, error) {
	if d.aliasDepth > 0 {
		d.aliasNodes++
		if d.aliasNodes > maxAliasNodes {
			return nil, source.Malformed("YAML aliases expand to more than %d nodes", maxAliasNodes)
		}
	}
	if n.Anchor != "" {
		if d.expanding[n] {
			return nil, source.Malformed("line %d: recursive YAML alias", n.Line)
		}
		d.expanding[n] = true
		defer delete(d.expanding, n)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.decode(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil || d.expanding[n.Alias] {
			return nil, source.Malformed("line %d: recursive YAML alias", n.Line)
		}
		d.aliasDepth++
		defer func() { d.aliasDepth-- }()
		return d.decode(n.Alias)
	case yaml.MappingNode:
		m := make(Map, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := d.decode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m = m.set(n.Content[i].Value, v)
		}
		return m, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.decode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float", "!!bool", "!!null":
			var v any
			if err := n.Decode(&v); err != nil {
				return nil, source.Malformed("line %d: %v", n.Line, err)
			}
			return v, nil
		default:
			return n.Value, nil
		}
	}
	return nil, source.Malformed("unsupported YAML node kind %d", n.Kind)
}

// Decode parses data as JSON or YAML depending on format ("json", "yaml").
func Decode(data []byte, format string) (any, error) {
	switch format {
	case "json":
		return DecodeJSON(data)
	case "yaml", "yml":
		return DecodeYAML(data)
	}
	return nil, fmt.Errorf("unsupported object format %q", format)
}
