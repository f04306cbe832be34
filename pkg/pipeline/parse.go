package pipeline

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/matzehuels/graphloom/pkg/build"
	gerrors "github.com/matzehuels/graphloom/pkg/errors"
	"github.com/matzehuels/graphloom/pkg/graph"
	"github.com/matzehuels/graphloom/pkg/source"
	"github.com/matzehuels/graphloom/pkg/source/object"
	"github.com/matzehuels/graphloom/pkg/source/table"
)

// Source is one raw payload to ingest. Name is only used to pick a decoder
// from its extension and may be empty.
type Source struct {
	Name string
	Data []byte
}

// Decode prepares src for normalization. It returns the payload to hand to
// the normalizer and the normalizer's name.
//
// The normalizer comes from opts.Format when set. Otherwise the extension of
// src.Name decides: .csv, .tsv and .txt are tables; .json, .yaml and .yml are
// object documents normalized with "auto". Without a usable extension, a
// payload starting with '{' or '[' is JSON and anything else a table.
func Decode(src Source, opts Options) (any, string, error) {
	ext := strings.ToLower(filepath.Ext(src.Name))
	kind := decoderFor(ext, src.Data)

	name := opts.Format
	if name == "" {
		name = object.NameAuto
		if kind == "table" {
			name = table.Name
		}
	}

	if name == table.Name {
		return src.Data, name, nil
	}
	if kind == "table" {
		kind = "json"
	}
	payload, err := object.Decode(src.Data, kind)
	if err != nil {
		return nil, name, err
	}
	return payload, name, nil
}

func decoderFor(ext string, data []byte) string {
	switch ext {
	case ".csv", ".tsv", ".txt":
		return "table"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return "json"
	}
	return "table"
}

// delimiter resolves the table delimiter for src: the option when set, tab for
// .tsv files, else auto-detect.
func delimiter(src Source, opts Options) (rune, error) {
	d, err := gerrors.ParseDelimiter(opts.Delimiter)
	if err != nil {
		return 0, err
	}
	if d == 0 && strings.EqualFold(filepath.Ext(src.Name), ".tsv") {
		d = '\t'
	}
	return d, nil
}

// Ingest decodes, normalizes and builds src without caching. Errors carry a
// [gerrors.Code]: MALFORMED_INPUT, DUPLICATE_IDENTIFIER, UNRESOLVED_REFERENCE
// or INVALID_FORMAT.
func Ingest(src Source, reg *source.Registry, opts Options) (*graph.Graph, error) {
	payload, name, err := Decode(src, opts)
	if err != nil {
		return nil, build.Classify(err)
	}
	return normalizeAndBuild(payload, name, src, reg, opts)
}

func normalizeAndBuild(payload any, name string, src Source, reg *source.Registry, opts Options) (*graph.Graph, error) {
	n, err := reg.Get(name)
	if err != nil {
		return nil, build.Classify(err)
	}
	delim, err := delimiter(src, opts)
	if err != nil {
		return nil, err
	}

	c, err := n.Normalize(payload, source.Options{Delimiter: delim})
	if err != nil {
		return nil, build.Classify(err)
	}
	opts.Logger.Debug("normalized payload",
		"normalizer", name, "nodes", len(c.Nodes), "edges", len(c.Edges))

	return build.Build(c, build.WithDirected(opts.IsDirected()), build.WithLogger(opts.Logger))
}
