// Package source defines the normalizer contract that turns a raw payload of
// unknown shape into the canonical {nodes, edges} record form.
//
// One [Normalizer] exists per supported raw format. Implementations live in
// sub-packages (table, object) and are collected into a [Registry] at
// startup; there is no process-wide registry.
//
// Usage:
//
//	reg := sources.Default()
//	n, err := reg.Get("table")
//	canon, err := n.Normalize(payload, source.Options{})
package source

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/graphloom/pkg/record"
)

var (
	// ErrUnknownNormalizer is returned by [Registry.Get] for unregistered names.
	ErrUnknownNormalizer = errors.New("unknown normalizer")

	// ErrMalformedInput is returned when a payload is not a shape the
	// normalizer understands.
	ErrMalformedInput = errors.New("malformed input")
)

// Options tunes normalization. The zero value is valid.
type Options struct {
	// Delimiter is the table column separator. Zero means auto-detect from
	// the first lines of the payload.
	Delimiter rune
}

// Normalizer converts one raw payload format into canonical records.
// Implementations are stateless and deterministic: the same payload and
// options always yield identical record lists.
type Normalizer interface {
	Name() string
	Normalize(payload any, opts Options) (record.Canonical, error)
}

// Registry is an explicit name → normalizer lookup table.
// It is built once and read concurrently; it is not modified after creation.
type Registry struct {
	byName map[string]Normalizer
	names  []string
}

// NewRegistry creates a registry holding ns. A later normalizer with the same
// name replaces an earlier one.
func NewRegistry(ns ...Normalizer) *Registry {
	r := &Registry{byName: make(map[string]Normalizer, len(ns))}
	for _, n := range ns {
		if _, ok := r.byName[n.Name()]; !ok {
			r.names = append(r.names, n.Name())
		}
		r.byName[n.Name()] = n
	}
	return r
}

// Get returns the normalizer registered under name.
func (r *Registry) Get(name string) (Normalizer, error) {
	if n, ok := r.byName[name]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownNormalizer, name, strings.Join(r.Names(), ", "))
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string { return slices.Clone(r.names) }

// Malformed builds an error wrapping [ErrMalformedInput].
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}
