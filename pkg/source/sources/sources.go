// Package sources assembles the built-in normalizers into a registry.
//
// This package exists to break import cycles: the normalizer packages (table,
// object) import pkg/source, so pkg/source cannot import them back.
// Consumers that need the full set import this package instead.
//
// Usage:
//
//	reg := sources.Default()
//	for _, name := range reg.Names() {
//	    fmt.Println(name)
//	}
package sources

import (
	"github.com/matzehuels/graphloom/pkg/source"
	"github.com/matzehuels/graphloom/pkg/source/object"
	"github.com/matzehuels/graphloom/pkg/source/table"
)

// All is the list of built-in normalizers, in registration order.
func All() []source.Normalizer {
	return []source.Normalizer{
		table.Normalizer{},
		object.List{},
		object.Tree{},
		object.Auto{},
	}
}

// Default returns a new registry holding every built-in normalizer.
func Default() *source.Registry {
	return source.NewRegistry(All()...)
}
