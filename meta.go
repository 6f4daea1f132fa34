package knit

import (
	"github.com/knit-go/knit/internal/meta"
)

// Dep describes one dependency edge: the token to resolve and the policies
// that govern its resolution.
type Dep = meta.Dep

// ClassMeta declares the injection metadata for one struct type: its
// constructor parameter specs, injected fields, post-construct hooks, and
// the parent type it inherits metadata from.
type ClassMeta = meta.Class

// Type aliases for metadata errors, re-exported for errors.As matching.
type (
	InvalidClassError = meta.InvalidClassError
	InvalidTagError   = meta.InvalidTagError
	ExtendsCycleError = meta.ExtendsCycleError
)

// RegisterClass records class metadata in the process-scoped registry
// consulted by all injectors. Registering the same type again replaces the
// previous entry.
//
// Types with no registered metadata fall back to `inject` struct tags and an
// Init post-construct method, so registration is only needed for constructor
// parameters, token-keyed fields, lazy edges, named hooks, or inheritance.
func RegisterClass(c *ClassMeta) error {
	return meta.Default.Register(c)
}

// MustRegisterClass records class metadata and panics on failure. Intended
// for package-level registration at definition sites.
func MustRegisterClass(c *ClassMeta) {
	if err := RegisterClass(c); err != nil {
		panic(err)
	}
}
