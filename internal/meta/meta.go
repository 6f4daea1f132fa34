// Package meta holds the injection metadata side table consulted by the
// injector. Metadata is keyed by struct type identity and supports single
// inheritance through an explicit Extends link; the merged view is computed
// root-to-leaf so that subclass declarations override ancestor declarations
// for the same key.
//
// The injector treats this table as an opaque input: it never cares whether
// an entry was registered directly, built by a helper, or derived from
// struct tags.
package meta

import (
	"reflect"
	"sort"
	"sync"
)

// Dep describes a single dependency edge. It governs how the injector
// resolves that edge: Optional turns a missing token into a nil value, Lazy
// defers the lookup behind a thunk, Self restricts the lookup to the local
// registry, and SkipSelf starts the lookup at the parent injector.
type Dep struct {
	Token    any
	Optional bool
	Lazy     bool
	Self     bool
	SkipSelf bool
}

// Class is the declared injection metadata for one struct type.
type Class struct {
	// Type is the pointer-to-struct type this metadata describes.
	Type reflect.Type

	// Extends names the parent type whose metadata this class inherits.
	// Zero value means no parent.
	Extends reflect.Type

	// Constructor is an optional function invoked positionally with the
	// resolved Params. When nil, instances are created as zero values.
	Constructor any

	// Params are the ordered constructor parameter specs.
	Params []Dep

	// Fields maps exported field names to their injection specs. Field
	// values are assigned after construction completes.
	Fields map[string]Dep

	// Hooks are post-construct method names, invoked in order after
	// autowiring.
	Hooks []string
}

// Info is the merged, inheritance-resolved view of a type's metadata.
// FieldOrder lists the Fields keys sorted by name; autowiring assigns in
// this order, in both the registered and the tag dialect, so field side
// effects are deterministic.
type Info struct {
	Type        reflect.Type
	Constructor any
	Params      []Dep
	Fields      map[string]Dep
	FieldOrder  []string
	Hooks       []string
}

// Registry is a process-scoped side table mapping struct types to their
// declared injection metadata. A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[reflect.Type]*Class
}

// Default is the registry consulted by injectors. Its lifecycle is tied to
// the process; entries are never evicted.
var Default = NewRegistry()

// NewRegistry creates an empty metadata registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[reflect.Type]*Class),
	}
}

// Register records metadata for a class, replacing any previous entry for
// the same type.
func (r *Registry) Register(c *Class) error {
	if c == nil {
		return ErrClassNil
	}

	if c.Type == nil {
		return &InvalidClassError{Class: c, Reason: "missing Type"}
	}

	if c.Type.Kind() != reflect.Pointer || c.Type.Elem().Kind() != reflect.Struct {
		return &InvalidClassError{Class: c, Reason: "Type must be a pointer to a struct"}
	}

	if c.Constructor != nil && reflect.TypeOf(c.Constructor).Kind() != reflect.Func {
		return &InvalidClassError{Class: c, Reason: "Constructor must be a function"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.classes[c.Type] = c
	return nil
}

// Lookup returns the metadata declared directly for t, without inheritance.
func (r *Registry) Lookup(t reflect.Type) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[t]
	return c, ok
}

// Resolve returns the merged metadata for t. The Extends chain is walked to
// its root and merged leaf-ward: subclass constructor and per-key entries
// overwrite ancestor ones, and hooks are deduplicated by name with the
// most-derived position winning.
//
// When no class in the chain is registered, metadata is derived from
// `inject` struct tags (see tags.go).
func (r *Registry) Resolve(t reflect.Type) (*Info, error) {
	chain, err := r.chain(t)
	if err != nil {
		return nil, err
	}

	if len(chain) == 0 {
		return fromTags(t)
	}

	info := &Info{
		Type:   t,
		Fields: make(map[string]Dep),
	}

	// chain is leaf-first; merge from the root down.
	for i := len(chain) - 1; i >= 0; i-- {
		c := chain[i]

		if c.Constructor != nil {
			info.Constructor = c.Constructor
		}

		for pos, p := range c.Params {
			if pos < len(info.Params) {
				info.Params[pos] = p
			} else {
				info.Params = append(info.Params, p)
			}
		}

		for name, d := range c.Fields {
			info.Fields[name] = d
		}

		for _, hook := range c.Hooks {
			info.Hooks = appendHook(info.Hooks, hook)
		}
	}

	info.FieldOrder = make([]string, 0, len(info.Fields))
	for name := range info.Fields {
		info.FieldOrder = append(info.FieldOrder, name)
	}
	sort.Strings(info.FieldOrder)

	return info, nil
}

// chain collects the registered metadata from t up its Extends links,
// leaf-first. Returns an empty chain when t has no registered metadata.
func (r *Registry) chain(t reflect.Type) ([]*Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var chain []*Class
	seen := make(map[reflect.Type]bool)

	for cur := t; cur != nil; {
		if seen[cur] {
			return nil, &ExtendsCycleError{Type: t, Repeated: cur}
		}
		seen[cur] = true

		c, ok := r.classes[cur]
		if !ok {
			// An unregistered ancestor ends the chain. For the leaf
			// itself this signals the tag fallback.
			break
		}

		chain = append(chain, c)
		cur = c.Extends
	}

	return chain, nil
}

// appendHook appends name to hooks, moving an existing occurrence to the new
// position so a subclass redeclaration wins ordering without duplicating the
// invocation.
func appendHook(hooks []string, name string) []string {
	for i, h := range hooks {
		if h == name {
			hooks = append(hooks[:i], hooks[i+1:]...)
			break
		}
	}
	return append(hooks, name)
}
