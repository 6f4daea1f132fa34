package knit

import "fmt"

// A ResolveOption modifies the default behavior of a single Get call.
type ResolveOption interface {
	applyResolveOption(*resolveSpec)
}

// resolveSpec carries the per-edge policies plus an optional default value
// for one resolution.
type resolveSpec struct {
	dep        Dep
	def        any
	hasDefault bool
}

func applyResolveOptions(opts []ResolveOption) resolveSpec {
	var spec resolveSpec
	for _, opt := range opts {
		if opt != nil {
			opt.applyResolveOption(&spec)
		}
	}
	return spec
}

// Optional makes a missing token resolve to nil instead of failing with
// UnresolvedTokenError.
func Optional() ResolveOption {
	return optionalOption{}
}

type optionalOption struct{}

func (optionalOption) String() string { return "Optional()" }

func (optionalOption) applyResolveOption(s *resolveSpec) {
	s.dep.Optional = true
}

// Lazy defers the lookup: Get returns a Deferred thunk immediately, without
// walking the dependency graph, and the real resolution happens when the
// thunk is invoked. A cyclic edge marked lazy is deferred past the
// cycle-detection window.
func Lazy() ResolveOption {
	return lazyOption{}
}

type lazyOption struct{}

func (lazyOption) String() string { return "Lazy()" }

func (lazyOption) applyResolveOption(s *resolveSpec) {
	s.dep.Lazy = true
}

// Self restricts the lookup to the local registry; misses are not delegated
// to the parent injector.
func Self() ResolveOption {
	return selfOption{}
}

type selfOption struct{}

func (selfOption) String() string { return "Self()" }

func (selfOption) applyResolveOption(s *resolveSpec) {
	s.dep.Self = true
}

// SkipSelf skips the local registry and starts the lookup at the parent
// injector. Without a parent the lookup falls through to the default and
// optional handling.
func SkipSelf() ResolveOption {
	return skipSelfOption{}
}

type skipSelfOption struct{}

func (skipSelfOption) String() string { return "SkipSelf()" }

func (skipSelfOption) applyResolveOption(s *resolveSpec) {
	s.dep.SkipSelf = true
}

// Default supplies a fallback value returned when no provider is found. It
// takes precedence over Optional's nil.
func Default(value any) ResolveOption {
	return defaultOption{value: value}
}

type defaultOption struct {
	value any
}

func (o defaultOption) String() string { return fmt.Sprintf("Default(%v)", o.value) }

func (o defaultOption) applyResolveOption(s *resolveSpec) {
	s.def = o.value
	s.hasDefault = true
}

// WithDep applies a full dependency spec to a Get call, mirroring how the
// injector resolves declared constructor and field edges.
func WithDep(d Dep) ResolveOption {
	return depOption{dep: d}
}

type depOption struct {
	dep Dep
}

func (o depOption) applyResolveOption(s *resolveSpec) {
	s.dep.Optional = s.dep.Optional || o.dep.Optional
	s.dep.Lazy = s.dep.Lazy || o.dep.Lazy
	s.dep.Self = s.dep.Self || o.dep.Self
	s.dep.SkipSelf = s.dep.SkipSelf || o.dep.SkipSelf
}

// An InstantiateOption modifies a single Instantiate call.
type InstantiateOption interface {
	applyInstantiateOption(*instantiateOptions)
}

type instantiateOptions struct {
	skipHooks bool
}

// SkipHooks suppresses post-construct hooks for this one instantiation.
// Autowiring still runs.
func SkipHooks() InstantiateOption {
	return skipHooksOption{}
}

type skipHooksOption struct{}

func (skipHooksOption) String() string { return "SkipHooks()" }

func (skipHooksOption) applyInstantiateOption(o *instantiateOptions) {
	o.skipHooks = true
}
