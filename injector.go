package knit

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/knit-go/knit/internal/meta"
)

// Deferred is the thunk produced for lazy dependencies. Invoking it performs
// the deferred lookup; failures surface at invocation time, not at injection
// time.
type Deferred func() (any, error)

// injectorToken is the key every injector implicitly registers itself under,
// making the injector injectable as a dependency.
var injectorToken = TypeOf[*Injector]()

// Injector owns a provider registry and an optional parent injector.
// Lookups that miss the local registry cascade to the parent; a parent is
// shared, never owned, and is never mutated by its children.
//
// Resolution state travels with each top-level Get call, so an Injector may
// serve concurrent resolutions. Registration is not synchronized with
// in-flight resolutions: register providers before sharing the injector.
type Injector struct {
	id     string
	parent *Injector

	mu        sync.RWMutex
	providers map[any]*record

	metadata *meta.Registry
}

// resolution tracks the providers currently being resolved within one
// top-level call tree. It is call-local: independent Get calls never share a
// stack. Entries are keyed by injector and token together, so a child
// provider may depend on its parent's provider for the same token (the
// SkipSelf decoration pattern) without tripping detection.
type resolution struct {
	stack []resolutionKey
}

type resolutionKey struct {
	in  *Injector
	key any
}

func (rs *resolution) path() []any {
	tokens := make([]any, len(rs.stack))
	for i, entry := range rs.stack {
		tokens[i] = entry.key
	}
	return tokens
}

// New creates an injector and registers the given providers: Provide
// records, bare class references, or modules.
func New(providers ...any) (*Injector, error) {
	in := &Injector{
		id:        uuid.NewString(),
		providers: make(map[any]*record),
		metadata:  meta.Default,
	}
	in.registerSelf()

	for _, provider := range providers {
		if err := in.register(provider); err != nil {
			return nil, err
		}
	}

	return in, nil
}

// MustNew creates an injector and panics on registration failure. Intended
// for application wiring where a bad registration is fatal.
func MustNew(providers ...any) *Injector {
	in, err := New(providers...)
	if err != nil {
		panic(fmt.Sprintf("failed to create injector: %v", err))
	}
	return in
}

// ID returns the unique identifier for this injector instance.
func (in *Injector) ID() string {
	return in.id
}

// Parent returns the parent injector, or nil at the root.
func (in *Injector) Parent() *Injector {
	return in.parent
}

// SetParent links this injector under a parent after construction.
func (in *Injector) SetParent(parent *Injector) {
	in.parent = parent
}

// CreateChild creates a new injector whose parent is this one. The child
// starts from the given providers and shares no registry storage with the
// parent; lookups cascade through Get delegation only.
func (in *Injector) CreateChild(providers ...any) (*Injector, error) {
	child, err := New(providers...)
	if err != nil {
		return nil, err
	}

	child.parent = in
	child.metadata = in.metadata
	return child, nil
}

// Register adds a provider: a Provide record or a bare class reference.
// Multi entries accumulate per token in registration order; any other
// registration for an already-registered token replaces the previous one.
// Provider shape is validated lazily, at first resolution.
func (in *Injector) Register(provider any) error {
	p, err := normalizeProvider(provider)
	if err != nil {
		return err
	}

	if p.Token == nil {
		return RegistrationError{Token: nil, Cause: ErrTokenNil}
	}

	if !isComparable(p.Token) {
		return RegistrationError{Token: p.Token, Cause: ErrTokenNotComparable}
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	if p.Multi {
		acc := in.providers[p.Token]
		if acc == nil || !acc.isMulti() {
			acc = &record{
				provide: Provide{Token: p.Token, Multi: true},
				entries: make([]*record, 0, 1),
			}
			in.providers[p.Token] = acc
		}

		entry := p
		entry.Multi = false
		acc.entries = append(acc.entries, &record{provide: entry})
		return nil
	}

	in.providers[p.Token] = &record{provide: p}
	return nil
}

// register also accepts modules, for the New and CreateChild argument lists.
func (in *Injector) register(arg any) error {
	if m, ok := arg.(ModuleOption); ok {
		return m(in)
	}
	return in.Register(arg)
}

// registerSelf installs the injector under its own type, pre-resolved.
func (in *Injector) registerSelf() {
	in.providers[injectorToken] = &record{
		provide:  Value(injectorToken, in),
		resolved: true,
		value:    in,
	}
}

// Has reports whether the token is registered on this injector or, when
// cascade is true, any of its ancestors. A ForwardRef token is unwrapped
// first, as in Get.
func (in *Injector) Has(token any, cascade bool) bool {
	token = Deref(token)
	if !isComparable(token) {
		return false
	}

	in.mu.RLock()
	_, ok := in.providers[token]
	in.mu.RUnlock()

	if ok {
		return true
	}

	if cascade && in.parent != nil {
		return in.parent.Has(token, true)
	}
	return false
}

// Get resolves a token to its value.
//
// Resolution order: a Lazy option short-circuits into a Deferred thunk; a
// ForwardRef token is unwrapped; the local registry is consulted (unless
// SkipSelf), with multi entries merged child-before-parent; misses delegate
// to the parent (unless Self) with Self and SkipSelf cleared; finally the
// Default value, Optional nil, or an UnresolvedTokenError.
func (in *Injector) Get(token any, opts ...ResolveOption) (any, error) {
	spec := applyResolveOptions(opts)
	return in.get(token, spec, &resolution{})
}

// MustGet resolves a token and panics on failure.
func (in *Injector) MustGet(token any, opts ...ResolveOption) any {
	value, err := in.Get(token, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", formatToken(token), err))
	}
	return value
}

func (in *Injector) get(token any, spec resolveSpec, rs *resolution) (any, error) {
	// A lazy edge is not walked now: the thunk re-enters with lazy
	// cleared on the same resolution state. Pops restore the stack, so a
	// thunk invoked after the top-level call completes sees it empty and
	// bridges the cycle, while one invoked mid-resolution still trips
	// detection instead of recursing without bound.
	if spec.dep.Lazy {
		inner := spec
		inner.dep.Lazy = false
		return Deferred(func() (any, error) {
			return in.get(token, inner, rs)
		}), nil
	}

	token = Deref(token)
	if token == nil {
		return nil, ErrTokenNil
	}

	if !spec.dep.SkipSelf && isComparable(token) {
		in.mu.RLock()
		rec := in.providers[token]
		in.mu.RUnlock()

		if rec != nil {
			if rec.isMulti() {
				return in.getMulti(token, rec, spec, rs)
			}
			return in.resolve(rec, rs, false)
		}
	}

	if !spec.dep.Self && in.parent != nil {
		// A delegated lookup restarts the self/skipSelf decision at
		// the parent's level.
		next := spec
		next.dep.Self = false
		next.dep.SkipSelf = false
		return in.parent.get(token, next, rs)
	}

	if spec.hasDefault {
		return spec.def, nil
	}

	if spec.dep.Optional {
		return nil, nil
	}

	return nil, UnresolvedTokenError{Token: token}
}

// getMulti resolves every local multi entry, then appends the parent's view
// of the same token. Local entries always precede inherited ones, and a
// non-multi ancestor entry is coerced into a one-element list.
func (in *Injector) getMulti(token any, rec *record, spec resolveSpec, rs *resolution) (any, error) {
	values := make([]any, 0, len(rec.entries))
	for _, entry := range rec.entries {
		v, err := in.resolve(entry, rs, false)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	if !spec.dep.Self && in.parent != nil {
		parentView, err := in.parent.get(token, resolveSpec{def: []any(nil), hasDefault: true}, rs)
		if err != nil {
			return nil, err
		}

		if list, ok := parentView.([]any); ok {
			values = append(values, list...)
		} else {
			values = append(values, parentView)
		}
	}

	return values, nil
}

// resolve materializes a singular provider record, memoizing the result.
func (in *Injector) resolve(rec *record, rs *resolution, skipCycleCheck bool) (any, error) {
	in.mu.RLock()
	if rec.resolved {
		value := rec.value
		in.mu.RUnlock()
		return value, nil
	}
	in.mu.RUnlock()

	key := rec.provide.Token
	entry := resolutionKey{in: in, key: key}
	if !skipCycleCheck {
		if slices.Contains(rs.stack, entry) {
			return nil, CircularDependencyError{
				Token: key,
				Path:  append(rs.path(), key),
			}
		}

		rs.stack = append(rs.stack, entry)
		defer func() { rs.stack = rs.stack[:len(rs.stack)-1] }()
	}

	kind, err := rec.provide.resolvedKind()
	if err != nil {
		return nil, err
	}

	switch kind {
	case kindClass:
		instance, err := in.instantiateClass(rec.provide.UseClass, rs, false)
		if err != nil {
			return nil, err
		}
		return in.store(rec, instance), nil

	case kindFactory:
		args, err := in.resolveDeps(rec.provide.Deps, rs)
		if err != nil {
			return nil, err
		}
		result, err := callFunction(Deref(rec.provide.UseFactory), args)
		if err != nil {
			return nil, err
		}
		return in.store(rec, result), nil

	case kindValue:
		return in.store(rec, Deref(rec.provide.UseValue)), nil

	case kindExisting:
		// Aliases delegate through Get and never cache locally, so they
		// always observe the underlying entry's cache.
		return in.get(Deref(rec.provide.UseExisting), resolveSpec{}, rs)

	default:
		return nil, MalformedProviderError{Token: key, Reason: "unknown provider kind"}
	}
}

// store memoizes a resolved value on its record. The first stored value
// wins, preserving reference equality for repeated Get calls.
func (in *Injector) store(rec *record, value any) any {
	in.mu.Lock()
	defer in.mu.Unlock()

	if !rec.resolved {
		rec.value = value
		rec.resolved = true
	}
	return rec.value
}

// resolveDeps resolves an ordered dependency list into positional arguments.
func (in *Injector) resolveDeps(deps []Dep, rs *resolution) ([]any, error) {
	args := make([]any, len(deps))
	for i, d := range deps {
		value, err := in.get(d.Token, resolveSpec{dep: d}, rs)
		if err != nil {
			return nil, err
		}
		args[i] = value
	}
	return args, nil
}

func isComparable(token any) bool {
	t := reflect.TypeOf(token)
	return t != nil && t.Comparable()
}
