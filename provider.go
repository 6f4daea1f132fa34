package knit

import (
	"reflect"
)

// Provide declares how a token is satisfied. Exactly one of UseClass,
// UseFactory, UseValue, or UseExisting may be set; the shape is validated
// lazily, when the token is first resolved.
//
// Prefer the Class, Factory, Value, and Existing constructors over struct
// literals: they tag the record's kind explicitly, which is the only way to
// register a value provider whose value is nil.
type Provide struct {
	// Token is the registry key this provider satisfies.
	Token any

	// UseClass instantiates a struct type: a pointer-to-struct sample
	// such as (*Car)(nil), a reflect.Type, or a ForwardRef to either.
	UseClass any

	// UseFactory invokes a function positionally with the resolved Deps.
	UseFactory any

	// Deps are the ordered dependency specs for UseFactory.
	Deps []Dep

	// UseValue is returned as-is. A ForwardRef value is unwrapped once
	// per resolution.
	UseValue any

	// UseExisting aliases another token. Alias lookups go through Get
	// and are never cached on the alias itself, so they always observe
	// the underlying entry's cache.
	UseExisting any

	// Multi accumulates this entry into a list-valued token instead of
	// replacing the previous registration.
	Multi bool

	kind providerKind
}

type providerKind int

const (
	kindUnknown providerKind = iota
	kindClass
	kindFactory
	kindValue
	kindExisting
)

// Class declares a class provider: resolving token instantiates class
// (a pointer-to-struct sample or reflect.Type) using its registered
// metadata.
func Class(token, class any) Provide {
	return Provide{Token: token, UseClass: class, kind: kindClass}
}

// Factory declares a factory provider: resolving token invokes fn with the
// resolved deps as positional arguments.
func Factory(token, fn any, deps ...Dep) Provide {
	return Provide{Token: token, UseFactory: fn, Deps: deps, kind: kindFactory}
}

// Value declares a value provider. A nil value is legal: it is cached and
// returned as-is, distinguished from "not yet resolved" by an explicit
// presence flag.
func Value(token, value any) Provide {
	return Provide{Token: token, UseValue: value, kind: kindValue}
}

// Existing declares an alias provider: resolving token delegates to target.
func Existing(token, target any) Provide {
	return Provide{Token: token, UseExisting: target, kind: kindExisting}
}

// AsMulti returns a copy of the provider marked as a multi entry.
func (p Provide) AsMulti() Provide {
	p.Multi = true
	return p
}

// resolvedKind determines the provider's shape. Struct literals are
// inferred from which Use field is set; records built by the constructors
// carry their kind explicitly.
func (p Provide) resolvedKind() (providerKind, error) {
	if p.kind != kindUnknown {
		return p.kind, nil
	}

	var (
		kind  providerKind
		count int
	)

	if p.UseClass != nil {
		kind, count = kindClass, count+1
	}
	if p.UseFactory != nil {
		kind, count = kindFactory, count+1
	}
	if p.UseValue != nil {
		kind, count = kindValue, count+1
	}
	if p.UseExisting != nil {
		kind, count = kindExisting, count+1
	}

	switch count {
	case 1:
		return kind, nil
	case 0:
		return kindUnknown, MalformedProviderError{
			Token:  p.Token,
			Reason: "none of UseClass, UseFactory, UseValue, UseExisting is set",
		}
	default:
		return kindUnknown, MalformedProviderError{
			Token:  p.Token,
			Reason: "more than one provider kind is set",
		}
	}
}

// record is a registered provider plus its memoized result. The presence
// flag is explicit so that a legitimately-nil resolved value is not
// re-resolved on every request.
type record struct {
	provide  Provide
	entries  []*record // multi accumulator; nil for singular records
	resolved bool
	value    any
}

func (r *record) isMulti() bool {
	return r.entries != nil
}

// normalizeProvider turns a registration argument into a Provide record.
// Bare class references are sugar for a class provider keyed by their own
// type.
func normalizeProvider(arg any) (Provide, error) {
	switch p := arg.(type) {
	case nil:
		return Provide{}, ErrProviderNil
	case Provide:
		return p, nil
	case *Provide:
		if p == nil {
			return Provide{}, ErrProviderNil
		}
		return *p, nil
	}

	if t, ok := classTypeOf(arg); ok {
		return Provide{Token: t, UseClass: t, kind: kindClass}, nil
	}

	return Provide{}, InvalidRegistrationError{Arg: arg}
}

// classTypeOf interprets arg as a class reference: a reflect.Type or a
// pointer-to-struct sample such as (*Car)(nil).
func classTypeOf(arg any) (reflect.Type, bool) {
	if t, ok := arg.(reflect.Type); ok {
		if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
			return t, true
		}
		return nil, false
	}

	t := reflect.TypeOf(arg)
	if t != nil && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		return t, true
	}

	return nil, false
}
