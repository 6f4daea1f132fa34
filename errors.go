package knit

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// Base errors wrapped by the typed errors below. Never returned bare.

var (
	ErrTokenNil           = errors.New("token cannot be nil")
	ErrTokenNotComparable = errors.New("token must be a comparable value")
	ErrProviderNil        = errors.New("provider cannot be nil")
	ErrInjectorNil        = errors.New("injector cannot be nil")
	ErrInstanceNil        = errors.New("instance cannot be nil")
	ErrFactoryNotFunc     = errors.New("factory must be a function")
	ErrClassNotStruct     = errors.New("class must be a pointer to a struct")
)

var (
	_ error = UnresolvedTokenError{}
	_ error = CircularDependencyError{}
	_ error = MalformedProviderError{}
	_ error = InvalidRegistrationError{}
	_ error = RegistrationError{}
	_ error = TypeMismatchError{}
	_ error = ConstructorError{}
	_ error = HookError{}
	_ error = AutowireError{}
	_ error = ModuleError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// UnresolvedTokenError indicates no provider was found for a token at any
// level of the injector hierarchy, with no default supplied and the
// dependency not marked optional.
type UnresolvedTokenError struct {
	Token any
}

func (e UnresolvedTokenError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("no provider for %s", formatToken(e.Token)))
	b.WriteString("\n\nMake sure the token is registered on this injector or one of its parents,")
	b.WriteString("\nor mark the dependency optional / supply a default value.")
	return b.String()
}

// CircularDependencyError indicates a token was re-requested while already
// on the in-flight resolution stack and the edge was not marked lazy.
type CircularDependencyError struct {
	Token any
	Path  []any
}

func (e CircularDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("circular dependency detected:\n\n")

	if len(e.Path) == 0 {
		b.WriteString(fmt.Sprintf("    %s\n", formatToken(e.Token)))
		b.WriteString("      ↓\n")
		b.WriteString(fmt.Sprintf("    %s (cycle)\n", formatToken(e.Token)))
	} else {
		for i, token := range e.Path {
			b.WriteString(fmt.Sprintf("    %s", formatToken(token)))
			if i == len(e.Path)-1 {
				b.WriteString(" (cycle)")
			}
			b.WriteString("\n")
			if i < len(e.Path)-1 {
				b.WriteString("      ↓\n")
			}
		}
	}

	b.WriteString("\nTo resolve this:\n")
	b.WriteString("  • Mark one edge of the cycle as lazy to defer its resolution\n")
	b.WriteString("  • Use a factory provider for late initialization\n")
	b.WriteString("  • Restructure to remove the circular relationship\n")

	return b.String()
}

// MalformedProviderError indicates a registered provider matches none of the
// known shapes, or more than one. Surfaced at resolution time, not at
// registration time.
type MalformedProviderError struct {
	Token  any
	Reason string
}

func (e MalformedProviderError) Error() string {
	return fmt.Sprintf("malformed provider for %s: %s", formatToken(e.Token), e.Reason)
}

// InvalidRegistrationError indicates an argument passed to registration that
// is neither a provider record nor a class reference.
type InvalidRegistrationError struct {
	Arg any
}

func (e InvalidRegistrationError) Error() string {
	return fmt.Sprintf("cannot register %T: expected a Provide record, a class reference, or a module", e.Arg)
}

// RegistrationError wraps errors during provider registration.
type RegistrationError struct {
	Token any
	Cause error
}

func (e RegistrationError) Error() string {
	return fmt.Sprintf("failed to register %s: %v", formatToken(e.Token), e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError indicates a resolved value could not be asserted or
// assigned to the expected type.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string // "type assertion", "field assignment", etc.
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Context, formatType(e.Expected), formatType(e.Actual))
}

// ConstructorError wraps a failure while invoking a class constructor or
// factory function.
type ConstructorError struct {
	Func  reflect.Type
	Cause error
}

func (e ConstructorError) Error() string {
	return fmt.Sprintf("constructor %s failed: %v", formatType(e.Func), e.Cause)
}

func (e ConstructorError) Unwrap() error {
	return e.Cause
}

// HookError wraps a failure while running a post-construct hook.
type HookError struct {
	Type  reflect.Type
	Hook  string
	Cause error
}

func (e HookError) Error() string {
	return fmt.Sprintf("post-construct hook %s.%s failed: %v", formatType(e.Type), e.Hook, e.Cause)
}

func (e HookError) Unwrap() error {
	return e.Cause
}

// AutowireError wraps a failure while assigning an injected field.
type AutowireError struct {
	Type  reflect.Type
	Field string
	Cause error
}

func (e AutowireError) Error() string {
	return fmt.Sprintf("autowiring %s.%s failed: %v", formatType(e.Type), e.Field, e.Cause)
}

func (e AutowireError) Unwrap() error {
	return e.Cause
}

// ModuleError wraps errors from module application.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// formatToken formats a registry token for error messages.
func formatToken(token any) string {
	switch t := token.(type) {
	case nil:
		return "<nil token>"
	case *Token:
		return t.String()
	case reflect.Type:
		return formatType(t)
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
