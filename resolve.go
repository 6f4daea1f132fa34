package knit

import (
	"fmt"
	"reflect"
)

// Resolve resolves a token from the injector and asserts the result to T.
//
//	db, err := knit.Resolve[*Database](injector, knit.TypeOf[*Database]())
func Resolve[T any](in *Injector, token any, opts ...ResolveOption) (T, error) {
	var zero T

	if in == nil {
		return zero, ErrInjectorNil
	}

	value, err := in.Get(token, opts...)
	if err != nil {
		return zero, err
	}

	if value == nil {
		return zero, nil
	}

	result, ok := value.(T)
	if !ok {
		return zero, TypeMismatchError{
			Expected: reflect.TypeOf((*T)(nil)).Elem(),
			Actual:   reflect.TypeOf(value),
			Context:  "type assertion",
		}
	}

	return result, nil
}

// MustResolve resolves a token and panics on failure. Useful for
// application initialization where a missing provider is fatal.
func MustResolve[T any](in *Injector, token any, opts ...ResolveOption) T {
	result, err := Resolve[T](in, token, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", formatToken(token), err))
	}
	return result
}

// ResolveAll resolves a multi token and asserts each element to T. Elements
// are in merge order: local entries first, then inherited ones.
func ResolveAll[T any](in *Injector, token any, opts ...ResolveOption) ([]T, error) {
	if in == nil {
		return nil, ErrInjectorNil
	}

	value, err := in.Get(token, opts...)
	if err != nil {
		return nil, err
	}

	list, ok := value.([]any)
	if !ok {
		// A non-multi provider resolves to a bare value; present it as
		// a one-element list for uniformity.
		list = []any{value}
	}

	results := make([]T, 0, len(list))
	for i, element := range list {
		result, ok := element.(T)
		if !ok {
			return nil, TypeMismatchError{
				Expected: reflect.TypeOf((*T)(nil)).Elem(),
				Actual:   reflect.TypeOf(element),
				Context:  fmt.Sprintf("type assertion for element %d", i),
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// Instantiate constructs a class through the injector and asserts the
// result to T. The class is not registered as a token and does not
// participate in cycle detection.
func Instantiate[T any](in *Injector, opts ...InstantiateOption) (T, error) {
	var zero T

	if in == nil {
		return zero, ErrInjectorNil
	}

	instance, err := in.Instantiate(TypeOf[T](), opts...)
	if err != nil {
		return zero, err
	}

	result, ok := instance.(T)
	if !ok {
		return zero, TypeMismatchError{
			Expected: reflect.TypeOf((*T)(nil)).Elem(),
			Actual:   reflect.TypeOf(instance),
			Context:  "type assertion",
		}
	}

	return result, nil
}
