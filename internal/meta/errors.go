package meta

import (
	"errors"
	"fmt"
	"reflect"
)

var ErrClassNil = errors.New("class metadata cannot be nil")

var (
	_ error = InvalidClassError{}
	_ error = InvalidTagError{}
	_ error = ExtendsCycleError{}
)

// InvalidClassError indicates a class metadata record that cannot be used.
type InvalidClassError struct {
	Class  *Class
	Reason string
}

func (e InvalidClassError) Error() string {
	if e.Class != nil && e.Class.Type != nil {
		return fmt.Sprintf("invalid class metadata for %s: %s", e.Class.Type, e.Reason)
	}
	return fmt.Sprintf("invalid class metadata: %s", e.Reason)
}

// InvalidTagError indicates an unrecognized flag in an `inject` field tag.
type InvalidTagError struct {
	Type  reflect.Type
	Field string
	Flag  string
}

func (e InvalidTagError) Error() string {
	return fmt.Sprintf("invalid inject tag on %s.%s: unknown flag %q", e.Type, e.Field, e.Flag)
}

// ExtendsCycleError indicates a loop in the declared Extends chain.
type ExtendsCycleError struct {
	Type     reflect.Type
	Repeated reflect.Type
}

func (e ExtendsCycleError) Error() string {
	return fmt.Sprintf("extends chain of %s revisits %s", e.Type, e.Repeated)
}
