package knit

import (
	"fmt"
	"reflect"
)

// Token is an opaque identity usable as a registry key when a Go type or
// primitive cannot serve as one, such as two configuration strings of the
// same type. Two tokens are equal only if they are the same pointer; the
// name exists for display and is not required to be unique.
//
//	var ReadConn = knit.NewToken("db-read")
//	var WriteConn = knit.NewToken("db-write")
type Token struct {
	name string
}

// NewToken creates a new identity token with the given display name.
func NewToken(name string) *Token {
	return &Token{name: name}
}

// Name returns the token's display name.
func (t *Token) Name() string {
	return t.name
}

// String returns the token's string representation.
func (t *Token) String() string {
	return fmt.Sprintf("Token(%s)", t.name)
}

// TypeOf returns the reflect.Type of T, for use as a registry token.
//
//	injector.Get(knit.TypeOf[*Database]())
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
