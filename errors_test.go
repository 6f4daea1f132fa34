package knit

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnresolvedTokenError_Message(t *testing.T) {
	err := UnresolvedTokenError{Token: NewToken("db")}

	message := err.Error()
	assert.Contains(t, message, "no provider for Token(db)")
	assert.Contains(t, message, "mark the dependency optional")
}

func TestCircularDependencyError_Message(t *testing.T) {
	a := NewToken("a")
	b := NewToken("b")

	err := CircularDependencyError{Token: a, Path: []any{a, b, a}}
	message := err.Error()

	assert.Contains(t, message, "circular dependency detected")
	assert.Contains(t, message, "Token(a)")
	assert.Contains(t, message, "Token(b)")
	assert.Contains(t, message, "↓")
	assert.Contains(t, message, "Token(a) (cycle)")
	assert.Contains(t, message, "To resolve this:")
	assert.Contains(t, message, "lazy")
}

func TestCircularDependencyError_EmptyPath(t *testing.T) {
	token := NewToken("self")
	err := CircularDependencyError{Token: token}

	message := err.Error()
	assert.Contains(t, message, "Token(self) (cycle)")
}

func TestWrappedErrorChains(t *testing.T) {
	cause := errors.New("bad wiring")

	tests := []struct {
		name string
		err  error
	}{
		{name: "registration", err: RegistrationError{Token: NewToken("t"), Cause: cause}},
		{name: "constructor", err: ConstructorError{Func: reflect.TypeOf(func() {}), Cause: cause}},
		{name: "hook", err: HookError{Type: reflect.TypeOf(0), Hook: "Init", Cause: cause}},
		{name: "autowire", err: AutowireError{Type: reflect.TypeOf(0), Field: "DB", Cause: cause}},
		{name: "module", err: ModuleError{Module: "app", Cause: cause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, cause)
			assert.Contains(t, tt.err.Error(), "bad wiring")
		})
	}
}

func TestFormatToken(t *testing.T) {
	type service struct{}

	tests := []struct {
		name  string
		token any
		want  string
	}{
		{name: "nil", token: nil, want: "<nil token>"},
		{name: "token", token: NewToken("cache"), want: "Token(cache)"},
		{name: "type", token: reflect.TypeOf((*service)(nil)), want: "*service"},
		{name: "string", token: "named", want: `"named"`},
		{name: "other", token: 42, want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatToken(tt.token))
		})
	}
}

func TestFormatType(t *testing.T) {
	type service struct{}

	assert.Equal(t, "<nil>", formatType(nil))
	assert.Equal(t, "*service", formatType(reflect.TypeOf((*service)(nil))))
	assert.Equal(t, "[]service", formatType(reflect.TypeOf([]service{})))
	assert.Equal(t, "int", formatType(reflect.TypeOf(0)))
	assert.Equal(t, "*int", formatType(reflect.TypeOf((*int)(nil))))
}

func TestMalformedProviderError_Message(t *testing.T) {
	err := MalformedProviderError{Token: NewToken("t"), Reason: "no provider shape set"}
	assert.Contains(t, err.Error(), "malformed provider for Token(t)")
	assert.Contains(t, err.Error(), "no provider shape set")
}

func TestInvalidRegistrationError_Message(t *testing.T) {
	err := InvalidRegistrationError{Arg: 42}
	assert.Contains(t, err.Error(), "cannot register int")
}

func TestTypeMismatchError_Message(t *testing.T) {
	err := TypeMismatchError{
		Expected: reflect.TypeOf(""),
		Actual:   reflect.TypeOf(0),
		Context:  "type assertion",
	}
	assert.Equal(t, "type assertion: expected string, got int", err.Error())
}
