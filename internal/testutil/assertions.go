// Package testutil provides shared fixtures and assertion helpers for knit
// tests.
package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knit-go/knit"
)

// AssertResolvable resolves token as T, failing the test on error.
func AssertResolvable[T any](t *testing.T, in *knit.Injector, token any) T {
	t.Helper()

	value, err := knit.Resolve[T](in, token)
	require.NoError(t, err, "failed to resolve %v", token)
	return value
}

// AssertUnresolved asserts that resolving token fails with
// UnresolvedTokenError.
func AssertUnresolved(t *testing.T, in *knit.Injector, token any) {
	t.Helper()

	_, err := in.Get(token)
	require.Error(t, err)

	var unresolved knit.UnresolvedTokenError
	assert.True(t, errors.As(err, &unresolved), "expected UnresolvedTokenError, got %v", err)
}

// AssertCycle asserts that resolving token fails with
// CircularDependencyError and returns it for path inspection.
func AssertCycle(t *testing.T, in *knit.Injector, token any) knit.CircularDependencyError {
	t.Helper()

	_, err := in.Get(token)
	require.Error(t, err)

	var cycle knit.CircularDependencyError
	require.True(t, errors.As(err, &cycle), "expected CircularDependencyError, got %v", err)
	return cycle
}

// AssertSameInstance asserts reference equality between two resolutions.
func AssertSameInstance(t *testing.T, expected, actual any, msgAndArgs ...any) {
	t.Helper()
	assert.Same(t, expected, actual, msgAndArgs...)
}
