package meta

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conn struct{}

type taggedService struct {
	DB      *conn `inject:""`
	Cache   *conn `inject:"optional"`
	Spaced  *conn `inject:" optional "`
	Dashed  *conn `inject:"-"`
	Ignored *conn
}

func (s *taggedService) Init() {}

type badFlagService struct {
	DB *conn `inject:"eager"`
}

type unexportedService struct {
	db *conn `inject:""`
}

type hookless struct {
	DB *conn `inject:""`
}

// Init takes an argument, so it does not qualify as the fallback hook.
type wrongArityHook struct{}

func (wrongArityHook) Init(n int) {}

func TestFromTags(t *testing.T) {
	r := NewRegistry()

	info, err := r.Resolve(ptrType[taggedService]())
	require.NoError(t, err)

	require.Len(t, info.Fields, 4)

	db := info.Fields["DB"]
	assert.Equal(t, ptrType[conn](), db.Token)
	assert.False(t, db.Optional)

	assert.True(t, info.Fields["Cache"].Optional)
	assert.True(t, info.Fields["Spaced"].Optional, "flags are trimmed before matching")
	assert.False(t, info.Fields["Dashed"].Optional)

	_, tagged := info.Fields["Ignored"]
	assert.False(t, tagged, "untagged fields are skipped")

	// FieldOrder is sorted by name, matching the registered dialect.
	assert.Equal(t, []string{"Cache", "DB", "Dashed", "Spaced"}, info.FieldOrder)

	assert.Equal(t, []string{"Init"}, info.Hooks)
}

func TestFromTags_UnknownFlag(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve(ptrType[badFlagService]())

	var tagErr *InvalidTagError
	require.True(t, errors.As(err, &tagErr))
	assert.Equal(t, "DB", tagErr.Field)
	assert.Equal(t, "eager", tagErr.Flag)
}

func TestFromTags_UnexportedField(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve(ptrType[unexportedService]())

	var classErr *InvalidClassError
	require.True(t, errors.As(err, &classErr))
	assert.Contains(t, classErr.Reason, "db")
}

func TestFromTags_NoHook(t *testing.T) {
	r := NewRegistry()

	info, err := r.Resolve(ptrType[hookless]())
	require.NoError(t, err)
	assert.Empty(t, info.Hooks)
}

func TestFromTags_HookArity(t *testing.T) {
	r := NewRegistry()

	info, err := r.Resolve(ptrType[wrongArityHook]())
	require.NoError(t, err)
	assert.Empty(t, info.Hooks)
}

func TestFromTags_NonStruct(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve(typeOf[int]())

	var classErr *InvalidClassError
	require.True(t, errors.As(err, &classErr))
}
