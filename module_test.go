package knit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knit-go/knit"
	"github.com/knit-go/knit/internal/testutil"
)

func TestModule_GroupsRegistrations(t *testing.T) {
	host := knit.NewToken("host")
	port := knit.NewToken("port")

	network := knit.NewModule("network",
		knit.Use(
			knit.Value(host, "localhost"),
			knit.Value(port, 5432),
		),
	)

	injector, err := knit.New(network)
	require.NoError(t, err)

	assert.Equal(t, "localhost", injector.MustGet(host))
	assert.Equal(t, 5432, injector.MustGet(port))
}

func TestModule_Nesting(t *testing.T) {
	conn := knit.NewToken("conn")
	pool := knit.NewToken("pool")

	database := knit.NewModule("database",
		knit.Use(knit.Value(conn, "postgres://localhost/app")),
	)

	app := knit.NewModule("app",
		database,
		knit.Use(knit.Factory(pool, func(c any) string {
			return "pool(" + c.(string) + ")"
		}, knit.Dep{Token: conn})),
	)

	injector, err := knit.New(app)
	require.NoError(t, err)

	assert.Equal(t, "pool(postgres://localhost/app)", injector.MustGet(pool))
}

func TestModule_RegisterClasses(t *testing.T) {
	cars := knit.NewModule("cars",
		knit.Register((*testutil.Engine)(nil), (*testutil.Car)(nil)),
	)

	injector, err := knit.New(cars)
	require.NoError(t, err)

	car, err := knit.Resolve[*testutil.Car](injector, knit.TypeOf[*testutil.Car]())
	require.NoError(t, err)
	assert.True(t, car.Started)
}

func TestModule_ErrorNamesModule(t *testing.T) {
	broken := knit.NewModule("outer",
		knit.NewModule("inner",
			knit.Use(knit.Provide{UseValue: 1}),
		),
	)

	_, err := knit.New(broken)
	require.Error(t, err)

	var modErr knit.ModuleError
	require.True(t, errors.As(err, &modErr))
	assert.Equal(t, "outer", modErr.Module)

	// The inner module's name survives in the chain.
	assert.Contains(t, err.Error(), "inner")
	assert.ErrorIs(t, err, knit.ErrTokenNil)
}

func TestModule_Apply(t *testing.T) {
	token := knit.NewToken("applied")
	injector := knit.MustNew()

	require.NoError(t, injector.Apply(
		knit.NewModule("late", knit.Use(knit.Value(token, "late"))),
	))

	assert.Equal(t, "late", injector.MustGet(token))
}

func TestModule_NilOptionsIgnored(t *testing.T) {
	token := knit.NewToken("t")
	module := knit.NewModule("sparse", nil, knit.Use(knit.Value(token, 1)))

	injector, err := knit.New(module)
	require.NoError(t, err)
	assert.Equal(t, 1, injector.MustGet(token))
}
