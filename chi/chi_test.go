package chi_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knit-go/knit"
	knitchi "github.com/knit-go/knit/chi"
)

type greeter struct {
	prefix string
}

func TestMiddleware_RequestScope(t *testing.T) {
	greeterToken := knit.NewToken("greeter")
	root := knit.MustNew(knit.Value(greeterToken, &greeter{prefix: "hello"}))

	r := chi.NewRouter()
	r.Use(knitchi.Middleware(root))
	r.Get("/greet", func(w http.ResponseWriter, req *http.Request) {
		scope := knitchi.FromContext(req.Context())
		require.NotNil(t, scope)
		assert.NotEqual(t, root.ID(), scope.ID())

		// The parent's providers resolve through the child.
		g, err := knit.Resolve[*greeter](scope, greeterToken)
		require.NoError(t, err)

		// The request itself is injectable.
		got, err := knit.Resolve[*http.Request](scope, knitchi.RequestToken)
		require.NoError(t, err)
		assert.Equal(t, "/greet", got.URL.Path)

		_, _ = w.Write([]byte(g.prefix))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/greet", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

func TestMiddleware_ScopesAreIndependent(t *testing.T) {
	root := knit.MustNew()
	counterToken := knit.NewToken("counter")

	seen := make(map[string]bool)

	r := chi.NewRouter()
	r.Use(knitchi.Middleware(root, knitchi.WithProviders(func(req *http.Request) []any {
		return []any{knit.Value(counterToken, new(int))}
	})))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		scope := knitchi.FromContext(req.Context())
		seen[scope.ID()] = true

		c := knit.MustResolve[*int](scope, counterToken)
		*c++
		assert.Equal(t, 1, *c)
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Len(t, seen, 3, "each request should get its own scope")
}

func TestMiddleware_ErrorHandler(t *testing.T) {
	root := knit.MustNew()

	var handled error
	mw := knitchi.Middleware(root,
		knitchi.WithProviders(func(req *http.Request) []any {
			// A nil-token record fails registration.
			return []any{knit.Provide{UseValue: "bad"}}
		}),
		knitchi.WithErrorHandler(func(w http.ResponseWriter, req *http.Request, err error) {
			handled = err
			w.WriteHeader(http.StatusServiceUnavailable)
		}),
	)

	r := chi.NewRouter()
	r.Use(mw)
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("handler should not run")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var regErr knit.RegistrationError
	require.True(t, errors.As(handled, &regErr))
	assert.ErrorIs(t, regErr, knit.ErrTokenNil)
}

func TestFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, knitchi.FromContext(req.Context()))
}
