// Package chi provides knit integration for the Chi router.
//
// It offers middleware that creates a request-scoped child injector for each
// request, attached to the request context, so handlers resolve per-request
// services through the usual hierarchy.
//
// Example usage:
//
//	injector := knit.MustNew(AppModule)
//
//	r := chi.NewRouter()
//	r.Use(knitchi.Middleware(injector))
//
//	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
//	    scope := knitchi.FromContext(r.Context())
//	    users := knit.MustResolve[*UserService](scope, knit.TypeOf[*UserService]())
//	    ...
//	})
package chi

import (
	"context"
	"net/http"

	"github.com/knit-go/knit"
)

type contextKey struct{}

// Config holds the configuration for the scope middleware.
type Config struct {
	// ErrorHandler is called when child injector creation fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// Providers returns extra providers registered on each request's
	// child injector, typically request-derived values.
	Providers func(r *http.Request) []any
}

// Option configures the scope middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for child injector creation
// failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithProviders sets a callback producing extra per-request providers.
func WithProviders(fn func(r *http.Request) []any) Option {
	return func(c *Config) {
		c.Providers = fn
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// RequestToken is the token each request-scoped injector registers the
// current *http.Request under.
var RequestToken = knit.TypeOf[*http.Request]()

// Middleware creates a Chi middleware that creates a request-scoped child
// injector for each request. The child is attached to the request context
// and can be retrieved with FromContext.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(knitchi.Middleware(injector))
func Middleware(root *knit.Injector, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			providers := []any{knit.Value(RequestToken, r)}
			if cfg.Providers != nil {
				providers = append(providers, cfg.Providers(r)...)
			}

			scope, err := root.CreateChild(providers...)
			if err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request-scoped injector attached by Middleware,
// or nil when none is present.
func FromContext(ctx context.Context) *knit.Injector {
	scope, _ := ctx.Value(contextKey{}).(*knit.Injector)
	return scope
}
