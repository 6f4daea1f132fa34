// Package knit provides a hierarchical, token-based dependency injection
// container for Go applications. Providers are registered against arbitrary
// tokens (identity objects, reflect.Types, strings) and resolved into fully
// constructed object graphs, with transitive dependency resolution, cycle
// detection, parent/child injector scoping, and post-construction lifecycle
// hooks.
//
// # Overview
//
// knit offers:
//   - Four provider kinds: class, factory, value, and alias providers
//   - Token-based registration for multiple entries of the same Go type
//   - Hierarchical injectors with parent delegation and child scoping
//   - Multi-providers that accumulate entries across the hierarchy
//   - Optional, lazy, self, and skip-self resolution policies per dependency
//   - Two-phase construction: instantiate, autowire fields, then run hooks
//   - Cycle detection with a readable resolution path in the error
//
// # Basic Usage
//
// Create an injector, register providers, and resolve:
//
//	var ConnString = knit.NewToken("db-connection")
//
//	injector, err := knit.New(
//	    knit.Value(ConnString, "postgres://localhost/app"),
//	    knit.Factory(knit.TypeOf[*Database](), NewDatabase, knit.Dep{Token: ConnString}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	db, err := knit.Resolve[*Database](injector, knit.TypeOf[*Database]())
//
// # Class Providers
//
// Struct types become class providers. Their injection metadata (constructor
// parameters, injected fields, post-construct hooks) is declared in a
// process-scoped registry:
//
//	knit.RegisterClass(&knit.ClassMeta{
//	    Type:        knit.TypeOf[*Car](),
//	    Constructor: NewCar,
//	    Params:      []knit.Dep{{Token: knit.TypeOf[*Engine]()}},
//	    Fields:      map[string]knit.Dep{"Radio": {Token: RadioToken, Optional: true}},
//	    Hooks:       []string{"Start"},
//	})
//
// Types without registered metadata fall back to `inject` struct tags and an
// Init method, so simple services need no registration at all:
//
//	type Server struct {
//	    DB     *Database `inject:""`
//	    Backup *Database `inject:"optional"`
//	}
//
// # Hierarchy
//
// Child injectors resolve locally first and delegate misses to their parent.
// Per-dependency policies refine this: Self stops delegation, SkipSelf skips
// the local registry, Optional turns a miss into nil, and Lazy defers the
// whole lookup behind a thunk (which is also how dependency cycles are
// broken).
//
// # Concurrency
//
// Resolution carries its in-flight state through the call tree, so a single
// Injector may serve concurrent Get calls. Registration is not synchronized
// with resolution: configure an injector before sharing it.
package knit
