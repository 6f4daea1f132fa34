package knit

// ModuleOption represents a registration action within a module.
type ModuleOption func(*Injector) error

// NewModule creates a named group of related registrations. Modules nest,
// and any registration failure is wrapped in a ModuleError naming the
// module.
//
// Example:
//
//	var DatabaseModule = knit.NewModule("database",
//	    knit.Use(knit.Value(ConnString, "postgres://localhost/app")),
//	    knit.Use(knit.Factory(knit.TypeOf[*Pool](), NewPool, knit.Dep{Token: ConnString})),
//	)
//
//	var AppModule = knit.NewModule("app",
//	    DatabaseModule,
//	    knit.Register((*Server)(nil)),
//	)
//
//	injector, err := knit.New(AppModule)
func NewModule(name string, opts ...ModuleOption) ModuleOption {
	return func(in *Injector) error {
		for _, opt := range opts {
			if opt == nil {
				continue
			}

			if err := opt(in); err != nil {
				return ModuleError{Module: name, Cause: err}
			}
		}

		return nil
	}
}

// Use creates a ModuleOption registering the given provider records.
func Use(providers ...Provide) ModuleOption {
	return func(in *Injector) error {
		for _, p := range providers {
			if err := in.Register(p); err != nil {
				return err
			}
		}
		return nil
	}
}

// Register creates a ModuleOption registering arbitrary provider arguments,
// including bare class references.
func Register(providers ...any) ModuleOption {
	return func(in *Injector) error {
		for _, p := range providers {
			if err := in.Register(p); err != nil {
				return err
			}
		}
		return nil
	}
}

// Apply runs modules against an existing injector.
func (in *Injector) Apply(opts ...ModuleOption) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(in); err != nil {
			return err
		}
	}

	return nil
}
