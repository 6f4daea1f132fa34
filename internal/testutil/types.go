package testutil

import (
	"github.com/knit-go/knit"
)

// Fixture types shared by the black-box tests. Metadata for the car fixture
// is registered once at package load; tokens are fresh per variable so tests
// never collide through the registry.

// Engine is a leaf dependency with no metadata of its own.
type Engine struct {
	Cylinders int
}

func NewEngine() *Engine {
	return &Engine{Cylinders: 4}
}

// Radio is an optionally injected accessory.
type Radio struct {
	Station string
}

// Car exercises the full lifecycle: constructor injection, field
// autowiring, and a post-construct hook.
type Car struct {
	Engine  *Engine
	Radio   *Radio
	Started bool
}

func NewCar(engine *Engine) *Car {
	return &Car{Engine: engine}
}

func (c *Car) Start() {
	c.Started = true
}

// RadioToken keys the optional radio accessory.
var RadioToken = knit.NewToken("radio")

func init() {
	knit.MustRegisterClass(&knit.ClassMeta{
		Type:        knit.TypeOf[*Car](),
		Constructor: NewCar,
		Params:      []knit.Dep{{Token: knit.TypeOf[*Engine]()}},
		Fields:      map[string]knit.Dep{"Radio": {Token: RadioToken, Optional: true}},
		Hooks:       []string{"Start"},
	})
	knit.MustRegisterClass(&knit.ClassMeta{
		Type:        knit.TypeOf[*Engine](),
		Constructor: NewEngine,
	})
}

// NewCarFixture builds an injector wired with the car fixture classes.
func NewCarFixture(extra ...any) *knit.Injector {
	providers := []any{
		(*Engine)(nil),
		(*Car)(nil),
	}
	providers = append(providers, extra...)
	return knit.MustNew(providers...)
}
