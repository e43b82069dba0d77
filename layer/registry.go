package layer

import (
	"log/slog"
	"sync"

	"github.com/monkin/mclang"
	"github.com/monkin/mclang/driver"
)

// LayerFactory constructs a fresh Layer of one concrete kind, wired
// against ctx and, for device layers, the Driver/Builder pair it
// compiles kernels with. Concrete layer packages register one of
// these per kind in an init() function.
type LayerFactory func(ctx Context, drv driver.Driver, builder *mclang.Builder) (Layer, error)

var (
	registryMu sync.Mutex
	registry   = map[string]LayerFactory{}
)

// Register adds factory under name, overwriting any prior registration
// for that name. Called from concrete layer packages' init() functions,
// mirroring the teacher's table-driven registration-by-init pattern.
func Register(name string, factory LayerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		slog.Warn("layer.Register overwriting prior factory", "name", name)
	}
	registry[name] = factory
}

// Create looks up the factory registered under name and invokes it,
// raising NotFoundError if no such kind was ever registered.
func Create(name string, ctx Context, drv driver.Driver, builder *mclang.Builder) (Layer, error) {
	registryMu.Lock()
	factory, ok := registry[name]
	registryMu.Unlock()
	if !ok {
		return nil, NotFoundError{Name: name, Kind: "layer"}
	}
	return factory(ctx, drv, builder)
}
