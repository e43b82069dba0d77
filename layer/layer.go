// Package layer implements the composable computation-unit runtime:
// Layer and DeviceLayer wrap mclang Expression trees as reusable,
// versioned, cache-invalidating units, assembled by binding named
// Arguments to other Layers.
package layer

import (
	"sync"

	"github.com/monkin/mclang"
)

// Mask is a bitset over the Argument type classes a Layer can declare
// and accept. compatible(mask1, mask2) = (mask1 & mask2) != 0.
type Mask uint8

const (
	MaskFloat Mask = 1 << iota
	MaskColor
	MaskVector2D

	MaskAny = MaskFloat | MaskColor | MaskVector2D
)

// Compatible reports whether a Layer declaring kind can be bound to an
// Argument accepting accepted.
func Compatible(accepted, kind Mask) bool { return accepted&kind != 0 }

// Layer is a reusable computation unit: a context, an ordered set of
// named Arguments (other Layers), an optional position expression, a
// version counter, and a compute(workSize) producing its output
// expression. Concrete layer types embed Base and supply Compute and
// Mask themselves — the Go analogue of the original's virtual
// compute()/mask(), since Go has no subclassing.
type Layer interface {
	Argument(name string) (*Argument, error)
	SetPosition(pos mclang.Expression)
	Position() mclang.Expression
	Version() int
	IncVersion()
	SetVersion(v int)
	ResetCache()
	Build() error
	Compute(workSize [3]int) mclang.Expression
	Mask() Mask

	setParent(p Layer)
	parentOf() Layer
}

// Context bundles the driver-level handles a Layer computes against.
// The concrete handle types live in mclang/driver; Context stores them
// as `any` here to avoid layer depending on driver's exact handle
// representation (driver is an external collaborator per scope).
//
// Config is optional (nil leaves every knob at its hard-coded default:
// strict mask checks, asynchronous builds). When set, it is consulted
// for "layer.strict_masks" by Argument.SetValue and for "build.async"
// by DeviceLayer.Build.
type Context struct {
	Platform any
	Device   any
	Context  any
	Queue    any
	Config   *mclang.Config
}

// Base implements the shared bookkeeping every concrete Layer needs:
// argument registry, position, version, parent back-pointer, and cache
// reset propagation. Embed it and add Compute/Mask to get a full Layer.
//
// Base needs a reference to the full Layer value it is embedded in (to
// hand to Arguments as their owner, and to children as their parent) —
// Go has no implicit "self" for an embedded struct, so concrete
// constructors call Init with the just-constructed value, the same way
// container/list.Element's neighbors are wired up after construction.
type Base struct {
	mu       sync.Mutex
	self     Layer
	ctx      Context
	mask     Mask
	args     map[string]*Argument
	argOrder []string
	position mclang.Expression
	version  int
	parent   Layer
}

// Init wires self (the concrete Layer embedding this Base) plus its
// context, declared kind mask, and named arguments (each with its own
// accepted mask) into the Base. Must be called once, from the concrete
// layer's constructor, before the layer is used.
func (b *Base) Init(self Layer, ctx Context, mask Mask, argSpecs map[string]Mask) {
	b.self = self
	b.ctx = ctx
	b.mask = mask
	b.args = make(map[string]*Argument, len(argSpecs))
	for name, accepted := range argSpecs {
		b.args[name] = &Argument{name: name, accepted: accepted, owner: self}
		b.argOrder = append(b.argOrder, name)
	}
}

// Context returns the layer's compute context.
func (b *Base) Context() Context { return b.ctx }

func (b *Base) Mask() Mask { return b.mask }

// Argument looks up a declared Argument by name.
func (b *Base) Argument(name string) (*Argument, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.args[name]
	if !ok {
		return nil, NotFoundError{Name: name, Kind: "argument"}
	}
	return a, nil
}

func (b *Base) SetPosition(pos mclang.Expression) {
	b.mu.Lock()
	b.position = pos
	b.mu.Unlock()
	b.ResetCache()
}

func (b *Base) Position() mclang.Expression {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position
}

func (b *Base) Version() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

func (b *Base) IncVersion() {
	b.mu.Lock()
	b.version++
	b.mu.Unlock()
}

func (b *Base) SetVersion(v int) {
	b.mu.Lock()
	b.version = v
	b.mu.Unlock()
}

// ResetCache propagates invalidation up to the root layer. Base itself
// caches nothing (DeviceLayer overrides this to also drop compiled
// kernels), so the default implementation just walks up.
func (b *Base) ResetCache() {
	b.mu.Lock()
	p := b.parent
	b.mu.Unlock()
	if p != nil {
		p.ResetCache()
	}
}

// Build recursively builds every child Argument's bound Layer. Layers
// with no build of their own (pure compositional layers) get this for
// free; DeviceLayer defines its own Build that additionally compiles
// its kernels.
func (b *Base) Build() error {
	for _, child := range b.boundChildren() {
		if err := child.Build(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Base) boundChildren() []Layer {
	b.mu.Lock()
	defer b.mu.Unlock()
	children := make([]Layer, 0, len(b.argOrder))
	for _, name := range b.argOrder {
		if v := b.args[name].Value(); v != nil {
			children = append(children, v)
		}
	}
	return children
}

func (b *Base) setParent(p Layer) {
	b.mu.Lock()
	b.parent = p
	b.mu.Unlock()
}

func (b *Base) parentOf() Layer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parent
}

// Argument is a named, typed slot that may be bound to a child Layer.
// Binding a value sets the child's parent to the owning Layer,
// increments the owner's version, and invalidates cache up the chain.
type Argument struct {
	name     string
	accepted Mask
	owner    Layer
	mu       sync.Mutex
	value    Layer
}

// Name returns the argument's declared name.
func (a *Argument) Name() string { return a.name }

// strictMasks reports whether mask compatibility should be enforced,
// per the owner's Context.Config ("layer.strict_masks", default true).
func (a *Argument) strictMasks() bool {
	cp, ok := a.owner.(interface{ Context() Context })
	if !ok {
		return true
	}
	cfg := cp.Context().Config
	if cfg == nil {
		return true
	}
	return cfg.GetBool("layer.strict_masks")
}

// Value returns the argument's currently bound child Layer, or nil.
func (a *Argument) Value() Layer {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

// SetValue binds child to this argument. child's Mask() must be
// compatible with the argument's accepted mask (nil clears the
// binding and is always accepted), unless the owner's Context.Config
// turns off "layer.strict_masks".
func (a *Argument) SetValue(child Layer) {
	if child != nil && a.strictMasks() && !Compatible(a.accepted, child.Mask()) {
		panic(MaskError{Argument: a.name})
	}
	a.mu.Lock()
	a.value = child
	a.mu.Unlock()
	if child != nil {
		child.setParent(a.owner)
	}
	a.owner.IncVersion()
	a.owner.ResetCache()
}
