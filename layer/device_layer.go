package layer

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/monkin/mclang"
	"github.com/monkin/mclang/driver"
)

// kernelSlot holds one submitted kernel's compiled program and, once
// the build completes, either its compiled Kernel handle or the build
// failure that prevented one from existing.
type kernelSlot struct {
	program driver.Program
	kernel  driver.Kernel
	err     error
}

// DeviceLayer is a Layer whose compute(workSize) dispatches one or
// more named kernels to a device. Expressions declares the kernel
// source trees a concrete device layer contributes; Build compiles
// all of them concurrently via errgroup and Kernel blocks callers
// until the one they asked for is ready.
//
// Grounded on the build/kernel/reset_cache state machine of
// layer.cpp's DeviceLayer: a build_started/build_finished pair guarded
// by one mutex, with waiters parked on a condition variable until the
// last compile finishes.
type DeviceLayer struct {
	Base

	driver  driver.Driver
	builder *mclang.Builder

	mu            sync.Mutex
	cond          *sync.Cond
	buildStarted  bool
	buildFinished bool
	kernels       map[string]*kernelSlot
}

// Expressions returns the named kernel source trees this device layer
// builds. Concrete device layers supply this; DeviceLayer itself holds
// none.
type Expressions interface {
	Expressions() map[string]mclang.Expression
}

// InitDevice wires self, its context, mask, and arguments the same way
// Base.Init does, and additionally records the Driver used to compile
// and the Builder used to lower expressions to source. Concrete device
// layer constructors call this instead of Base.Init.
func (d *DeviceLayer) InitDevice(self Layer, ctx Context, mask Mask, argSpecs map[string]Mask, drv driver.Driver, builder *mclang.Builder) {
	d.Base.Init(self, ctx, mask, argSpecs)
	d.driver = drv
	d.builder = builder
	d.cond = sync.NewCond(&d.mu)
	d.kernels = make(map[string]*kernelSlot)
}

// Build recursively builds bound child layers (via Base.Build), then —
// if not already started — submits one compile per expression returned
// by the owning Layer's Expressions(). With "build.async" on (the
// default) the compiles run concurrently and Build does not block for
// completion; call Kernel to wait for a specific kernel. With it off,
// every compile finishes before Build returns.
func (d *DeviceLayer) Build() error {
	if err := d.Base.Build(); err != nil {
		return err
	}

	d.mu.Lock()
	if d.buildStarted {
		d.mu.Unlock()
		return nil
	}
	d.buildStarted = true
	self := d.self
	d.mu.Unlock()

	ex, ok := self.(Expressions)
	if !ok {
		d.finishBuild()
		return nil
	}
	exprs := ex.Expressions()
	slog.Info("DeviceLayer.Build", "kernelCount", len(exprs))

	if d.async() {
		g, _ := errgroup.WithContext(context.Background())
		for name, expr := range exprs {
			name, expr := name, expr
			g.Go(func() error {
				d.compileOne(name, expr)
				return nil
			})
		}
		go func() {
			_ = g.Wait()
			d.finishBuild()
		}()
		return nil
	}

	for name, expr := range exprs {
		d.compileOne(name, expr)
	}
	d.finishBuild()
	return nil
}

// async reports whether kernel compiles should run concurrently, per
// the layer's Context.Config ("build.async", default true).
func (d *DeviceLayer) async() bool {
	cfg := d.ctx.Config
	if cfg == nil {
		return true
	}
	return cfg.GetBool("build.async")
}

// compileOne submits and builds a single named kernel, recording its
// outcome in d.kernels regardless of success or failure.
func (d *DeviceLayer) compileOne(name string, expr mclang.Expression) {
	src := d.builder.Build(expr)
	program, err := d.driver.NewProgram(d.ctx.Context.(driver.Context), src)
	if err != nil {
		slog.Error("DeviceLayer.Build NewProgram", "kernel", name, "error", err)
		d.setKernel(name, nil, nil, err)
		return
	}
	if err := d.driver.BuildProgram(program, ""); err != nil {
		slog.Error("DeviceLayer.Build BuildProgram", "kernel", name, "error", err)
		d.setKernel(name, program, nil, err)
		return
	}
	kernel, err := d.driver.KernelByName(program, name)
	if err != nil {
		slog.Error("DeviceLayer.Build KernelByName", "kernel", name, "error", err)
	} else {
		slog.Info("DeviceLayer.Build kernel ready", "kernel", name)
	}
	d.setKernel(name, program, kernel, err)
}

func (d *DeviceLayer) setKernel(name string, program driver.Program, kernel driver.Kernel, err error) {
	d.mu.Lock()
	d.kernels[name] = &kernelSlot{program: program, kernel: kernel, err: err}
	d.mu.Unlock()
}

func (d *DeviceLayer) finishBuild() {
	d.mu.Lock()
	d.buildFinished = true
	d.cond.Broadcast()
	d.mu.Unlock()
}

// Kernel starts a build if none is in flight, blocks until it
// completes, and returns the named kernel's compiled handle. Returns
// BuildError if that kernel's program failed to compile, or
// NotFoundError if no expression of that name was ever submitted.
func (d *DeviceLayer) Kernel(name string) (driver.Kernel, error) {
	if err := d.self.(interface{ Build() error }).Build(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	for !d.buildFinished {
		d.cond.Wait()
	}
	slot, ok := d.kernels[name]
	d.mu.Unlock()

	if !ok {
		return nil, NotFoundError{Name: name, Kind: "kernel"}
	}
	if slot.err != nil {
		return nil, BuildError{Name: name, Program: slot.program}
	}
	return slot.kernel, nil
}

// ResetCache waits for any in-flight build to finish, propagates the
// reset up the parent chain, and clears this layer's build state so
// the next Build recompiles from scratch.
func (d *DeviceLayer) ResetCache() {
	d.mu.Lock()
	for d.buildStarted && !d.buildFinished {
		d.cond.Wait()
	}
	d.mu.Unlock()

	d.Base.ResetCache()

	d.mu.Lock()
	d.buildStarted = false
	d.buildFinished = false
	d.kernels = make(map[string]*kernelSlot)
	d.mu.Unlock()
}
