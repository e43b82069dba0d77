package mclang

import "sync"

// Argument is a host-bindable scalar kernel parameter. Its value is
// mutable (set_value in the original); everything else about an
// Expression node is immutable, so Argument alone guards its payload
// with a mutex.
type Argument[T Scalar] struct {
	base
	mu    sync.Mutex
	value T
}

// Arg returns a new Argument[T] bound to initial.
func Arg[T Scalar](initial T) *Argument[T] {
	return &Argument[T]{base: newBase(), value: initial}
}

// Set rebinds the argument's current host value.
func (a *Argument[T]) Set(v T) {
	a.mu.Lock()
	a.value = v
	a.mu.Unlock()
}

// Get returns the argument's current host value.
func (a *Argument[T]) Get() T {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.value
}

func (a *Argument[T]) Type() Type { return scalarType[T]() }

func (a *Argument[T]) EmitGlobal(w *kernelWriter, seen *Seen) {}
func (a *Argument[T]) EmitLocal(w *kernelWriter, seen *Seen)  {}

func (a *Argument[T]) EmitValue(w *kernelWriter, seen *Seen) {
	w.write(paramName("arg", a.id))
}

func (a *Argument[T]) PushSignature(sig *Signature) {
	sig.Push(a.id, a.Type(), paramName("arg", a.id))
}

func (a *Argument[T]) BindValues(b *Binder) {
	b.Bind(a.id, a.Get())
}

// BufferArgument is a host-bindable __global T * kernel parameter; its
// value is an opaque driver buffer handle rather than a scalar.
type BufferArgument[T Scalar] struct {
	base
	mu     sync.Mutex
	handle any
}

// ArgBuf returns a new BufferArgument[T] bound to handle (expected to
// be a mclang/driver.Buffer at dispatch time).
func ArgBuf[T Scalar](handle any) *BufferArgument[T] {
	return &BufferArgument[T]{base: newBase(), handle: handle}
}

// Set rebinds the argument's current buffer handle.
func (a *BufferArgument[T]) Set(handle any) {
	a.mu.Lock()
	a.handle = handle
	a.mu.Unlock()
}

// Handle returns the argument's current buffer handle.
func (a *BufferArgument[T]) Handle() any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handle
}

func (a *BufferArgument[T]) Type() Type { return Pointer(scalarType[T]()) }

func (a *BufferArgument[T]) EmitGlobal(w *kernelWriter, seen *Seen) {}
func (a *BufferArgument[T]) EmitLocal(w *kernelWriter, seen *Seen)  {}

func (a *BufferArgument[T]) EmitValue(w *kernelWriter, seen *Seen) {
	w.write(paramName("buf", a.id))
}

func (a *BufferArgument[T]) PushSignature(sig *Signature) {
	sig.Push(a.id, a.Type(), paramName("buf", a.id))
}

func (a *BufferArgument[T]) BindValues(b *Binder) {
	b.Bind(a.id, a.Handle())
}

// ImageArgument is a host-bindable image2d_t kernel parameter, either
// read-only or write-only (never both, per §3's image invariant).
type ImageArgument struct {
	base
	mu       sync.Mutex
	handle   any
	writable bool
}

// ArgImageR returns a read-only ImageArgument bound to handle
// (expected to be a mclang/driver.Image at dispatch time).
func ArgImageR(handle any) *ImageArgument {
	return &ImageArgument{base: newBase(), handle: handle, writable: false}
}

// ArgImageW returns a write-only ImageArgument bound to handle.
func ArgImageW(handle any) *ImageArgument {
	return &ImageArgument{base: newBase(), handle: handle, writable: true}
}

// Set rebinds the argument's current image handle.
func (a *ImageArgument) Set(handle any) {
	a.mu.Lock()
	a.handle = handle
	a.mu.Unlock()
}

// Handle returns the argument's current image handle.
func (a *ImageArgument) Handle() any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.handle
}

func (a *ImageArgument) Type() Type {
	if a.writable {
		return TypeImageW
	}
	return TypeImageR
}

func (a *ImageArgument) EmitGlobal(w *kernelWriter, seen *Seen) {}
func (a *ImageArgument) EmitLocal(w *kernelWriter, seen *Seen)  {}

func (a *ImageArgument) EmitValue(w *kernelWriter, seen *Seen) {
	w.write(paramName("img", a.id))
}

func (a *ImageArgument) PushSignature(sig *Signature) {
	sig.Push(a.id, a.Type(), paramName("img", a.id))
}

func (a *ImageArgument) BindValues(b *Binder) {
	b.Bind(a.id, a.Handle())
}
