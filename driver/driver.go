// Package driver defines the Driver capability the mclang core
// consumes from a vendor GPU backend: platform/device/context/buffer/
// image/sampler/program/kernel/queue operations. No real OpenCL/CUDA
// binding lives here — that is explicitly out of scope; mclang/driver
// only fixes the interface, and mclang/driver/memdriver supplies an
// in-memory fake for tests and examples.
package driver

import (
	"fmt"

	"github.com/monkin/mclang"
)

// Platform, Device, Context, Buffer, Image, Sampler, Program, Kernel,
// and Queue are opaque, reference-counted handles. Retain/Release
// adjust a handle's reference count; multiple host-side values may
// share one handle.
type (
	Platform interface{ handle }
	Device   interface{ handle }
	Context  interface{ handle }
	Image    interface{ handle }
	Sampler  interface{ handle }
	Program  interface{ handle }
	Queue    interface{ handle }
)

type handle interface {
	Retain()
	Release()
}

// Buffer is a reference-counted region of device memory of a fixed
// byte size.
type Buffer interface {
	handle
	Size() int
}

// Kernel is a compiled kernel entry point; SetArg pushes a host-side
// value (scalar, Buffer, Image, or Sampler) into parameter slot index.
// mclang.ArgSetter is satisfied by any Kernel.
type Kernel interface {
	handle
	SetArg(index int, value any) error
}

// BufferAccess and ImageAccess describe how a buffer or image will be
// used by enqueued kernels.
type BufferAccess int

const (
	AccessReadOnly BufferAccess = iota
	AccessWriteOnly
	AccessReadWrite
)

type ImageAccess int

const (
	ImageAccessReadOnly ImageAccess = iota
	ImageAccessWriteOnly
)

// ImageFormat describes an image's channel layout.
type ImageFormat struct {
	Channels int
	Float    bool
}

// BuildStatus is a program's compilation state for a given device.
type BuildStatus int

const (
	BuildPending BuildStatus = iota
	BuildSuccess
	BuildFailure
)

// QueueOptions configures a created Queue.
type QueueOptions struct {
	Ordered bool
	Profile bool
}

// Driver is the full set of operations the mclang core requires from a
// vendor GPU backend, transcribed one-to-one from the external
// interface table: enumeration, resource creation, program build,
// kernel dispatch, and queue control.
type Driver interface {
	Platforms() ([]Platform, error)
	Devices(p Platform) ([]Device, error)
	CreateContext(devices []Device) (Context, error)

	Buffer(ctx Context, size int, access BufferAccess) (Buffer, error)
	Image(ctx Context, format ImageFormat, width, height int, access ImageAccess) (Image, error)
	Sampler(ctx Context, addressing mclang.ImageAddressing, filter mclang.ImageFilter) (Sampler, error)

	NewProgram(ctx Context, source string) (Program, error)
	BuildProgram(p Program, options string) error
	BuildProgramAsync(p Program, options string, done func(BuildStatus)) error
	BuildStatus(p Program, d Device) BuildStatus
	BuildLog(p Program, d Device) string
	KernelByName(p Program, name string) (Kernel, error)

	NewQueue(ctx Context, d Device, opts QueueOptions) (Queue, error)
	EnqueueReadBuffer(q Queue, buf Buffer, hostBytes []byte) error
	EnqueueWriteBuffer(q Queue, buf Buffer, hostBytes []byte) error
	EnqueueReadImage(q Queue, img Image, hostBytes []byte) error
	EnqueueWriteImage(q Queue, img Image, hostBytes []byte) error
	EnqueueKernel(q Queue, k Kernel, workSize [3]int) error
	Barrier(q Queue) error
	Finish(q Queue) error
	Flush(q Queue) error
}

// Error is returned by any Driver call that the vendor backend
// reports as failed.
type Error struct {
	Code    int
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("driver error %d: %s", e.Code, e.Message)
}
