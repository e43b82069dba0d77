package layer

import "fmt"

// NotFoundError is raised when an Argument lookup or a LayerRegistry/
// DeviceLayer kernel-name lookup names something that was never
// registered.
type NotFoundError struct {
	Name string
	Kind string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// MaskError is raised when SetValue binds a Layer whose declared Mask
// does not intersect the Argument's accepted mask.
type MaskError struct {
	Argument string
}

func (e MaskError) Error() string {
	return fmt.Sprintf("argument %q does not accept this layer's mask", e.Argument)
}

// BuildError is raised by DeviceLayer.Kernel when a named kernel's
// program failed to compile; Program carries the driver program handle
// so the caller can fetch the compiler log.
type BuildError struct {
	Name    string
	Program any
}

func (e BuildError) Error() string {
	return fmt.Sprintf("kernel %q failed to build", e.Name)
}
