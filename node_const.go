package mclang

import (
	"fmt"
	"strings"
)

// Scalar is the set of Go types Const/Argument/BufferArgument nodes can
// carry as host-side values — a stand-in for the closed set of
// kernel-source scalar kinds (char/uchar/short/ushort/int/uint/
// long/ulong/float).
type Scalar interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32
}

// scalarType maps a Scalar Go type to its Type, the Go analogue of the
// original's per-type template specialization table
// (MCLANG_TYPE_V/MCLANG_HOST_TYPE macros).
func scalarType[T Scalar]() Type {
	var zero T
	switch any(zero).(type) {
	case int8:
		return TypeChar
	case uint8:
		return TypeUchar
	case int16:
		return TypeShort
	case uint16:
		return TypeUshort
	case int32:
		return TypeInt
	case uint32:
		return TypeUint
	case int64:
		return TypeLong
	case uint64:
		return TypeUlong
	case float32:
		return TypeFloat
	default:
		panic("unreachable: Scalar constraint covers all cases")
	}
}

func formatScalarLiteral(v any) string {
	switch x := v.(type) {
	case int8:
		return formatIntLiteral(8, false, int64(x))
	case uint8:
		return formatIntLiteral(8, true, int64(x))
	case int16:
		return formatIntLiteral(16, false, int64(x))
	case uint16:
		return formatIntLiteral(16, true, int64(x))
	case int32:
		return formatIntLiteral(32, false, int64(x))
	case uint32:
		return formatIntLiteral(32, true, int64(x))
	case int64:
		return formatIntLiteral(64, false, x)
	case uint64:
		return formatIntLiteral(64, true, int64(x))
	case float32:
		return formatFloatLiteral(x)
	default:
		panic(fmt.Sprintf("unsupported const scalar value %#v", v))
	}
}

func formatIntLiteral(bits int, unsigned bool, v int64) string {
	var pattern uint64
	switch bits {
	case 8:
		pattern = uint64(uint8(v))
	case 16:
		pattern = uint64(uint16(v))
	case 32:
		pattern = uint64(uint32(v))
	default:
		pattern = uint64(v)
	}
	suffix := ""
	if bits == 64 {
		if unsigned {
			suffix = "ul"
		} else {
			suffix = "l"
		}
	} else if unsigned {
		suffix = "u"
	}
	return fmt.Sprintf("0x%x%s", pattern, suffix)
}

func formatFloatLiteral(v float32) string {
	return fmt.Sprintf("%ef", float64(v))
}

// Const is a compile-time literal of a scalar kernel type.
type Const[T Scalar] struct {
	base
	value T
}

// Cnst returns a Const node carrying v.
func Cnst[T Scalar](v T) *Const[T] {
	return &Const[T]{base: newBase(), value: v}
}

func (c *Const[T]) Value() T { return c.value }

func (c *Const[T]) Type() Type { return scalarType[T]() }

func (c *Const[T]) EmitGlobal(w *kernelWriter, seen *Seen) {}
func (c *Const[T]) EmitLocal(w *kernelWriter, seen *Seen)  {}

func (c *Const[T]) EmitValue(w *kernelWriter, seen *Seen) {
	w.write(formatScalarLiteral(c.value))
}

func (c *Const[T]) PushSignature(sig *Signature) {}
func (c *Const[T]) BindValues(b *Binder)         {}

// ConstVector is a compile-time literal of a vector kernel type (e.g.
// `cnst(vector(2, float){1.0f, 2.0f})`), emitted as a parenthesized
// comma list of its element literals.
type ConstVector[T Scalar] struct {
	base
	values []T
}

// CnstVector returns a ConstVector node carrying values. len(values)
// must be 2, 4, 8, or 16.
func CnstVector[T Scalar](values []T) *ConstVector[T] {
	switch len(values) {
	case 2, 4, 8, 16:
	default:
		panic("vector constant must have 2, 4, 8, or 16 elements")
	}
	cp := make([]T, len(values))
	copy(cp, values)
	return &ConstVector[T]{base: newBase(), values: cp}
}

func (c *ConstVector[T]) Values() []T { return c.values }

func (c *ConstVector[T]) Type() Type {
	return Vector(len(c.values), scalarType[T]())
}

func (c *ConstVector[T]) EmitGlobal(w *kernelWriter, seen *Seen) {}
func (c *ConstVector[T]) EmitLocal(w *kernelWriter, seen *Seen)  {}

func (c *ConstVector[T]) EmitValue(w *kernelWriter, seen *Seen) {
	parts := make([]string, len(c.values))
	for i, v := range c.values {
		parts[i] = formatScalarLiteral(v)
	}
	w.write("(")
	w.write(strings.Join(parts, ", "))
	w.write(")")
}

func (c *ConstVector[T]) PushSignature(sig *Signature) {}
func (c *ConstVector[T]) BindValues(b *Binder)         {}
