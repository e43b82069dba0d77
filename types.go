package mclang

import (
	"strconv"
	"sync"
)

// Type is a packed type identifier, mirroring the bit-packed scheme of
// the original kernel-source type system: a base kind in the low
// nibble, unsigned/pointer/read/write flags above it, and a vector
// width packed into the high byte. Keeping it an int-like value (rather
// than an enum-per-case sum type) lets promotion and compatibility
// checks operate directly on the bit pattern, the same way the
// original bit-packed scheme and the teacher's opcode-as-int
// instructions (vm_instructions.go) do.
type Type struct {
	id int32
}

const (
	unsignedFlag = 0x10
	pointerFlag  = 0x20
	writeFlag    = 0x40
	readFlag     = 0x80
	vectorShift  = 8
	vectorMask   = 0xFF00
	kindMask     = 0x0F
)

// Base kinds, before any flag or vector width is applied.
const (
	kindVoid int32 = iota
	kindBool
	kindChar
	_ // reserved, unused kind value
	kindShort
	kindInt
	kindLong
	kindPtrdiff
	kindFloat
	kindImage
	kindSampler
)

var (
	TypeVoid    = Type{kindVoid}
	TypeBool    = Type{kindBool}
	TypeChar    = Type{kindChar}
	TypeUchar   = Type{kindChar | unsignedFlag}
	TypeShort   = Type{kindShort}
	TypeUshort  = Type{kindShort | unsignedFlag}
	TypeInt     = Type{kindInt}
	TypeUint    = Type{kindInt | unsignedFlag}
	TypeLong    = Type{kindLong}
	TypeUlong   = Type{kindLong | unsignedFlag}
	TypePtrdiff = Type{kindPtrdiff}
	TypeSize    = Type{kindPtrdiff | unsignedFlag}
	TypeFloat   = Type{kindFloat}
	TypeImageR  = Type{kindImage | readFlag}
	TypeImageW  = Type{kindImage | writeFlag}
	TypeSampler = Type{kindSampler}
)

// ID returns the packed identifier, suitable for use as a map key.
func (t Type) ID() int32 { return t.id }

func (t Type) Equal(o Type) bool { return t.id == o.id }

func (t Type) IsPointer() bool { return t.id&pointerFlag != 0 }

// PointerTo asserts t is a pointer and returns its pointee type.
func (t Type) PointerTo() Type {
	if !t.IsPointer() {
		panic("PointerTo called on a non-pointer type")
	}
	return Type{t.id &^ (pointerFlag | readFlag | writeFlag)}
}

func (t Type) IsVector() bool {
	return !t.IsPointer() && t.id&vectorMask != 0
}

// VectorWidth returns the element count of a vector type (2, 4, 8, or
// 16); it asserts t.IsVector().
func (t Type) VectorWidth() int {
	if !t.IsVector() {
		panic("VectorWidth called on a non-vector type")
	}
	return int(t.id >> vectorShift)
}

// VectorOf asserts t is a vector and returns its element type.
func (t Type) VectorOf() Type {
	if !t.IsVector() {
		panic("VectorOf called on a non-vector type")
	}
	return Type{t.id &^ vectorMask}
}

func (t Type) IsImage() bool { return t.id&kindMask == kindImage }

func (t Type) IsReadable() bool {
	if !t.IsImage() {
		panic("IsReadable called on a non-image type")
	}
	return t.id&readFlag != 0
}

func (t Type) IsWritable() bool {
	if !t.IsImage() {
		panic("IsWritable called on a non-image type")
	}
	return t.id&writeFlag != 0
}

func (t Type) IsNumeric() bool {
	switch t.id &^ unsignedFlag {
	case kindChar, kindShort, kindInt, kindLong, kindFloat, kindPtrdiff:
		return true
	default:
		return false
	}
}

func (t Type) IsInteger() bool {
	switch t.id &^ unsignedFlag {
	case kindChar, kindShort, kindInt, kindLong, kindPtrdiff:
		return true
	default:
		return false
	}
}

func (t Type) IsFloat() bool { return t.id == kindFloat }

// IsSigned asserts t is integer, vector, or float.
func (t Type) IsSigned() bool {
	if !(t.IsInteger() || t.IsVector() || t.IsFloat()) {
		panic("IsSigned called on a non-numeric type")
	}
	return t.id&unsignedFlag == 0 || t.IsFloat()
}

// IsHostCompatible reports whether a value of t can be copied between
// host memory and a kernel argument slot. void, bool, and the
// pointer-sized ptrdiff/size_t kinds are not host-transferable.
func (t Type) IsHostCompatible() bool {
	switch t.id {
	case kindVoid, kindBool, kindPtrdiff, TypeSize.id:
		return false
	default:
		return true
	}
}

// Vector constructs a vector(n, t) type. n must be 2, 4, 8, or 16; t
// must be numeric and neither ptrdiff nor size_t nor bool.
func Vector(n int, t Type) Type {
	switch n {
	case 2, 4, 8, 16:
	default:
		panic("vector size must be 2, 4, 8, or 16")
	}
	if !t.IsNumeric() || t.id&^unsignedFlag == kindPtrdiff {
		panic("vector element type must be numeric and not ptrdiff_t/size_t")
	}
	return Type{int32(n<<vectorShift) | t.id}
}

// Pointer constructs a pointer(t) type ("__global T *"). t must be
// numeric or a vector.
func Pointer(t Type) Type {
	if !(t.IsNumeric() || t.IsVector()) {
		panic("pointer target must be numeric or vector")
	}
	return Type{pointerFlag | t.id}
}

// ToSigned strips the unsigned flag from an integer (or vector of
// integer) type.
func ToSigned(t Type) Type {
	requireIntegerish(t)
	return Type{t.id &^ unsignedFlag}
}

// ToUnsigned sets the unsigned flag on an integer (or vector of
// integer) type.
func ToUnsigned(t Type) Type {
	requireIntegerish(t)
	return Type{t.id | unsignedFlag}
}

func requireIntegerish(t Type) {
	if t.IsInteger() {
		return
	}
	if t.IsVector() && t.VectorOf().IsInteger() {
		return
	}
	panic("ToSigned/ToUnsigned require an integer or vector-of-integer type")
}

// Max implements the `max(T1, T2)` promotion rule of §3:
//  1. equal types promote to themselves;
//  2. two vectors must be identical;
//  3. a vector paired with a scalar promotes to the vector;
//  4. float beats any non-vector, non-float operand;
//  5. between two integers: matching signs promote to the larger kind;
//     mixed signs demote the signed operand to unsigned of its own
//     kind, then take the larger of the two (now-unsigned) kinds.
func Max(t1, t2 Type) Type {
	if t1.Equal(t2) {
		return t1
	}
	if t1.IsVector() && t2.IsVector() {
		panic("Max of two different vector types is not defined")
	}
	if t1.IsVector() {
		return t1
	}
	if t2.IsVector() {
		return t2
	}
	if t1.Equal(TypeFloat) {
		return t1
	}
	if t2.Equal(TypeFloat) {
		return t2
	}
	signed1 := !t1.Equal(TypeBool) && t1.IsSigned()
	signed2 := !t2.Equal(TypeBool) && t2.IsSigned()
	switch {
	case signed1 == signed2:
		if t1.id > t2.id {
			return t1
		}
		return t2
	case signed1:
		t1u := Type{t1.id | unsignedFlag}
		if t1u.id > t2.id {
			return t1u
		}
		return t2
	default: // signed2
		t2u := Type{t2.id | unsignedFlag}
		if t1.id > t2u.id {
			return t1
		}
		return t2u
	}
}

var typeNames sync.Map // int32 -> string, memoized; write-once per id, read-many

func init() {
	for id, name := range map[int32]string{
		TypeVoid.id: "void", TypeBool.id: "bool", TypeChar.id: "char",
		TypeUchar.id: "uchar", TypeShort.id: "short", TypeUshort.id: "ushort",
		TypeInt.id: "int", TypeUint.id: "uint", TypeLong.id: "long",
		TypeUlong.id: "ulong", TypePtrdiff.id: "ptrdiff_t", TypeSize.id: "size_t",
		TypeFloat.id: "float", TypeImageR.id: "read_only image2d_t",
		TypeImageW.id: "write_only image2d_t", TypeSampler.id: "sampler_t",
	} {
		typeNames.Store(id, name)
	}
}

// Name returns the canonical kernel-source spelling of t, e.g. "uchar",
// "int4", "__global float *", "read_only image2d_t". Composed names
// (vectors, pointers) are computed once and memoized.
func (t Type) Name() string {
	if name, ok := typeNames.Load(t.id); ok {
		return name.(string)
	}
	var name string
	switch {
	case t.IsVector():
		name = t.VectorOf().Name() + strconv.Itoa(t.VectorWidth())
	case t.IsPointer():
		name = "__global " + t.PointerTo().Name() + " *"
	default:
		panic("type has no canonical name")
	}
	typeNames.Store(t.id, name)
	return name
}
