package mclang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstEmitsHexLiteral(t *testing.T) {
	c := Cnst(int32(10))
	w := newKernelWriter("  ")
	c.EmitValue(w, NewSeen())
	require.Equal(t, "0xa", w.String())
}

func TestConstFloatEmitsScientificLiteral(t *testing.T) {
	c := Cnst(float32(2))
	w := newKernelWriter("  ")
	c.EmitValue(w, NewSeen())
	require.Equal(t, "2.000000e+00f", w.String())
}

func TestConstVectorRejectsInvalidWidth(t *testing.T) {
	require.Panics(t, func() { CnstVector([]int32{1, 2, 3}) })
	require.NotPanics(t, func() { CnstVector([]int32{1, 2}) })
}

func TestSelectBufferRequiresPointerAndIntegerIndex(t *testing.T) {
	buf := ArgBuf[float32](nil)
	require.Panics(t, func() { Select(Cnst(float32(1)), Cnst(int32(0))) })
	require.Panics(t, func() { Select(buf, Cnst(float32(0))) })
	require.NotPanics(t, func() { Select(buf, Cnst(int32(0))) })
}

func TestSelectBufferIsLvalue(t *testing.T) {
	buf := ArgBuf[float32](nil)
	sel := Select(buf, Cnst(int32(0)))
	require.True(t, sel.IsLvalue())
	require.Equal(t, TypeFloat, sel.Type())
}

func TestSelectVectorLaneOutOfRangePanics(t *testing.T) {
	v := CnstVector([]float32{1, 2})
	require.Panics(t, func() { SelectLane(v, 2) })
	require.NotPanics(t, func() { SelectLane(v, 1) })
}

func TestSetRequiresLvalue(t *testing.T) {
	buf := ArgBuf[float32](nil)
	element := Select(buf, Cnst(int32(0)))
	require.NotPanics(t, func() { SetValue(element, Cnst(float32(1))) })
	require.Panics(t, func() { SetValue(Cnst(float32(1)), Cnst(float32(2))) })
}

func TestConditionalOpRequiresABranch(t *testing.T) {
	require.Panics(t, func() { Cond(Cnst(int32(1)), nil, nil) })
}

func TestConditionalOpEmitValueIsSeenGuarded(t *testing.T) {
	v := Var[int32](nil)
	cond := Unless(Eq(Cnst(int32(1)), Cnst(int32(0))), SetValue(v, Cnst(int32(0))))

	w := newKernelWriter("  ")
	seen := NewSeen()
	cond.EmitValue(w, seen)
	firstLen := w.String()
	cond.EmitValue(w, seen)
	require.Equal(t, firstLen, w.String(), "second EmitValue on the same seen set must be a no-op")
}

func TestCastNoOpWhenSameType(t *testing.T) {
	e := Cnst(float32(1))
	cast := CastTo(e, TypeFloat)
	w := newKernelWriter("  ")
	cast.EmitValue(w, NewSeen())
	require.Equal(t, "1.000000e+00f", w.String())
}

func TestCastVectorUsesConvert(t *testing.T) {
	e := CnstVector([]int32{1, 2})
	cast := CastTo(e, Vector(2, TypeFloat))
	w := newKernelWriter("  ")
	cast.EmitValue(w, NewSeen())
	require.Contains(t, w.String(), "convert_float2(")
}

func TestCastScalarUsesCStyleCast(t *testing.T) {
	e := Cnst(int32(1))
	cast := CastTo(e, TypeFloat)
	w := newKernelWriter("  ")
	cast.EmitValue(w, NewSeen())
	require.Equal(t, "((float) 0x1)", w.String())
}
