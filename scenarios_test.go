package mclang

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Scenario A — scalar buffer element doubling. driver/memdriver's
// TestEnqueueKernelDoublesRecognizedShape dispatches this kernel shape;
// this checks just the generated source shape.
func TestScenarioAScalarBufferDoubling(t *testing.T) {
	buf := ArgBuf[float32](nil)
	gid := GetGlobalID(0)
	element := Select(buf, gid)
	tree := SetValue(element, Mul(element, Cnst(float32(2))))

	src := NewBuilder("  ").Build(tree)
	require.Contains(t, src, "kernel void main_kernel(__global float *")
	require.Regexp(t, `= \(\w+\[get_global_id\(0x0u\)\] \* 2\.000000e\+00f\)`, src)
}

// Scenario B — conditional write.
func TestScenarioBConditionalWrite(t *testing.T) {
	v := Var[int32](Cnst(int32(0)))
	whenEqual := Cond(Eq(Arg(int32(10)), Cnst(int32(10))), SetValue(v, Cnst(int32(1))), SetValue(v, Cnst(int32(0))))

	src := NewBuilder("  ").Build(whenEqual)
	require.Contains(t, src, "if (")
	require.Contains(t, src, "} else {")
}

func TestScenarioBUnlessInvertsCondition(t *testing.T) {
	v := Var[int32](Cnst(int32(0)))
	unless := Unless(Eq(Cnst(int32(10)), Cnst(int32(10))), SetValue(v, Cnst(int32(0))))

	src := NewBuilder("  ").Build(unless)
	require.Contains(t, src, "if (!(")
}

// Scenario C — vector promotion.
func TestScenarioCVectorPromotion(t *testing.T) {
	tree := Add(Cnst(int32(1)), CnstVector([]float32{1, 2}))
	require.Equal(t, Vector(2, TypeFloat), tree.Type())

	w := newKernelWriter("  ")
	tree.EmitValue(w, NewSeen())
	require.Equal(t, "(0x1 + (1.000000e+00f, 2.000000e+00f))", w.String())
}

// Scenario D — argument dedup.
func TestScenarioDArgumentDedup(t *testing.T) {
	a := Arg(int32(5))
	tree := Add(a, a)

	src := NewBuilder("  ").Build(tree)
	signatureLine := strings.SplitN(src, "\n", 2)[0]
	require.Equal(t, 1, strings.Count(signatureLine, "int "), "shared argument must produce exactly one signature entry")

	setter := newFakeArgSetter()
	require.NoError(t, Bind(tree, setter))
	require.Len(t, setter.values, 1)
	require.Equal(t, int32(5), setter.values[0])
}
