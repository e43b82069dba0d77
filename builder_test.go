package mclang

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderScalarDoubling(t *testing.T) {
	buf := ArgBuf[float32](nil)
	gid := GetGlobalID(0)
	element := Select(buf, gid)
	tree := SetValue(element, Mul(element, Cnst(float32(2))))

	src := NewBuilder("  ").Build(tree)
	require.Contains(t, src, "kernel void main_kernel(")
	require.Contains(t, src, "__global float *")
	require.Regexp(t, `\w+\[get_global_id\(0x0u\)\] = \(\w+\[get_global_id\(0x0u\)\] \* 2\.000000e\+00f\);`, src)
}

func TestBuilderMemoizesByIdentity(t *testing.T) {
	b := NewBuilder("  ")
	tree := Cnst(float32(1))

	require.Equal(t, 0, b.Stats().CachedCount)
	first := b.Build(tree)
	require.Equal(t, 1, b.Stats().CachedCount)

	second := b.Build(tree)
	require.Equal(t, first, second)
	require.Equal(t, 1, b.Stats().CachedCount)
}

func TestBuilderArgumentDedupProducesOneSignatureEntry(t *testing.T) {
	a := Arg(int32(5))
	tree := Add(a, a)

	src := NewBuilder("  ").Build(tree)
	require.Equal(t, 1, strings.Count(src, "int "))
}

func TestBuilderVectorPromotion(t *testing.T) {
	tree := Add(Cnst(int32(1)), CnstVector([]float32{1, 2}))
	require.Equal(t, Vector(2, TypeFloat), tree.Type())

	src := NewBuilder("  ").Build(tree)
	require.Contains(t, src, "(0x1 + (1.000000e+00f, 2.000000e+00f))")
}
