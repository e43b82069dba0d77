package layer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/monkin/mclang"
)

// stubLayer is the minimal concrete Layer used to exercise Base: it
// adds nothing beyond what Base already implements via embedding.
type stubLayer struct {
	Base
	mask Mask
}

func newStubLayer(ctx Context, mask Mask, argSpecs map[string]Mask) *stubLayer {
	l := &stubLayer{mask: mask}
	l.Init(l, ctx, mask, argSpecs)
	return l
}

func (l *stubLayer) Mask() Mask                             { return l.mask }
func (l *stubLayer) Compute(workSize [3]int) mclang.Expression { return nil }

func TestCompatibleMask(t *testing.T) {
	require.True(t, Compatible(MaskAny, MaskFloat))
	require.True(t, Compatible(MaskFloat, MaskFloat))
	require.False(t, Compatible(MaskFloat, MaskColor))
	require.True(t, Compatible(MaskFloat|MaskColor, MaskColor))
}

func TestArgumentLookupNotFound(t *testing.T) {
	l := newStubLayer(Context{}, MaskAny, nil)
	_, err := l.Argument("missing")
	require.Error(t, err)
	require.IsType(t, NotFoundError{}, err)
}

func TestArgumentSetValueRejectsIncompatibleMask(t *testing.T) {
	parent := newStubLayer(Context{}, MaskAny, map[string]Mask{"in": MaskFloat})
	child := newStubLayer(Context{}, MaskColor, nil)

	arg, err := parent.Argument("in")
	require.NoError(t, err)
	require.Panics(t, func() { arg.SetValue(child) })
}

func TestArgumentSetValueBumpsVersionAndWiresParent(t *testing.T) {
	parent := newStubLayer(Context{}, MaskAny, map[string]Mask{"in": MaskFloat})
	child := newStubLayer(Context{}, MaskFloat, nil)

	v0 := parent.Version()
	arg, err := parent.Argument("in")
	require.NoError(t, err)
	arg.SetValue(child)

	require.Greater(t, parent.Version(), v0)
	require.Equal(t, child, arg.Value())
	require.Equal(t, Layer(parent), child.parentOf())
}

func TestArgumentSetValueAllowsIncompatibleMaskWhenStrictMasksOff(t *testing.T) {
	cfg := mclang.NewConfig()
	cfg.SetBool("layer.strict_masks", false)

	parent := newStubLayer(Context{Config: cfg}, MaskAny, map[string]Mask{"in": MaskFloat})
	child := newStubLayer(Context{}, MaskColor, nil)

	arg, err := parent.Argument("in")
	require.NoError(t, err)
	require.NotPanics(t, func() { arg.SetValue(child) })
	require.Equal(t, child, arg.Value())
}

func TestResetCacheFromChildLeavesParentVersionUnchanged(t *testing.T) {
	parent := newStubLayer(Context{}, MaskAny, map[string]Mask{"in": MaskFloat})
	child := newStubLayer(Context{}, MaskFloat, nil)

	arg, err := parent.Argument("in")
	require.NoError(t, err)
	arg.SetValue(child)

	v0 := parent.Version()
	child.SetPosition(nil)
	require.Equal(t, v0, parent.Version(), "ResetCache alone must not bump version, only propagate")
}
