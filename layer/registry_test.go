package layer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/monkin/mclang"
	"github.com/monkin/mclang/driver"
)

func TestCreateUnregisteredKindReturnsNotFound(t *testing.T) {
	_, err := Create("no-such-kind", Context{}, nil, nil)
	require.Error(t, err)
	require.IsType(t, NotFoundError{}, err)
}

func TestRegisterCreateRoundTrip(t *testing.T) {
	want := newStubLayer(Context{}, MaskAny, nil)
	Register("registry-test-stub", func(ctx Context, drv driver.Driver, builder *mclang.Builder) (Layer, error) {
		return want, nil
	})

	got, err := Create("registry-test-stub", Context{}, nil, nil)
	require.NoError(t, err)
	require.Same(t, Layer(want), got)
}

func TestRegisterOverwritesPriorFactory(t *testing.T) {
	Register("registry-test-overwrite", func(ctx Context, drv driver.Driver, builder *mclang.Builder) (Layer, error) {
		return newStubLayer(ctx, MaskFloat, nil), nil
	})
	Register("registry-test-overwrite", func(ctx Context, drv driver.Driver, builder *mclang.Builder) (Layer, error) {
		return newStubLayer(ctx, MaskColor, nil), nil
	})

	got, err := Create("registry-test-overwrite", Context{}, nil, nil)
	require.NoError(t, err)
	require.Equal(t, MaskColor, got.Mask())
}
