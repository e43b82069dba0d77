package layer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/monkin/mclang"
	"github.com/monkin/mclang/driver"
	"github.com/monkin/mclang/driver/memdriver"
)

// doublingDeviceLayer is the minimal concrete DeviceLayer used by these
// tests: one kernel, `buf[gid] = buf[gid] * amount`.
type doublingDeviceLayer struct {
	DeviceLayer
	buf    *mclang.BufferArgument[float32]
	amount float32
}

func newDoublingDeviceLayer(ctx Context, drv driver.Driver, builder *mclang.Builder, buf *mclang.BufferArgument[float32], amount float32) *doublingDeviceLayer {
	l := &doublingDeviceLayer{buf: buf, amount: amount}
	l.InitDevice(l, ctx, MaskFloat, nil, drv, builder)
	return l
}

func (l *doublingDeviceLayer) Mask() Mask { return MaskFloat }

func (l *doublingDeviceLayer) Compute(workSize [3]int) mclang.Expression {
	return l.expr()
}

func (l *doublingDeviceLayer) Expressions() map[string]mclang.Expression {
	return map[string]mclang.Expression{"main_kernel": l.expr()}
}

func (l *doublingDeviceLayer) expr() mclang.Expression {
	gid := mclang.GetGlobalID(0)
	element := mclang.Select(l.buf, gid)
	return mclang.SetValue(element, mclang.Mul(element, mclang.Cnst(l.amount)))
}

// Scenario E — layer rebuild: changing the layer's scale, bumping its
// version and resetting its cache, then calling Build and Kernel again
// must compile again and hand back a kernel.
func TestScenarioERebuildOnArgumentMutation(t *testing.T) {
	drv := memdriver.New()
	platforms, err := drv.Platforms()
	require.NoError(t, err)
	devices, err := drv.Devices(platforms[0])
	require.NoError(t, err)
	ctx, err := drv.CreateContext(devices)
	require.NoError(t, err)

	buf, err := drv.Buffer(ctx, 4*4, driver.AccessReadWrite)
	require.NoError(t, err)
	bufArg := mclang.ArgBuf[float32](buf)

	l := newDoublingDeviceLayer(Context{Context: ctx}, drv, mclang.NewBuilder("  "), bufArg, 2)
	require.NoError(t, l.Build())

	k1, err := l.Kernel("main_kernel")
	require.NoError(t, err)
	require.NotNil(t, k1)

	v0 := l.Version()
	l.amount = 3
	l.IncVersion()
	l.ResetCache()

	require.Greater(t, l.Version(), v0)

	require.NoError(t, l.Build())
	k2, err := l.Kernel("main_kernel")
	require.NoError(t, err)
	require.NotNil(t, k2)
}

// Scenario F — build failure exposure: a Driver that refuses to build
// any program must surface BuildError from Kernel, with the failing
// Program attached so its build log can be read back.
type failingDriver struct {
	*memdriver.Driver
}

func (f *failingDriver) BuildProgram(p driver.Program, options string) error {
	return errors.New("reference to an undeclared intrinsic")
}

func TestScenarioFBuildFailureExposure(t *testing.T) {
	drv := &failingDriver{Driver: memdriver.New()}
	platforms, err := drv.Platforms()
	require.NoError(t, err)
	devices, err := drv.Devices(platforms[0])
	require.NoError(t, err)
	ctx, err := drv.CreateContext(devices)
	require.NoError(t, err)

	buf, err := drv.Buffer(ctx, 4*4, driver.AccessReadWrite)
	require.NoError(t, err)
	bufArg := mclang.ArgBuf[float32](buf)

	l := newDoublingDeviceLayer(Context{Context: ctx}, drv, mclang.NewBuilder("  "), bufArg, 2)

	_, err = l.Kernel("main_kernel")
	require.Error(t, err)
	var buildErr BuildError
	require.ErrorAs(t, err, &buildErr)
	require.Equal(t, "main_kernel", buildErr.Name)
}

// With "build.async" off, Build must have every kernel's outcome
// recorded by the time it returns instead of leaving compiles to a
// background goroutine.
func TestDeviceLayerBuildSynchronousWhenAsyncConfiguredOff(t *testing.T) {
	drv := memdriver.New()
	platforms, err := drv.Platforms()
	require.NoError(t, err)
	devices, err := drv.Devices(platforms[0])
	require.NoError(t, err)
	ctx, err := drv.CreateContext(devices)
	require.NoError(t, err)

	buf, err := drv.Buffer(ctx, 4*4, driver.AccessReadWrite)
	require.NoError(t, err)
	bufArg := mclang.ArgBuf[float32](buf)

	cfg := mclang.NewConfig()
	cfg.SetBool("build.async", false)

	l := newDoublingDeviceLayer(Context{Context: ctx, Config: cfg}, drv, mclang.NewBuilder("  "), bufArg, 2)
	require.NoError(t, l.Build())

	l.mu.Lock()
	finished := l.buildFinished
	l.mu.Unlock()
	require.True(t, finished, "synchronous Build must finish before returning")

	k, err := l.Kernel("main_kernel")
	require.NoError(t, err)
	require.NotNil(t, k)
}

func TestDeviceLayerKernelNotFound(t *testing.T) {
	drv := memdriver.New()
	platforms, _ := drv.Platforms()
	devices, _ := drv.Devices(platforms[0])
	ctx, _ := drv.CreateContext(devices)

	buf, err := drv.Buffer(ctx, 4*4, driver.AccessReadWrite)
	require.NoError(t, err)
	bufArg := mclang.ArgBuf[float32](buf)

	l := newDoublingDeviceLayer(Context{Context: ctx}, drv, mclang.NewBuilder("  "), bufArg, 2)
	_, err = l.Kernel("no_such_kernel")
	require.Error(t, err)
	require.IsType(t, NotFoundError{}, err)
}
