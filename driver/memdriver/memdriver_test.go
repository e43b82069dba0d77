package memdriver

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/monkin/mclang/driver"
)

func TestPlatformsDedupedAcrossConcurrentCallers(t *testing.T) {
	d := New()

	const callers = 16
	results := make([][]driver.Platform, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		i := i
		go func() {
			defer wg.Done()
			platforms, err := d.Platforms()
			require.NoError(t, err)
			results[i] = platforms
		}()
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		require.Same(t, results[0][0], results[i][0], "all callers must observe the same deduplicated platform handle")
	}
}

func TestCreateContextRequiresAtLeastOneDevice(t *testing.T) {
	d := New()
	_, err := d.CreateContext(nil)
	require.Error(t, err)
}

func TestBufferReadWriteRoundTrip(t *testing.T) {
	d := New()
	platforms, err := d.Platforms()
	require.NoError(t, err)
	devices, err := d.Devices(platforms[0])
	require.NoError(t, err)
	ctx, err := d.CreateContext(devices)
	require.NoError(t, err)
	q, err := d.NewQueue(ctx, devices[0], driver.QueueOptions{})
	require.NoError(t, err)

	buf, err := d.Buffer(ctx, 8, driver.AccessReadWrite)
	require.NoError(t, err)
	require.Equal(t, 8, buf.Size())

	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, d.EnqueueWriteBuffer(q, buf, want))

	got := make([]byte, 8)
	require.NoError(t, d.EnqueueReadBuffer(q, buf, got))
	require.Equal(t, want, got)
}

func TestBuildProgramRejectsUnbalancedSource(t *testing.T) {
	d := New()
	platforms, _ := d.Platforms()
	devices, _ := d.Devices(platforms[0])
	ctx, _ := d.CreateContext(devices)

	p, err := d.NewProgram(ctx, "kernel void main_kernel(__global float *buf) {")
	require.NoError(t, err)
	require.NoError(t, d.BuildProgram(p, ""))
	require.Equal(t, driver.BuildFailure, d.BuildStatus(p, devices[0]))
	require.NotEmpty(t, d.BuildLog(p, devices[0]))
}

func TestBuildProgramRejectsMissingEntryPoint(t *testing.T) {
	d := New()
	platforms, _ := d.Platforms()
	devices, _ := d.Devices(platforms[0])
	ctx, _ := d.CreateContext(devices)

	p, err := d.NewProgram(ctx, "void helper() {}")
	require.NoError(t, err)
	require.NoError(t, d.BuildProgram(p, ""))
	require.Equal(t, driver.BuildFailure, d.BuildStatus(p, devices[0]))
}

func TestEnqueueKernelDoublesRecognizedShape(t *testing.T) {
	d := New()
	platforms, _ := d.Platforms()
	devices, _ := d.Devices(platforms[0])
	ctx, _ := d.CreateContext(devices)
	q, _ := d.NewQueue(ctx, devices[0], driver.QueueOptions{})

	buf, err := d.Buffer(ctx, 4, driver.AccessReadWrite)
	require.NoError(t, err)
	require.NoError(t, d.EnqueueWriteBuffer(q, buf, []byte{0, 0, 0x80, 0x3f})) // 1.0f

	src := "kernel void main_kernel(__global float *buf) {\n  buf[get_global_id(0x0u)] = (buf[get_global_id(0x0u)] * 2.000000e+00f);\n}"
	p, err := d.NewProgram(ctx, src)
	require.NoError(t, err)
	require.NoError(t, d.BuildProgram(p, ""))
	require.Equal(t, driver.BuildSuccess, d.BuildStatus(p, devices[0]))

	k, err := d.KernelByName(p, "main_kernel")
	require.NoError(t, err)
	require.NoError(t, k.SetArg(0, buf))
	require.NoError(t, d.EnqueueKernel(q, k, [3]int{1, 1, 1}))

	got := make([]byte, 4)
	require.NoError(t, d.EnqueueReadBuffer(q, buf, got))
	require.Equal(t, float32(2), readFloat32(got, 0))
}

func TestEnqueueKernelRejectsUnrecognizedBody(t *testing.T) {
	d := New()
	platforms, _ := d.Platforms()
	devices, _ := d.Devices(platforms[0])
	ctx, _ := d.CreateContext(devices)
	q, _ := d.NewQueue(ctx, devices[0], driver.QueueOptions{})

	src := "kernel void main_kernel(__global float *buf) {\n  buf[get_global_id(0x0u)] = (buf[get_global_id(0x0u)] + buf[get_global_id(0x1u)]);\n}"
	p, err := d.NewProgram(ctx, src)
	require.NoError(t, err)
	require.NoError(t, d.BuildProgram(p, ""))
	require.Equal(t, driver.BuildSuccess, d.BuildStatus(p, devices[0]))

	k, err := d.KernelByName(p, "main_kernel")
	require.NoError(t, err)
	require.Error(t, d.EnqueueKernel(q, k, [3]int{1, 1, 1}))
}
