// Package memdriver is an in-memory fake of mclang/driver.Driver: no
// GPU, no real compiler. Platform/device enumeration is fixed, and
// platform discovery is deduplicated through singleflight so concurrent
// first callers share one discovery pass; program "build" is a structural sanity check
// over the generated source text; and a minimal interpreter executes
// the one kernel shape the test scenarios dispatch — an elementwise
// buffer transform indexed by get_global_id(0) — against host byte
// slices, so EnqueueKernel/EnqueueReadBuffer produce observable
// results without a real device.
package memdriver

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/monkin/mclang"
	"github.com/monkin/mclang/driver"
)

var nextHandleID uint64

func newHandleID() uint64 { return atomic.AddUint64(&nextHandleID, 1) }

// refcounted is embedded by every handle type; Retain/Release just
// track the count, since memdriver never actually frees anything.
type refcounted struct {
	id uint64
	mu sync.Mutex
	rc int32
}

func newRefcounted() refcounted { return refcounted{id: newHandleID(), rc: 1} }

func (r *refcounted) Retain() {
	r.mu.Lock()
	r.rc++
	r.mu.Unlock()
}

func (r *refcounted) Release() {
	r.mu.Lock()
	r.rc--
	r.mu.Unlock()
}

type platform struct {
	refcounted
	name string
}

type device struct {
	refcounted
	name string
}

type memContext struct {
	refcounted
	devices []driver.Device
}

type buffer struct {
	refcounted
	data []byte
}

func (b *buffer) Size() int { return len(b.data) }

type image struct {
	refcounted
	format driver.ImageFormat
	width  int
	height int
	data   []byte
}

type sampler struct {
	refcounted
	addressing mclang.ImageAddressing
	filter     mclang.ImageFilter
}

type program struct {
	refcounted
	source string
	mu     sync.Mutex
	status driver.BuildStatus
	log    string
	parsed *parsedKernel
}

type kernel struct {
	refcounted
	name    string
	parsed  *parsedKernel
	args    map[int]any
	argsMu  sync.Mutex
}

func (k *kernel) SetArg(index int, value any) error {
	k.argsMu.Lock()
	defer k.argsMu.Unlock()
	k.args[index] = value
	return nil
}

type queue struct {
	refcounted
	ctx *memContext
}

// Driver is the in-memory fake. The zero value is not usable; call
// New.
type Driver struct {
	platformGroup singleflight.Group
	mu            sync.Mutex
	platforms     []driver.Platform
}

// New returns a ready in-memory Driver exposing a single fixed
// platform/device pair.
func New() *Driver {
	return &Driver{}
}

func (d *Driver) Platforms() ([]driver.Platform, error) {
	v, err, _ := d.platformGroup.Do("platforms", func() (any, error) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.platforms == nil {
			slog.Info("memdriver.Platforms enumerating")
			r := newRefcounted()
			d.platforms = []driver.Platform{&platform{refcounted: r, name: "memdriver"}}
		}
		return d.platforms, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]driver.Platform), nil
}

func (d *Driver) Devices(p driver.Platform) ([]driver.Device, error) {
	if _, ok := p.(*platform); !ok {
		return nil, driver.Error{Code: 1, Message: "unknown platform handle"}
	}
	return []driver.Device{&device{refcounted: newRefcounted(), name: "memdriver-device-0"}}, nil
}

func (d *Driver) CreateContext(devices []driver.Device) (driver.Context, error) {
	if len(devices) == 0 {
		return nil, driver.Error{Code: 2, Message: "context requires at least one device"}
	}
	return &memContext{refcounted: newRefcounted(), devices: devices}, nil
}

func (d *Driver) Buffer(ctx driver.Context, size int, access driver.BufferAccess) (driver.Buffer, error) {
	return &buffer{refcounted: newRefcounted(), data: make([]byte, size)}, nil
}

func (d *Driver) Image(ctx driver.Context, format driver.ImageFormat, width, height int, access driver.ImageAccess) (driver.Image, error) {
	bytesPerPixel := format.Channels * 4
	return &image{
		refcounted: newRefcounted(),
		format:     format,
		width:      width,
		height:     height,
		data:       make([]byte, width*height*bytesPerPixel),
	}, nil
}

func (d *Driver) Sampler(ctx driver.Context, addressing mclang.ImageAddressing, filter mclang.ImageFilter) (driver.Sampler, error) {
	return &sampler{refcounted: newRefcounted(), addressing: addressing, filter: filter}, nil
}

func (d *Driver) NewProgram(ctx driver.Context, source string) (driver.Program, error) {
	return &program{refcounted: newRefcounted(), source: source}, nil
}

// BuildProgram performs a structural sanity check over the generated
// source — balanced braces/parens and a recognizable `kernel void
// main_kernel(...)` signature — then, if the body matches the
// elementwise buffer-transform shape the test scenarios dispatch,
// records a parsedKernel the interpreter in EnqueueKernel can run.
// Anything else "builds" successfully but EnqueueKernel rejects it, the
// same way a real device would reject a kernel call with no matching
// entry point at dispatch time rather than at compile time.
func (d *Driver) BuildProgram(p driver.Program, options string) error {
	prog, ok := p.(*program)
	if !ok {
		return driver.Error{Code: 3, Message: "unknown program handle"}
	}
	prog.mu.Lock()
	defer prog.mu.Unlock()

	if err := checkBalanced(prog.source); err != nil {
		prog.status = driver.BuildFailure
		prog.log = err.Error()
		return nil
	}
	if !kernelSignatureRE.MatchString(prog.source) {
		prog.status = driver.BuildFailure
		prog.log = "no `kernel void main_kernel(...)` entry point found"
		return nil
	}
	parsed, err := parseKernel(prog.source)
	if err != nil {
		prog.status = driver.BuildFailure
		prog.log = err.Error()
		return nil
	}
	prog.parsed = parsed
	prog.status = driver.BuildSuccess
	prog.log = ""
	return nil
}

// BuildProgramAsync runs BuildProgram synchronously and invokes done
// with the result; memdriver has no real async compiler thread, so
// there is nothing to make genuinely asynchronous.
func (d *Driver) BuildProgramAsync(p driver.Program, options string, done func(driver.BuildStatus)) error {
	if err := d.BuildProgram(p, options); err != nil {
		return err
	}
	prog := p.(*program)
	prog.mu.Lock()
	status := prog.status
	prog.mu.Unlock()
	done(status)
	return nil
}

func (d *Driver) BuildStatus(p driver.Program, dv driver.Device) driver.BuildStatus {
	prog, ok := p.(*program)
	if !ok {
		return driver.BuildFailure
	}
	prog.mu.Lock()
	defer prog.mu.Unlock()
	return prog.status
}

func (d *Driver) BuildLog(p driver.Program, dv driver.Device) string {
	prog, ok := p.(*program)
	if !ok {
		return ""
	}
	prog.mu.Lock()
	defer prog.mu.Unlock()
	return prog.log
}

func (d *Driver) KernelByName(p driver.Program, name string) (driver.Kernel, error) {
	prog, ok := p.(*program)
	if !ok {
		return nil, driver.Error{Code: 3, Message: "unknown program handle"}
	}
	prog.mu.Lock()
	defer prog.mu.Unlock()
	if prog.status != driver.BuildSuccess {
		return nil, driver.Error{Code: 4, Message: "program did not build successfully"}
	}
	return &kernel{refcounted: newRefcounted(), name: name, parsed: prog.parsed, args: make(map[int]any)}, nil
}

func (d *Driver) NewQueue(ctx driver.Context, dv driver.Device, opts driver.QueueOptions) (driver.Queue, error) {
	memCtx, ok := ctx.(*memContext)
	if !ok {
		return nil, driver.Error{Code: 5, Message: "unknown context handle"}
	}
	return &queue{refcounted: newRefcounted(), ctx: memCtx}, nil
}

func (d *Driver) EnqueueReadBuffer(q driver.Queue, buf driver.Buffer, hostBytes []byte) error {
	b, ok := buf.(*buffer)
	if !ok {
		return driver.Error{Code: 6, Message: "unknown buffer handle"}
	}
	copy(hostBytes, b.data)
	return nil
}

func (d *Driver) EnqueueWriteBuffer(q driver.Queue, buf driver.Buffer, hostBytes []byte) error {
	b, ok := buf.(*buffer)
	if !ok {
		return driver.Error{Code: 6, Message: "unknown buffer handle"}
	}
	copy(b.data, hostBytes)
	return nil
}

func (d *Driver) EnqueueReadImage(q driver.Queue, img driver.Image, hostBytes []byte) error {
	i, ok := img.(*image)
	if !ok {
		return driver.Error{Code: 7, Message: "unknown image handle"}
	}
	copy(hostBytes, i.data)
	return nil
}

func (d *Driver) EnqueueWriteImage(q driver.Queue, img driver.Image, hostBytes []byte) error {
	i, ok := img.(*image)
	if !ok {
		return driver.Error{Code: 7, Message: "unknown image handle"}
	}
	copy(i.data, hostBytes)
	return nil
}

// EnqueueKernel runs the interpreter over the one supported kernel
// shape: `buf[get_global_id(0)] = <expr using buf[get_global_id(0)]>;`
// over float32 elements of the bound BufferArgument, for workSize[0]
// global work items.
func (d *Driver) EnqueueKernel(q driver.Queue, k driver.Kernel, workSize [3]int) error {
	kn, ok := k.(*kernel)
	if !ok {
		return driver.Error{Code: 8, Message: "unknown kernel handle"}
	}
	if kn.parsed == nil {
		return driver.Error{Code: 9, Message: "kernel has no interpretable body"}
	}
	kn.argsMu.Lock()
	buf, ok := kn.args[kn.parsed.bufArgIndex].(*buffer)
	kn.argsMu.Unlock()
	if !ok {
		return driver.Error{Code: 10, Message: "kernel's buffer argument was never bound"}
	}

	floats := len(buf.data) / 4
	n := workSize[0]
	if n > floats {
		n = floats
	}
	for gid := 0; gid < n; gid++ {
		v := readFloat32(buf.data, gid)
		result := kn.parsed.eval(v)
		writeFloat32(buf.data, gid, result)
	}
	return nil
}

func (d *Driver) Barrier(q driver.Queue) error { return nil }
func (d *Driver) Finish(q driver.Queue) error  { return nil }
func (d *Driver) Flush(q driver.Queue) error   { return nil }

func readFloat32(data []byte, index int) float32 {
	bits := uint32(data[index*4]) | uint32(data[index*4+1])<<8 | uint32(data[index*4+2])<<16 | uint32(data[index*4+3])<<24
	return math.Float32frombits(bits)
}

func writeFloat32(data []byte, index int, v float32) {
	bits := math.Float32bits(v)
	data[index*4] = byte(bits)
	data[index*4+1] = byte(bits >> 8)
	data[index*4+2] = byte(bits >> 16)
	data[index*4+3] = byte(bits >> 24)
}

var (
	kernelSignatureRE = regexp.MustCompile(`kernel\s+void\s+main_kernel\s*\(([^)]*)\)`)
	bufParamRE        = regexp.MustCompile(`__global\s+float\s*\*\s*(\w+)`)
	assignRE          = regexp.MustCompile(`(\w+)\[get_global_id\([^)]*\)\]\s*=\s*(.+);`)
	multiplyRE        = regexp.MustCompile(`^\(\s*(\w+)\[get_global_id\([^)]*\)\]\s*\*\s*([0-9.eEf+-]+)\s*\)$`)
)

// parsedKernel captures just enough of the one recognized body shape —
// `buf[gid] = (buf[gid] * scale)` — to replay it per work item. Any
// other body parses successfully as balanced source but leaves parsed
// nil, so EnqueueKernel reports a dispatch-time error instead.
type parsedKernel struct {
	bufArgIndex int
	scale       float32
}

func (p *parsedKernel) eval(v float32) float32 {
	return v * p.scale
}

func parseKernel(source string) (*parsedKernel, error) {
	sigMatch := kernelSignatureRE.FindStringSubmatch(source)
	if sigMatch == nil {
		return nil, fmt.Errorf("memdriver: no main_kernel signature")
	}
	params := strings.Split(sigMatch[1], ",")
	bufArgIndex := -1
	bufName := ""
	for i, param := range params {
		if m := bufParamRE.FindStringSubmatch(strings.TrimSpace(param)); m != nil {
			bufArgIndex = i
			bufName = m[1]
			break
		}
	}
	if bufArgIndex < 0 {
		return nil, nil
	}

	assign := assignRE.FindStringSubmatch(source)
	if assign == nil || assign[1] != bufName {
		return nil, nil
	}
	mul := multiplyRE.FindStringSubmatch(strings.TrimSpace(assign[2]))
	if mul == nil || mul[1] != bufName {
		return nil, nil
	}
	scale, err := strconv.ParseFloat(strings.TrimSuffix(mul[2], "f"), 32)
	if err != nil {
		return nil, nil
	}
	return &parsedKernel{bufArgIndex: bufArgIndex, scale: float32(scale)}, nil
}

func checkBalanced(source string) error {
	depthBrace, depthParen := 0, 0
	for _, r := range source {
		switch r {
		case '{':
			depthBrace++
		case '}':
			depthBrace--
		case '(':
			depthParen++
		case ')':
			depthParen--
		}
		if depthBrace < 0 || depthParen < 0 {
			return fmt.Errorf("memdriver: unbalanced source near %q", source)
		}
	}
	if depthBrace != 0 || depthParen != 0 {
		return fmt.Errorf("memdriver: unbalanced braces/parens in generated source")
	}
	return nil
}
