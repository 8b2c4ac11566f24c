package scope

import (
	"encoding/binary"
	"math"

	"github.com/crispen/core/colormath"
	"github.com/crispen/core/gpu"
	"github.com/crispen/core/gpu/cpuref"
	"github.com/crispen/core/gpu/shaders"
)

// wgslSource maps a registered kernel name to its real WGSL module source.
var wgslSource = map[string]string{
	kernelHistogram:   shaders.Histogram,
	kernelWaveform:    shaders.Waveform,
	kernelVectorscope: shaders.Vectorscope,
	kernelCIE:         shaders.CIE,
}

// Workgroup is the workgroup size mandated for every scope pass
// (spec §4.5 "workgroup size 256 over pixel-count invocations").
var Workgroup = [3]int{256, 1, 1}

const (
	kernelHistogram   = "scope_histogram"
	kernelWaveform    = "scope_waveform"
	kernelVectorscope = "scope_vectorscope"
	kernelCIE         = "scope_cie"
)

func init() {
	cpuref.RegisterKernel(kernelHistogram, runHistogramKernel)
	cpuref.RegisterKernel(kernelWaveform, runWaveformKernel)
	cpuref.RegisterKernel(kernelVectorscope, runVectorscopeKernel)
	cpuref.RegisterKernel(kernelCIE, runCIEKernel)
}

const (
	sOffWidth  = 0
	sOffHeight = 4
	sOffActive = 8
	_          = 12 // pad
	sOffNPM    = 16 // Mat3, 3 Vec3 rows, each padded to 16 bytes (CIE only)
	sUniformSize = sOffNPM + 3*16
)

func marshalScopeUniforms(width, height int, active bool, npm *colormath.Mat3) []byte {
	b := make([]byte, sUniformSize)
	putI32(b, sOffWidth, int32(width))
	putI32(b, sOffHeight, int32(height))
	a := int32(0)
	if active {
		a = 1
	}
	putI32(b, sOffActive, a)
	if npm != nil {
		for i, row := range npm {
			o := sOffNPM + i*16
			putF32(b, o, row[0])
			putF32(b, o+4, row[1])
			putF32(b, o+8, row[2])
		}
	}
	return b
}

func unmarshalScopeUniforms(b []byte) (width, height int, active bool, npm colormath.Mat3) {
	width = int(getI32(b, sOffWidth))
	height = int(getI32(b, sOffHeight))
	active = getI32(b, sOffActive) != 0
	for i := range npm {
		o := sOffNPM + i*16
		npm[i] = colormath.Vec3{getF32(b, o), getF32(b, o+4), getF32(b, o+8)}
	}
	return
}

func putI32(b []byte, off int, v int32) { binary.LittleEndian.PutUint32(b[off:], uint32(v)) }
func getI32(b []byte, off int) int32    { return int32(binary.LittleEndian.Uint32(b[off:])) }
func putF32(b []byte, off int, v float64) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(float32(v)))
}
func getF32(b []byte, off int) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[off:])))
}

// dispatchOne records one scope pass's compute dispatch: a uniform
// buffer (width, height, active, and — for CIE — the output-space NPM),
// an always-bound mask buffer (a placeholder buffer when no mask is in use, per
// spec §4.5's "letting the fast path incur no cost" rationale), the
// source pixel buffer, and the output atomic-counter buffer.
func dispatchOne(g gpu.GPU, cb gpu.CmdBuffer, kernel string, width, height int, active bool, npm *colormath.Mat3, mask, src, out gpu.Buffer) error {
	uniformBytes := marshalScopeUniforms(width, height, active, npm)
	uniformBuf, err := g.NewBuffer(int64(len(uniformBytes)), false, gpu.UShaderRead)
	if err != nil {
		return err
	}
	uniformBuf.SetBytes(0, uniformBytes)

	heap, err := g.NewDescHeap([]gpu.Descriptor{
		{Type: gpu.DConstant},
		{Type: gpu.DBuffer},
		{Type: gpu.DBuffer},
		{Type: gpu.DBuffer},
	})
	if err != nil {
		return err
	}
	if err := heap.New(1); err != nil {
		return err
	}
	heap.SetBuffer(0, 0, 0, []gpu.Buffer{uniformBuf}, []int64{0}, []int64{uniformBuf.Cap()})
	heap.SetBuffer(0, 1, 0, []gpu.Buffer{mask}, []int64{0}, []int64{mask.Cap()})
	heap.SetBuffer(0, 2, 0, []gpu.Buffer{src}, []int64{0}, []int64{src.Cap()})
	heap.SetBuffer(0, 3, 0, []gpu.Buffer{out}, []int64{0}, []int64{out.Cap()})

	table, err := g.NewDescTable([]gpu.DescHeap{heap})
	if err != nil {
		return err
	}
	sc, err := g.NewShaderCode([]byte(wgslSource[kernel]))
	if err != nil {
		return err
	}
	pl, err := g.NewPipeline(&gpu.CompState{Func: gpu.ShaderFunc{Code: sc, Name: kernel}, Desc: table})
	if err != nil {
		return err
	}

	cb.BeginWork(false)
	cb.SetPipeline(pl)
	cb.SetDescTableComp(table, 0, []int{0})
	n := width * height
	gx := (n + Workgroup[0] - 1) / Workgroup[0]
	cb.Dispatch(gx, 1, 1)
	cb.EndWork()
	return nil
}

// DispatchHistogram, DispatchWaveform, DispatchVectorscope and
// DispatchCIE each record one scope pass. When vis is false the pass is
// skipped, but the caller must still have cleared out's buffer this
// frame (spec §4.5 "visibility gating").
func DispatchHistogram(g gpu.GPU, cb gpu.CmdBuffer, width, height int, vis, maskActive bool, mask, src, out gpu.Buffer) error {
	if !vis {
		return nil
	}
	return dispatchOne(g, cb, kernelHistogram, width, height, maskActive, nil, mask, src, out)
}

func DispatchWaveform(g gpu.GPU, cb gpu.CmdBuffer, width, height int, vis, maskActive bool, mask, src, out gpu.Buffer) error {
	if !vis {
		return nil
	}
	return dispatchOne(g, cb, kernelWaveform, width, height, maskActive, nil, mask, src, out)
}

func DispatchVectorscope(g gpu.GPU, cb gpu.CmdBuffer, width, height int, vis, maskActive bool, mask, src, out gpu.Buffer) error {
	if !vis {
		return nil
	}
	return dispatchOne(g, cb, kernelVectorscope, width, height, maskActive, nil, mask, src, out)
}

func DispatchCIE(g gpu.GPU, cb gpu.CmdBuffer, width, height int, vis, maskActive bool, npm *colormath.Mat3, mask, src, out gpu.Buffer) error {
	if !vis {
		return nil
	}
	return dispatchOne(g, cb, kernelCIE, width, height, maskActive, npm, mask, src, out)
}

func readPixels(src []byte, width, height int) []colormath.Vec3 {
	n := width * height
	pixels := make([]colormath.Vec3, n)
	for i := range pixels {
		o := i * 16
		pixels[i] = colormath.Vec3{getF32(src, o), getF32(src, o+4), getF32(src, o+8)}
	}
	return pixels
}

func readMask(b []byte, active bool, n int) Mask {
	if !active {
		return nil
	}
	m := make(Mask, n)
	for i := range m {
		m[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return m
}

func writeCounters(dst []byte, counts []uint32) {
	for i, v := range counts {
		binary.LittleEndian.PutUint32(dst[i*4:], v)
	}
}

func runHistogramKernel(ctx *cpuref.KernelContext) {
	width, height, active, _ := unmarshalScopeUniforms(ctx.Buffer(0, 0))
	pixels := readPixels(ctx.Buffer(0, 2), width, height)
	mask := readMask(ctx.Buffer(0, 1), active, len(pixels))
	writeCounters(ctx.Buffer(0, 3), HistogramCPU(pixels, mask))
}

func runWaveformKernel(ctx *cpuref.KernelContext) {
	width, height, active, _ := unmarshalScopeUniforms(ctx.Buffer(0, 0))
	pixels := readPixels(ctx.Buffer(0, 2), width, height)
	mask := readMask(ctx.Buffer(0, 1), active, len(pixels))
	writeCounters(ctx.Buffer(0, 3), WaveformCPU(pixels, width, height, mask))
}

func runVectorscopeKernel(ctx *cpuref.KernelContext) {
	width, height, active, _ := unmarshalScopeUniforms(ctx.Buffer(0, 0))
	pixels := readPixels(ctx.Buffer(0, 2), width, height)
	mask := readMask(ctx.Buffer(0, 1), active, len(pixels))
	writeCounters(ctx.Buffer(0, 3), VectorscopeCPU(pixels, mask))
}

func runCIEKernel(ctx *cpuref.KernelContext) {
	width, height, active, npm := unmarshalScopeUniforms(ctx.Buffer(0, 0))
	pixels := readPixels(ctx.Buffer(0, 2), width, height)
	mask := readMask(ctx.Buffer(0, 1), active, len(pixels))
	writeCounters(ctx.Buffer(0, 3), CIECPU(pixels, &npm, mask))
}
