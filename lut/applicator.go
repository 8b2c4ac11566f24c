package lut

import (
	"encoding/binary"
	"math"

	"github.com/crispen/core/colormath"
	"github.com/crispen/core/gpu"
	"github.com/crispen/core/gpu/cpuref"
	"github.com/crispen/core/gpu/shaders"
)

// applyKernelName is the registered cpuref kernel name for the apply
// dispatch, and applyWorkgroup the workgroup size mandated by spec §4.4.
const applyKernelName = "lut_apply"

var applyWorkgroup = [3]int{16, 16, 1}

func init() {
	cpuref.RegisterKernel(applyKernelName, runApplyKernel)
}

const (
	aOffN         = 0
	aOffWidth     = 4
	aOffHeight    = 8
	_             = 12 // pad to 16
	aOffDomainMin = 16
	aOffDomainMax = 32
	applyUniformSize = 48
)

func marshalApplyUniforms(n, width, height int, domainMin, domainMax colormath.Vec3) []byte {
	b := make([]byte, applyUniformSize)
	putI32(b, aOffN, int32(n))
	putI32(b, aOffWidth, int32(width))
	putI32(b, aOffHeight, int32(height))
	putVec3(b, aOffDomainMin, domainMin)
	putVec3(b, aOffDomainMax, domainMax)
	return b
}

func unmarshalApplyUniforms(b []byte) (n, width, height int, domainMin, domainMax colormath.Vec3) {
	n = int(getI32(b, aOffN))
	width = int(getI32(b, aOffWidth))
	height = int(getI32(b, aOffHeight))
	domainMin = getVec3(b, aOffDomainMin)
	domainMax = getVec3(b, aOffDomainMax)
	return
}

// ApplyDispatch records the apply compute pass into cb: reads the bound LUT
// storage buffer and the source RGBA f32 pixel buffer, writes into out
// (same RGBA f32 layout, width*height*4 entries), one invocation per
// pixel at workgroup size (16,16,1) (spec §4.4).
//
// lutBuf and srcBuf are bound read-only; out is the write target. Every
// backend runs the manual 8-tap trilinear kernel (shaders.Apply, or
// runApplyKernel on cpuref); gpu.Limits' SupportsFilterableF32 is not
// read, and no hardware-filtered sampling pipeline is built.
func ApplyDispatch(g gpu.GPU, cb gpu.CmdBuffer, n, width, height int, domainMin, domainMax colormath.Vec3, lutBuf, srcBuf, out gpu.Buffer) error {
	uniformBytes := marshalApplyUniforms(n, width, height, domainMin, domainMax)

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
	heap.SetBuffer(0, 1, 0, []gpu.Buffer{lutBuf}, []int64{0}, []int64{lutBuf.Cap()})
	heap.SetBuffer(0, 2, 0, []gpu.Buffer{srcBuf}, []int64{0}, []int64{srcBuf.Cap()})
	heap.SetBuffer(0, 3, 0, []gpu.Buffer{out}, []int64{0}, []int64{out.Cap()})

	table, err := g.NewDescTable([]gpu.DescHeap{heap})
	if err != nil {
		return err
	}

	sc, err := g.NewShaderCode([]byte(shaders.Apply))
	if err != nil {
		return err
	}
	pl, err := g.NewPipeline(&gpu.CompState{Func: gpu.ShaderFunc{Code: sc, Name: applyKernelName}, Desc: table})
	if err != nil {
		return err
	}

	cb.BeginWork(false)
	cb.SetPipeline(pl)
	cb.SetDescTableComp(table, 0, []int{0})
	gx := ceilDiv(width, applyWorkgroup[0])
	gy := ceilDiv(height, applyWorkgroup[1])
	cb.Dispatch(gx, gy, 1)
	cb.EndWork()
	return nil
}

func runApplyKernel(ctx *cpuref.KernelContext) {
	n, width, height, domainMin, domainMax := unmarshalApplyUniforms(ctx.Buffer(0, 0))
	l := &LUT{N: n, DomainMin: domainMin, DomainMax: domainMax, Data: bytesToFloat32View(ctx.Buffer(0, 1))}
	src := ctx.Buffer(0, 2)
	out := ctx.Buffer(0, 3)
	for p := 0; p < width*height; p++ {
		o := p * 16
		rgb := colormath.Vec3{getF32(src, o), getF32(src, o+4), getF32(src, o+8)}
		a := getF32(src, o+12)
		graded := TrilinearSample(l, rgb)
		putF32(out, o, graded[0])
		putF32(out, o+4, graded[1])
		putF32(out, o+8, graded[2])
		putF32(out, o+12, a)
	}
}

// bytesToFloat32View decodes a byte slice into a freshly-allocated
// []float32; the LUT's Data is read-only for the duration of apply, so no
// aliasing is needed the way the bake kernel's output write-back requires.
func bytesToFloat32View(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

// TrilinearSample evaluates the LUT at rgb using the manual 8-tap
// trilinear arithmetic spec §4.4 mandates as the fallback path when
// hardware Rgba32Float filtering is unavailable. The cpuref apply kernel
// runs it for every pixel, and the WGSL apply kernel mirrors it in f32.
func TrilinearSample(l *LUT, rgb colormath.Vec3) colormath.Vec3 {
	var t colormath.Vec3
	n1 := float64(l.N - 1)
	for i := 0; i < 3; i++ {
		span := l.DomainMax[i] - l.DomainMin[i]
		u := 0.0
		if span != 0 {
			u = (rgb[i] - l.DomainMin[i]) / span
		}
		if u < 0 {
			u = 0
		}
		if u > 1 {
			u = 1
		}
		t[i] = u * n1
	}

	r0 := clampIdx(int(math.Floor(t[0])), l.N)
	g0 := clampIdx(int(math.Floor(t[1])), l.N)
	b0 := clampIdx(int(math.Floor(t[2])), l.N)
	r1 := clampIdx(r0+1, l.N)
	g1 := clampIdx(g0+1, l.N)
	b1 := clampIdx(b0+1, l.N)

	fr := t[0] - math.Floor(t[0])
	fg := t[1] - math.Floor(t[1])
	fb := t[2] - math.Floor(t[2])

	c000 := sampleEntry(l, r0, g0, b0)
	c100 := sampleEntry(l, r1, g0, b0)
	c010 := sampleEntry(l, r0, g1, b0)
	c110 := sampleEntry(l, r1, g1, b0)
	c001 := sampleEntry(l, r0, g0, b1)
	c101 := sampleEntry(l, r1, g0, b1)
	c011 := sampleEntry(l, r0, g1, b1)
	c111 := sampleEntry(l, r1, g1, b1)

	c00 := lerp3(c000, c100, fr)
	c10 := lerp3(c010, c110, fr)
	c01 := lerp3(c001, c101, fr)
	c11 := lerp3(c011, c111, fr)

	c0 := lerp3(c00, c10, fg)
	c1 := lerp3(c01, c11, fg)

	return lerp3(c0, c1, fb)
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func sampleEntry(l *LUT, ri, gi, bi int) colormath.Vec3 {
	e := l.At(ri, gi, bi)
	return colormath.Vec3{float64(e[0]), float64(e[1]), float64(e[2])}
}

func lerp3(a, b colormath.Vec3, t float64) colormath.Vec3 {
	var out colormath.Vec3
	for i := 0; i < 3; i++ {
		out[i] = a[i] + t*(b[i]-a[i])
	}
	return out
}
