package lut

import (
	"encoding/binary"
	"math"

	"github.com/crispen/core/colormath"
	"github.com/crispen/core/colorspace"
	"github.com/crispen/core/gpu"
	"github.com/crispen/core/gpu/cpuref"
	"github.com/crispen/core/gpu/shaders"
	"github.com/crispen/core/transform"
)

// BakeCPU runs the mandatory triple loop directly against the canonical
// evaluator, producing the LUT's CPU reference values (spec §4.3). Tests
// compare this against transform.Evaluate entry-by-entry.
func BakeCPU(n int, domainMin, domainMax colormath.Vec3, params *transform.Params) *LUT {
	l := New(n, domainMin, domainMax)
	for bi := 0; bi < n; bi++ {
		for gi := 0; gi < n; gi++ {
			for ri := 0; ri < n; ri++ {
				rgb := l.GridCoord(ri, gi, bi)
				out := transform.Evaluate(rgb, params)
				l.Set(ri, gi, bi, out)
			}
		}
	}
	return l
}

// bakeKernelName is the registered cpuref kernel name for the bake
// dispatch, and bakeWorkgroup the workgroup size mandated by spec §4.3.
const bakeKernelName = "lut_bake"

var bakeWorkgroup = [3]int{8, 8, 4}

func init() {
	cpuref.RegisterKernel(bakeKernelName, runBakeKernel)
}

// Uniform buffer layout for the bake dispatch, std140-style: vec3 fields
// are padded to 16 bytes, and the four curve tables follow the scalar
// header back to back (spec §4.3's "four 1D R32Float textures of length
// 256" are carried here as a flat uniform block rather than separate
// texture bindings, since cpuref has no texture sampling path).
const (
	uOffN           = 0
	uOffDomainMin   = 16
	uOffDomainMax   = 32
	uOffSpaces      = 48  // input, working, output space + output OETF, int32 each
	uOffInMat       = 64  // input-gamut -> working-gamut Mat3, rows as vec4 (std140 mat3x3 layout)
	uOffOutMat      = 112 // working-gamut -> output-gamut Mat3, same layout
	uOffWBMat       = 160 // stage 2's temperature/tint Bradford adaptation Mat3, same layout
	uOffWheels      = uOffWBMat + 48 // 4 wheels * (lift, gamma, gain, offset) float32
	uOffSliders     = uOffWheels + 4*16
	uOffHueOffset   = uOffSliders + 48 // 10 sliders, padded to 12 float32
	uOffHueSatRatio = uOffHueOffset + curveTextureLen*4
	uOffLumSatRatio = uOffHueSatRatio + curveTextureLen*4
	uOffSatSatRatio = uOffLumSatRatio + curveTextureLen*4
	uniformSize     = uOffSatSatRatio + curveTextureLen*4
)

func putI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:], uint32(v))
}

func getI32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off:]))
}

func putF32(b []byte, off int, v float64) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(float32(v)))
}

func getF32(b []byte, off int) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[off:])))
}

func putVec3(b []byte, off int, v colormath.Vec3) {
	putF32(b, off, v[0])
	putF32(b, off+4, v[1])
	putF32(b, off+8, v[2])
}

func getVec3(b []byte, off int) colormath.Vec3 {
	return colormath.Vec3{getF32(b, off), getF32(b, off+4), getF32(b, off+8)}
}

// putMat3/getMat3 marshal a Mat3 as three rows, each padded to a vec4
// (std140 mat3x3 layout: every column/row occupies 16 bytes).
func putMat3(b []byte, off int, m colormath.Mat3) {
	for i, row := range m {
		putVec3(b, off+i*16, row)
	}
}

func getMat3(b []byte, off int) colormath.Mat3 {
	var m colormath.Mat3
	for i := range m {
		m[i] = getVec3(b, off+i*16)
	}
	return m
}

func putTable(b []byte, off int, t *[curveTextureLen]float32) {
	for i, v := range t {
		binary.LittleEndian.PutUint32(b[off+i*4:], math.Float32bits(v))
	}
}

func getTable(b []byte, off int, t *[curveTextureLen]float32) {
	for i := range t {
		t[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[off+i*4:]))
	}
}

// marshalBakeUniforms serializes the grid/domain/params/curve-table state
// the bake shader reads into its uniform buffer.
func marshalBakeUniforms(n int, domainMin, domainMax colormath.Vec3, p *transform.Params, t *transform.CurveTables) []byte {
	b := make([]byte, uniformSize)
	putI32(b, uOffN, int32(n))
	putVec3(b, uOffDomainMin, domainMin)
	putVec3(b, uOffDomainMax, domainMax)
	putI32(b, uOffSpaces, int32(p.InputSpace))
	putI32(b, uOffSpaces+4, int32(p.WorkingSpace))
	putI32(b, uOffSpaces+8, int32(p.OutputSpace))
	putI32(b, uOffSpaces+12, int32(p.OutputOETF))

	inMat, ok := colorspace.Convert(p.InputSpace, p.WorkingSpace)
	if !ok {
		inMat = colormath.Identity3()
	}
	putMat3(b, uOffInMat, inMat)
	outMat, ok := colorspace.Convert(p.WorkingSpace, p.OutputSpace)
	if !ok {
		outMat = colormath.Identity3()
	}
	putMat3(b, uOffOutMat, outMat)
	putMat3(b, uOffWBMat, transform.WhiteBalanceMatrix(p.Sliders.Temperature, p.Sliders.Tint))

	for i, w := range p.Wheels {
		o := uOffWheels + i*16
		putF32(b, o, w.Lift)
		putF32(b, o+4, w.Gamma)
		putF32(b, o+8, w.Gain)
		putF32(b, o+12, w.Offset)
	}
	sliders := [10]float64{
		p.Sliders.Temperature, p.Sliders.Tint, p.Sliders.Contrast, p.Sliders.Pivot,
		p.Sliders.MidtoneDetail, p.Sliders.Shadows, p.Sliders.Highlights,
		p.Sliders.Saturation, p.Sliders.Hue, p.Sliders.LumaMix,
	}
	for i, v := range sliders {
		putF32(b, uOffSliders+i*4, v)
	}
	putTable(b, uOffHueOffset, &t.HueOffset)
	putTable(b, uOffHueSatRatio, &t.HueSatRatio)
	putTable(b, uOffLumSatRatio, &t.LumSatRatio)
	putTable(b, uOffSatSatRatio, &t.SatSatRatio)
	return b
}

// unmarshalBakeUniforms is the bake kernel's inverse of marshalBakeUniforms.
func unmarshalBakeUniforms(b []byte) (n int, domainMin, domainMax colormath.Vec3, p transform.Params, t transform.CurveTables) {
	n = int(getI32(b, uOffN))
	domainMin = getVec3(b, uOffDomainMin)
	domainMax = getVec3(b, uOffDomainMax)
	p.InputSpace = colorspace.Space(getI32(b, uOffSpaces))
	p.WorkingSpace = colorspace.Space(getI32(b, uOffSpaces+4))
	p.OutputSpace = colorspace.Space(getI32(b, uOffSpaces+8))
	p.OutputOETF = colorspace.DisplayOETF(getI32(b, uOffSpaces+12))
	for i := range p.Wheels {
		o := uOffWheels + i*16
		p.Wheels[i] = transform.Wheel{
			Lift:   getF32(b, o),
			Gamma:  getF32(b, o+4),
			Gain:   getF32(b, o+8),
			Offset: getF32(b, o+12),
		}
	}
	p.Sliders = transform.Sliders{
		Temperature:   getF32(b, uOffSliders),
		Tint:          getF32(b, uOffSliders+4),
		Contrast:      getF32(b, uOffSliders+8),
		Pivot:         getF32(b, uOffSliders+12),
		MidtoneDetail: getF32(b, uOffSliders+16),
		Shadows:       getF32(b, uOffSliders+20),
		Highlights:    getF32(b, uOffSliders+24),
		Saturation:    getF32(b, uOffSliders+28),
		Hue:           getF32(b, uOffSliders+32),
		LumaMix:       getF32(b, uOffSliders+36),
	}
	getTable(b, uOffHueOffset, &t.HueOffset)
	getTable(b, uOffHueSatRatio, &t.HueSatRatio)
	getTable(b, uOffLumSatRatio, &t.LumSatRatio)
	getTable(b, uOffSatSatRatio, &t.SatSatRatio)
	return
}

// BakeDispatch records the bake compute pass into cb: binds a uniform buffer
// carrying grid/domain/params plus the four pre-baked curve textures, and
// dispatches one invocation per LUT entry at workgroup size (8,8,4),
// writing into out (a storage buffer sized N^3 RGBA f32 entries, spec
// §4.3). The curve-texture sampling the GPU path uses is piecewise-linear
// over 256 entries, not the Catmull-Rom spline the CPU reference
// evaluator uses for the curves stage — the two paths are expected to
// agree only within the transform's documented ~1e-2 tolerance.
func BakeDispatch(g gpu.GPU, cb gpu.CmdBuffer, n int, domainMin, domainMax colormath.Vec3, params *transform.Params, out gpu.Buffer) error {
	tables := transform.CurveTables{
		HueOffset:   BakeHueOffsetTexture(params.Curves.HueVsHue),
		HueSatRatio: BakeSatRatioTexture(params.Curves.HueVsSat),
		LumSatRatio: BakeSatRatioTexture(params.Curves.LumVsSat),
		SatSatRatio: BakeSatRatioTexture(params.Curves.SatVsSat),
	}
	uniformBytes := marshalBakeUniforms(n, domainMin, domainMax, params, &tables)

	uniformBuf, err := g.NewBuffer(int64(len(uniformBytes)), false, gpu.UShaderRead)
	if err != nil {
		return err
	}
	uniformBuf.SetBytes(0, uniformBytes)

	heap, err := g.NewDescHeap([]gpu.Descriptor{{Type: gpu.DConstant}, {Type: gpu.DBuffer}})
	if err != nil {
		return err
	}
	if err := heap.New(1); err != nil {
		return err
	}
	heap.SetBuffer(0, 0, 0, []gpu.Buffer{uniformBuf}, []int64{0}, []int64{uniformBuf.Cap()})
	heap.SetBuffer(0, 1, 0, []gpu.Buffer{out}, []int64{0}, []int64{out.Cap()})

	table, err := g.NewDescTable([]gpu.DescHeap{heap})
	if err != nil {
		return err
	}

	sc, err := g.NewShaderCode([]byte(shaders.Bake))
	if err != nil {
		return err
	}
	pl, err := g.NewPipeline(&gpu.CompState{Func: gpu.ShaderFunc{Code: sc, Name: bakeKernelName}, Desc: table})
	if err != nil {
		return err
	}

	cb.BeginWork(false)
	cb.SetPipeline(pl)
	cb.SetDescTableComp(table, 0, []int{0})
	gx := ceilDiv(n, bakeWorkgroup[0])
	gy := ceilDiv(n, bakeWorkgroup[1])
	gz := ceilDiv(n, bakeWorkgroup[2])
	cb.Dispatch(gx, gy, gz)
	cb.EndWork()
	return nil
}

func ceilDiv(a, b int) int { return int(math.Ceil(float64(a) / float64(b))) }

// runBakeKernel is the cpuref implementation of the bake shader: it reads
// its parameters from the bound uniform buffer exactly as a real shader
// would read a uniform block, and writes LUT entries straight into the
// bound output buffer's bytes.
func runBakeKernel(ctx *cpuref.KernelContext) {
	n, domainMin, domainMax, params, tables := unmarshalBakeUniforms(ctx.Buffer(0, 0))
	l := New(n, domainMin, domainMax)
	for bi := 0; bi < n; bi++ {
		for gi := 0; gi < n; gi++ {
			for ri := 0; ri < n; ri++ {
				rgb := l.GridCoord(ri, gi, bi)
				out := transform.EvaluateWithCurveTables(rgb, &params, tables)
				l.Set(ri, gi, bi, out)
			}
		}
	}
	out := ctx.Buffer(0, 1)
	for i, v := range l.Data {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
}
