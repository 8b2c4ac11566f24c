// Package format implements the optional f32->f16 narrowing pass that
// halves viewer readback bandwidth (spec §4.6).
package format

import (
	"encoding/binary"
	"math"

	"github.com/crispen/core/gpu"
	"github.com/crispen/core/gpu/cpuref"
	"github.com/crispen/core/gpu/shaders"
	"golang.org/x/image/math/f16"
)

const kernelName = "format_convert"

// Workgroup is the workgroup size mandated for the converter pass.
var Workgroup = [3]int{256, 1, 1}

func init() {
	cpuref.RegisterKernel(kernelName, runKernel)
}

// Dispatch records the f32->f16 narrowing pass into cb: one invocation
// per pixel, reading src (RGBA f32) and writing out (RGBA f16, 8 bytes
// per pixel), workgroup size 256 (spec §4.6).
func Dispatch(g gpu.GPU, cb gpu.CmdBuffer, pixelCount int, src, out gpu.Buffer) error {
	heap, err := g.NewDescHeap([]gpu.Descriptor{{Type: gpu.DBuffer}, {Type: gpu.DBuffer}})
	if err != nil {
		return err
	}
	if err := heap.New(1); err != nil {
		return err
	}
	heap.SetBuffer(0, 0, 0, []gpu.Buffer{src}, []int64{0}, []int64{src.Cap()})
	heap.SetBuffer(0, 1, 0, []gpu.Buffer{out}, []int64{0}, []int64{out.Cap()})

	table, err := g.NewDescTable([]gpu.DescHeap{heap})
	if err != nil {
		return err
	}
	sc, err := g.NewShaderCode([]byte(shaders.FormatConvert))
	if err != nil {
		return err
	}
	pl, err := g.NewPipeline(&gpu.CompState{Func: gpu.ShaderFunc{Code: sc, Name: kernelName}, Desc: table})
	if err != nil {
		return err
	}

	cb.BeginWork(false)
	cb.SetPipeline(pl)
	cb.SetDescTableComp(table, 0, []int{0})
	gx := (pixelCount + Workgroup[0] - 1) / Workgroup[0]
	cb.Dispatch(gx, 1, 1)
	cb.EndWork()
	return nil
}

func runKernel(ctx *cpuref.KernelContext) {
	src := ctx.Buffer(0, 0)
	out := ctx.Buffer(0, 1)
	n := len(src) / 16
	ConvertCPU(src[:n*16], out[:n*8])
}

// ConvertCPU narrows an RGBA f32 pixel buffer into RGBA f16, the CPU
// reference path for the converter dispatch. Narrowing uses
// golang.org/x/image/math/f16's round-to-nearest-even conversion
// (spec §4.6).
func ConvertCPU(src, dst []byte) {
	n := len(src) / 4
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(src[i*4:])
		v := math.Float32frombits(bits)
		h := f16.Fromfloat32(v)
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(h))
	}
}
