// Package cpuref implements gpu.GPU entirely in Go over plain slices. It
// backs the CPU reference paths that spec §4.3/§4.4 require the LUT baker
// and applicator to be checkable against, and it lets the rest of the
// module be exercised in tests without a real graphics adapter.
//
// Every "dispatch" runs synchronously and immediately during Commit; Poll
// only drains queued MapAsync callbacks, mirroring the asynchronous shape
// of a real backend without an actual device to wait on.
package cpuref

import (
	"fmt"
	"log"
	"sync"

	"github.com/crispen/core/gpu"
)

// Backend is the CPU reference gpu.GPU implementation.
type Backend struct {
	mu      sync.Mutex
	pending []func()
}

// New returns a ready-to-use CPU reference backend.
func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "cpuref" }

func (b *Backend) Limits() gpu.Limits {
	return gpu.Limits{
		MaxImage3D:             4096,
		MaxDescHeaps:           8,
		MaxDBuffer:             16,
		MaxDImage:              8,
		MaxDTexture:            8,
		MaxDSampler:            8,
		MaxDBufferRange:        1 << 30,
		MaxDispatch:            [3]int{65535, 65535, 65535},
		SupportsFilterableF32:  true,
	}
}

// Poll drains every callback queued by a completed MapAsync call. Since
// this backend executes dispatches synchronously during Commit, every
// MapAsync is already "complete" by the time it is queued; Poll exists so
// callers written against the asynchronous protocol work unmodified.
func (b *Backend) Poll() bool {
	b.mu.Lock()
	fns := b.pending
	b.pending = nil
	b.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns) > 0
}

func (b *Backend) queue(fn func()) {
	b.mu.Lock()
	b.pending = append(b.pending, fn)
	b.mu.Unlock()
}

// Commit executes every recorded command buffer's dispatch functions in
// order and reports completion synchronously.
func (b *Backend) Commit(cb []gpu.CmdBuffer, ch chan<- error) {
	for _, c := range cb {
		wc, ok := c.(*cmdBuffer)
		if !ok {
			ch <- fmt.Errorf("cpuref: foreign command buffer type %T", c)
			return
		}
		for _, op := range wc.ops {
			if err := op(); err != nil {
				ch <- err
				return
			}
		}
	}
	ch <- nil
}

func (b *Backend) NewCmdBuffer() (gpu.CmdBuffer, error) { return &cmdBuffer{}, nil }

func (b *Backend) NewShaderCode(data []byte) (gpu.ShaderCode, error) {
	return &shaderCode{src: data}, nil
}

func (b *Backend) NewDescHeap(ds []gpu.Descriptor) (gpu.DescHeap, error) {
	return &descHeap{entries: ds}, nil
}

func (b *Backend) NewDescTable(dh []gpu.DescHeap) (gpu.DescTable, error) {
	heaps := make([]*descHeap, len(dh))
	for i, h := range dh {
		heaps[i] = h.(*descHeap)
	}
	return &descTable{heaps: heaps}, nil
}

func (b *Backend) NewPipeline(state *gpu.CompState) (gpu.Pipeline, error) {
	fn := lookupKernel(state.Func.Name)
	if fn == nil {
		return nil, fmt.Errorf("cpuref: no kernel registered for entry point %q", state.Func.Name)
	}
	log.Printf("cpuref: compiled pipeline %q", state.Func.Name)
	return &pipeline{name: state.Func.Name, fn: fn, desc: state.Desc.(*descTable)}, nil
}

func (b *Backend) NewBuffer(size int64, visible bool, usg gpu.Usage) (gpu.Buffer, error) {
	return &buffer{data: make([]byte, size), visible: visible, backend: b}, nil
}

func (b *Backend) NewImage(pf gpu.PixelFmt, size gpu.Dim3D, usg gpu.Usage) (gpu.Image, error) {
	return &image{format: pf, size: size, data: make([]byte, imageBytes(pf, size))}, nil
}

func (b *Backend) NewSampler(spln *gpu.Sampling) (gpu.Sampler, error) {
	return &sampler{sampling: *spln}, nil
}

func imageBytes(pf gpu.PixelFmt, size gpu.Dim3D) int64 {
	n := int64(size.Width) * int64(size.Height) * int64(max(size.Depth, 1))
	switch pf {
	case gpu.RGBA32f:
		return n * 16
	case gpu.RGBA16f:
		return n * 8
	case gpu.RGBA8un:
		return n * 4
	case gpu.R32f, gpu.R32ui:
		return n * 4
	default:
		return n * 16
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
