package cpuref

import "github.com/crispen/core/gpu"

// buffer is a plain-slice gpu.Buffer. Mapping is synchronous in spirit but
// queues its callback through the owning backend's Poll mechanism so
// callers written against the asynchronous protocol behave the same way
// against this backend.
type buffer struct {
	data    []byte
	visible bool
	mapped  bool
	backend *Backend
}

func (b *buffer) Visible() bool { return b.visible }

func (b *buffer) Bytes() []byte {
	if !b.mapped {
		return nil
	}
	return b.data
}

func (b *buffer) Cap() int64 { return int64(len(b.data)) }

func (b *buffer) SetBytes(off int64, data []byte) { copy(b.data[off:], data) }

func (b *buffer) MapAsync(mode gpu.MapMode, off, size int64, cb func(error)) {
	b.backend.queue(func() {
		b.mapped = true
		cb(nil)
	})
}

func (b *buffer) Unmap() { b.mapped = false }

func (b *buffer) Destroy() { b.data = nil }

// image is a plain-slice gpu.Image.
type image struct {
	format gpu.PixelFmt
	size   gpu.Dim3D
	data   []byte
}

func (i *image) NewView(typ gpu.ViewType) (gpu.ImageView, error) {
	return &imageView{img: i}, nil
}

func (i *image) Destroy() { i.data = nil }

type imageView struct{ img *image }

func (v *imageView) Destroy() {}

// sampler holds the sampling state it was created with; no cpuref kernel
// reads it.
type sampler struct{ sampling gpu.Sampling }

func (s *sampler) Destroy() {}

// shaderCode wraps shader module source. cpuref does not execute this
// source directly (it has no WGSL compiler); the module is opaque here and
// exists so the backend-agnostic dispatch layer can hand the same real
// WGSL text to both cpuref and a hardware backend. The kernel that actually
// runs is resolved from the entry point name in NewPipeline.
type shaderCode struct {
	src []byte
}

func (s *shaderCode) Destroy() {}
