package cpuref

import "github.com/crispen/core/gpu"

type descHeapCopy struct {
	buffers map[int][]bufBinding
	images  map[int][]*image
}

type bufBinding struct {
	buf     *buffer
	off, sz int64
}

// descHeap is the cpuref gpu.DescHeap: a set of descriptor slots with n
// independently-bindable resource assignments.
type descHeap struct {
	entries []gpu.Descriptor
	copies  []descHeapCopy
}

func (h *descHeap) New(n int) error {
	h.copies = make([]descHeapCopy, n)
	for i := range h.copies {
		h.copies[i] = descHeapCopy{buffers: map[int][]bufBinding{}, images: map[int][]*image{}}
	}
	return nil
}

func (h *descHeap) SetBuffer(cpy, nr, start int, buf []gpu.Buffer, off, size []int64) {
	bindings := make([]bufBinding, len(buf))
	for i, b := range buf {
		bindings[i] = bufBinding{buf: b.(*buffer), off: off[i], sz: size[i]}
	}
	h.copies[cpy].buffers[nr] = bindings
}

func (h *descHeap) SetImage(cpy, nr, start int, iv []gpu.ImageView) {
	imgs := make([]*image, len(iv))
	for i, v := range iv {
		imgs[i] = v.(*imageView).img
	}
	h.copies[cpy].images[nr] = imgs
}

func (h *descHeap) SetSampler(cpy, nr, start int, splr []gpu.Sampler) {
	// No cpuref kernel does filtered sampling, so bound samplers are not
	// recorded in the descriptor table.
}

func (h *descHeap) Count() int { return len(h.copies) }

func (h *descHeap) Destroy() {}

// descTable binds a set of descriptor heaps to a pipeline.
type descTable struct {
	heaps []*descHeap
}

func (t *descTable) Destroy() {}

// pipeline binds a registered kernel to the descriptor table it reads
// from and writes to. The kernel is resolved by entry point name at
// pipeline creation, mirroring how a hardware backend resolves the entry
// point within a compiled shader module.
type pipeline struct {
	name string
	fn   KernelFunc
	desc *descTable
}

func (p *pipeline) Destroy() {}
