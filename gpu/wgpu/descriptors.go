package wgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/crispen/core/gpu"
)

// descHeap groups a set of descriptors into one wgpu bind group layout,
// with n independently-bindable copies of the underlying resource
// assignments (mirroring the teacher's DescHeap.New(n) heap-copy model).
type descHeap struct {
	device  *wgpu.Device
	layout  *wgpu.BindGroupLayout
	entries []gpu.Descriptor
	copies  []bindGroupCopy
}

type bindGroupCopy struct {
	buffers  map[int][]bufBinding
	images   map[int][]*imageView
	samplers map[int][]*sampler
}

type bufBinding struct {
	buf     *buffer
	off, sz int64
}

func bindGroupLayoutEntries(ds []gpu.Descriptor) []wgpu.BindGroupLayoutEntry {
	out := make([]wgpu.BindGroupLayoutEntry, 0, len(ds))
	for i, d := range ds {
		e := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: wgpu.ShaderStageCompute,
		}
		switch d.Type {
		case gpu.DBuffer:
			e.Buffer = wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}
		case gpu.DConstant:
			e.Buffer = wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}
		case gpu.DImage:
			e.StorageTexture = wgpu.StorageTextureBindingLayout{Access: wgpu.StorageTextureAccessWriteOnly}
		case gpu.DTexture:
			e.Texture = wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat}
		case gpu.DSampler:
			e.Sampler = wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}
		}
		out = append(out, e)
	}
	return out
}

func (b *Backend) NewDescHeap(ds []gpu.Descriptor) (gpu.DescHeap, error) {
	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Entries: bindGroupLayoutEntries(ds),
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	return &descHeap{device: b.device, layout: layout, entries: ds}, nil
}

func (h *descHeap) New(n int) error {
	h.copies = make([]bindGroupCopy, n)
	for i := range h.copies {
		h.copies[i] = bindGroupCopy{
			buffers:  map[int][]bufBinding{},
			images:   map[int][]*imageView{},
			samplers: map[int][]*sampler{},
		}
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
	views := make([]*imageView, len(iv))
	for i, v := range iv {
		views[i] = v.(*imageView)
	}
	h.copies[cpy].images[nr] = views
}

func (h *descHeap) SetSampler(cpy, nr, start int, splr []gpu.Sampler) {
	samps := make([]*sampler, len(splr))
	for i, s := range splr {
		samps[i] = s.(*sampler)
	}
	h.copies[cpy].samplers[nr] = samps
}

func (h *descHeap) Count() int { return len(h.copies) }

func (h *descHeap) Destroy() { h.layout.Release() }

// descTable materializes one wgpu.BindGroup per heap copy, combining every
// descriptor heap bound to the pipeline.
type descTable struct {
	device *wgpu.Device
	heaps  []*descHeap
	groups []*bindGroupSet
}

type bindGroupSet struct {
	device *wgpu.Device
	heap   *descHeap
	cache  map[int]*wgpu.BindGroup
}

func (s *bindGroupSet) bindGroup(cpy int) *wgpu.BindGroup {
	if bg, ok := s.cache[cpy]; ok {
		return bg
	}
	c := s.heap.copies[cpy]
	entries := make([]wgpu.BindGroupEntry, 0, len(s.heap.entries))
	for nr := range s.heap.entries {
		if bufs, ok := c.buffers[nr]; ok && len(bufs) > 0 {
			bb := bufs[0]
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: uint32(nr),
				Buffer:  bb.buf.buf,
				Offset:  uint64(bb.off),
				Size:    uint64(bb.sz),
			})
		} else if views, ok := c.images[nr]; ok && len(views) > 0 {
			entries = append(entries, wgpu.BindGroupEntry{Binding: uint32(nr), TextureView: views[0].v})
		} else if samps, ok := c.samplers[nr]; ok && len(samps) > 0 {
			entries = append(entries, wgpu.BindGroupEntry{Binding: uint32(nr), Sampler: samps[0].s})
		}
	}
	bg, err := s.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  s.heap.layout,
		Entries: entries,
	})
	if err != nil {
		panic(fmt.Errorf("wgpu: create bind group: %w", err))
	}
	if s.cache == nil {
		s.cache = map[int]*wgpu.BindGroup{}
	}
	s.cache[cpy] = bg
	return bg
}

func (b *Backend) NewDescTable(dh []gpu.DescHeap) (gpu.DescTable, error) {
	heaps := make([]*descHeap, len(dh))
	groups := make([]*bindGroupSet, len(dh))
	for i, h := range dh {
		dhc := h.(*descHeap)
		heaps[i] = dhc
		groups[i] = &bindGroupSet{device: b.device, heap: dhc}
	}
	return &descTable{device: b.device, heaps: heaps, groups: groups}, nil
}

func (t *descTable) Destroy() {}
