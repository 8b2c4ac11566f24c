// Package readback implements the two-slot asynchronous staging state
// machine the orchestrator drives every frame: copy commands are
// recorded into the submitted encoder, map_async is armed once the
// encoder is submitted, and a later non-blocking poll consumes the
// result without ever blocking the caller (spec §4.7).
package readback

import (
	"fmt"
	"sync/atomic"

	"github.com/crispen/core/gpu"
)

// slotState is a readback slot's position in its state machine.
type slotState int

const (
	idle slotState = iota
	recording
	mapping
	ready
)

// bufIdx names the five staging buffers a slot carries, in the fixed
// order the counter counts against (spec §4.7 "counter = 5").
const (
	bufViewer = iota
	bufHistogram
	bufWaveform
	bufVectorscope
	bufCIE
	numBufs
)

// Slot is one half of the readback's double buffer: five CPU-mappable
// staging buffers (viewer + four scopes) and the atomic counter that
// tracks how many of their map_async callbacks have completed.
type Slot struct {
	bufs    [numBufs]gpu.Buffer
	sizes   [numBufs]int64
	state   slotState
	counter int32
}

// NewSlot allocates a slot's five staging buffers at the given sizes.
func NewSlot(g gpu.GPU, sizes [numBufs]int64) (*Slot, error) {
	s := &Slot{sizes: sizes}
	for i, n := range sizes {
		buf, err := g.NewBuffer(n, true, gpu.UCopyDst)
		if err != nil {
			for j := 0; j < i; j++ {
				s.bufs[j].Destroy()
			}
			return nil, fmt.Errorf("readback: new slot buffer %d: %w", i, err)
		}
		s.bufs[i] = buf
	}
	return s, nil
}

// Destroy releases the slot's staging buffers.
func (s *Slot) Destroy() {
	for _, b := range s.bufs {
		if b != nil {
			b.Destroy()
		}
	}
}

// Bundle is the consumer-facing result of a ready slot: the viewer
// image bytes plus the four scope result buffers, each a plain copy out
// of the slot's mapped ranges (spec §4.8 "{viewer_bytes, ..., scope_results}").
type Bundle struct {
	ViewerBytes  []byte
	Histogram    []byte
	Waveform     []byte
	Vectorscope  []byte
	CIE          []byte
}

// Readback is the orchestrator's double-buffered async staging state.
// At most one slot is ever in-flight (spec §4.7 invariant 1).
type Readback struct {
	slots      [2]*Slot
	pendingIdx int // -1 when no slot is in-flight
	lastIdx    int // -1 until the first SubmitReadback call
}

// New creates a Readback with both slots sized per sizes (viewer +
// four scope buffers, in bufViewer..bufCIE order).
func New(g gpu.GPU, sizes [numBufs]int64) (*Readback, error) {
	r := &Readback{pendingIdx: -1, lastIdx: -1}
	for i := range r.slots {
		s, err := NewSlot(g, sizes)
		if err != nil {
			for j := 0; j < i; j++ {
				r.slots[j].Destroy()
			}
			return nil, err
		}
		r.slots[i] = s
	}
	return r, nil
}

// Destroy releases both slots.
func (r *Readback) Destroy() {
	for _, s := range r.slots {
		s.Destroy()
	}
}

// HasPending reports whether a slot is currently in-flight (spec §4.8
// has_pending_readback, used by the driver to gate submission).
func (r *Readback) HasPending() bool { return r.pendingIdx >= 0 }

// SourceBuffers bundles the five GPU-resident buffers a frame's
// submit_readback copies out of, in the fixed bufViewer..bufCIE order.
type SourceBuffers struct {
	Viewer, Histogram, Waveform, Vectorscope, CIE gpu.Buffer
}

// SubmitReadback records buffer-to-buffer copies from src into the slot
// that is not the currently in-flight one (or slot 0 if none is
// in-flight), per spec §4.7. It refuses to record into an occupied
// slot: the caller must have already checked HasPending via the
// orchestrator's back-pressure rule. It returns the slot index the
// caller must pass to BeginMapAfterSubmit once the encoder is submitted.
func (r *Readback) SubmitReadback(cb gpu.CmdBuffer, src SourceBuffers) (int, error) {
	if r.HasPending() {
		return 0, fmt.Errorf("readback: submit while a slot is pending")
	}
	idx := 0
	if r.lastIdx >= 0 {
		idx = 1 - r.lastIdx
	}
	slot := r.slots[idx]
	srcs := [numBufs]gpu.Buffer{
		bufViewer:      src.Viewer,
		bufHistogram:   src.Histogram,
		bufWaveform:    src.Waveform,
		bufVectorscope: src.Vectorscope,
		bufCIE:         src.CIE,
	}
	for i, from := range srcs {
		cb.CopyBuffer(&gpu.BufferCopy{From: from, FromOff: 0, To: slot.bufs[i], ToOff: 0, Size: slot.sizes[i]})
	}
	slot.state = recording
	r.lastIdx = idx
	return idx, nil
}

// BeginMapAfterSubmit arms map_async on every buffer of the slot just
// written by SubmitReadback, and marks it as the in-flight slot
// (spec §4.7 begin_map_after_submit). Call this only after the caller
// has submitted the command buffer containing SubmitReadback's copies.
func (r *Readback) BeginMapAfterSubmit(g gpu.GPU, idx int) {
	slot := r.slots[idx]
	slot.counter = 0
	slot.state = mapping
	r.pendingIdx = idx
	for _, b := range slot.bufs {
		b := b
		b.MapAsync(gpu.MapRead, 0, b.Cap(), func(err error) {
			if err == nil {
				atomic.AddInt32(&slot.counter, 1)
			}
		})
	}
}

// TryConsume is non-blocking: if no slot is in-flight it returns
// (nil, false) immediately. Otherwise it drives one non-blocking device
// poll; if the in-flight slot's counter has reached numBufs, it copies
// out pixels and scope bytes, unmaps every buffer, clears pendingIdx and
// returns the bundle (spec §4.7 try_consume).
func (r *Readback) TryConsume(g gpu.GPU) (*Bundle, bool) {
	if !r.HasPending() {
		return nil, false
	}
	g.Poll()
	slot := r.slots[r.pendingIdx]
	if atomic.LoadInt32(&slot.counter) < numBufs {
		return nil, false
	}

	bundle := &Bundle{
		ViewerBytes: append([]byte(nil), slot.bufs[bufViewer].Bytes()...),
		Histogram:   append([]byte(nil), slot.bufs[bufHistogram].Bytes()...),
		Waveform:    append([]byte(nil), slot.bufs[bufWaveform].Bytes()...),
		Vectorscope: append([]byte(nil), slot.bufs[bufVectorscope].Bytes()...),
		CIE:         append([]byte(nil), slot.bufs[bufCIE].Bytes()...),
	}
	for _, b := range slot.bufs {
		b.Unmap()
	}
	slot.state = idle
	r.pendingIdx = -1
	return bundle, true
}
