package readback

import (
	"testing"

	"github.com/crispen/core/gpu"
	"github.com/crispen/core/gpu/cpuref"
)

func newSourceBuffers(t *testing.T, g gpu.GPU, sizes [numBufs]int64, fill byte) SourceBuffers {
	t.Helper()
	mk := func(n int64) gpu.Buffer {
		b, err := g.NewBuffer(n, false, gpu.UCopySrc)
		if err != nil {
			t.Fatalf("new source buffer: %v", err)
		}
		b.SetBytes(0, bytesOf(n, fill))
		return b
	}
	return SourceBuffers{
		Viewer:      mk(sizes[bufViewer]),
		Histogram:   mk(sizes[bufHistogram]),
		Waveform:    mk(sizes[bufWaveform]),
		Vectorscope: mk(sizes[bufVectorscope]),
		CIE:         mk(sizes[bufCIE]),
	}
}

func bytesOf(n int64, fill byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return b
}

func TestReadbackFullCycle(t *testing.T) {
	g := cpuref.New()
	sizes := [numBufs]int64{16, 8, 8, 8, 8}
	r, err := New(g, sizes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Destroy()

	if r.HasPending() {
		t.Fatalf("fresh readback must not have a pending slot")
	}

	src := newSourceBuffers(t, g, sizes, 0xAB)

	cb, err := g.NewCmdBuffer()
	if err != nil {
		t.Fatalf("NewCmdBuffer: %v", err)
	}
	cb.Begin()
	idx, err := r.SubmitReadback(cb, src)
	if err != nil {
		t.Fatalf("SubmitReadback: %v", err)
	}
	cb.End()

	ch := gpu.Commit(g, cb)
	if err := <-ch; err != nil {
		t.Fatalf("Commit: %v", err)
	}

	r.BeginMapAfterSubmit(g, idx)
	if !r.HasPending() {
		t.Fatalf("expected a pending slot after BeginMapAfterSubmit")
	}

	bundle, ok := r.TryConsume(g)
	if !ok {
		t.Fatalf("expected TryConsume to succeed once all 5 maps complete")
	}
	if r.HasPending() {
		t.Fatalf("TryConsume must clear pendingIdx")
	}
	if len(bundle.ViewerBytes) != int(sizes[bufViewer]) || bundle.ViewerBytes[0] != 0xAB {
		t.Errorf("viewer bytes not copied correctly: %v", bundle.ViewerBytes)
	}

	// A second submit should alternate to the other slot.
	cb2, _ := g.NewCmdBuffer()
	cb2.Begin()
	idx2, err := r.SubmitReadback(cb2, src)
	if err != nil {
		t.Fatalf("second SubmitReadback: %v", err)
	}
	if idx2 == idx {
		t.Errorf("expected ping-pong to alternate slots, got same index %d twice", idx)
	}
}

func TestReadbackRefusesWhilePending(t *testing.T) {
	g := cpuref.New()
	sizes := [numBufs]int64{4, 4, 4, 4, 4}
	r, err := New(g, sizes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Destroy()

	src := newSourceBuffers(t, g, sizes, 1)
	cb, _ := g.NewCmdBuffer()
	cb.Begin()
	idx, err := r.SubmitReadback(cb, src)
	if err != nil {
		t.Fatalf("SubmitReadback: %v", err)
	}
	cb.End()
	<-gpu.Commit(g, cb)
	r.BeginMapAfterSubmit(g, idx)

	cb2, _ := g.NewCmdBuffer()
	cb2.Begin()
	if _, err := r.SubmitReadback(cb2, src); err == nil {
		t.Fatalf("expected back-pressure error while a slot is pending")
	}
}
