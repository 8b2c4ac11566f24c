package crispen

import (
	"testing"

	"github.com/crispen/core/gpu"
	"github.com/crispen/core/gpu/cpuref"
	"github.com/crispen/core/grading"
)

func newSourceBuffer(t *testing.T, g gpu.GPU, width, height int) gpu.Buffer {
	t.Helper()
	buf, err := g.NewBuffer(int64(width*height*16), false, gpu.UShaderRead|gpu.UCopySrc)
	if err != nil {
		t.Fatalf("new source buffer: %v", err)
	}
	buf.SetBytes(0, make([]byte, width*height*16))
	return buf
}

func TestEngineFullFrameCycle(t *testing.T) {
	g := cpuref.New()
	e := New(g)
	defer e.Close()
	e.SetLutSize(4)

	width, height := 2, 2
	if _, err := e.Apply(grading.LoadImage{Image: &grading.Image{
		Width: width, Height: height,
		Pixels: make([]float32, width*height*4),
	}}); err != nil {
		t.Fatalf("Apply LoadImage: %v", err)
	}

	src := newSourceBuffer(t, g, width, height)
	if err := e.SubmitFrame(src, width, height); err != nil {
		t.Fatalf("SubmitFrame: %v", err)
	}
	if !e.HasPendingReadback() {
		t.Fatalf("expected a pending readback after SubmitFrame")
	}

	bundle, ok := e.TryConsumeReadback()
	if !ok {
		t.Fatalf("expected the cpuref backend to complete readback synchronously")
	}
	if len(bundle.ViewerBytes) != width*height*16 {
		t.Errorf("viewer bytes size = %d, want %d", len(bundle.ViewerBytes), width*height*16)
	}
}

func TestEngineSubmitFrameRequiresLoadedImage(t *testing.T) {
	g := cpuref.New()
	e := New(g)
	defer e.Close()

	src := newSourceBuffer(t, g, 1, 1)
	if err := e.SubmitFrame(src, 1, 1); err == nil {
		t.Fatalf("expected an error submitting a frame with no loaded image")
	}
}

func TestEngineApplySetParamsMarksDirty(t *testing.T) {
	g := cpuref.New()
	e := New(g)
	defer e.Close()

	p := e.State().Params
	p.Sliders.Contrast = 1.2
	events, err := e.Apply(grading.SetParams{Params: p})
	if err != nil {
		t.Fatalf("Apply SetParams: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if !e.State().Dirty {
		t.Errorf("state should be dirty after a material params change")
	}
}
