package orchestrator

import (
	"testing"

	"github.com/crispen/core/gpu"
	"github.com/crispen/core/gpu/cpuref"
	"github.com/crispen/core/transform"
)

func newSource(t *testing.T, g gpu.GPU, width, height int) gpu.Buffer {
	t.Helper()
	n := width * height
	buf, err := g.NewBuffer(int64(n*16), false, gpu.UShaderRead|gpu.UCopySrc)
	if err != nil {
		t.Fatalf("new source buffer: %v", err)
	}
	data := make([]byte, n*16)
	buf.SetBytes(0, data)
	return buf
}

func TestSubmitFrameFullCycle(t *testing.T) {
	g := cpuref.New()
	o := New(g)
	defer o.Destroy()

	width, height, lutSize := 2, 2, 4
	src := newSource(t, g, width, height)
	params := transform.DefaultParams()

	if o.HasPendingReadback() {
		t.Fatalf("fresh orchestrator must not have a pending readback")
	}

	if err := o.SubmitFrame(src, width, height, &params, lutSize); err != nil {
		t.Fatalf("SubmitFrame: %v", err)
	}
	if !o.HasPendingReadback() {
		t.Fatalf("expected a pending readback after SubmitFrame")
	}

	bundle, ok := o.TryConsumeReadback()
	if !ok {
		t.Fatalf("expected TryConsumeReadback to succeed for the cpuref backend")
	}
	if len(bundle.ViewerBytes) != width*height*16 {
		t.Errorf("viewer bytes size = %d, want %d", len(bundle.ViewerBytes), width*height*16)
	}
	if o.HasPendingReadback() {
		t.Fatalf("TryConsumeReadback must clear the pending slot")
	}
}

func TestSubmitFrameRefusesWhilePending(t *testing.T) {
	g := cpuref.New()
	o := New(g)
	defer o.Destroy()

	width, height, lutSize := 2, 2, 4
	src := newSource(t, g, width, height)
	params := transform.DefaultParams()

	if err := o.SubmitFrame(src, width, height, &params, lutSize); err != nil {
		t.Fatalf("SubmitFrame: %v", err)
	}
	// A second submit without consuming the first must be refused.
	if err := o.SubmitFrame(src, width, height, &params, lutSize); err == nil {
		t.Fatalf("expected back-pressure error while a readback is pending")
	}
}

func TestSubmitFrameRecreatesResourcesOnSizeChange(t *testing.T) {
	g := cpuref.New()
	o := New(g)
	defer o.Destroy()

	params := transform.DefaultParams()
	src1 := newSource(t, g, 2, 2)
	if err := o.SubmitFrame(src1, 2, 2, &params, 4); err != nil {
		t.Fatalf("first SubmitFrame: %v", err)
	}
	if _, ok := o.TryConsumeReadback(); !ok {
		t.Fatalf("expected first frame to be consumable")
	}

	src2 := newSource(t, g, 3, 3)
	if err := o.SubmitFrame(src2, 3, 3, &params, 8); err != nil {
		t.Fatalf("second SubmitFrame after resize: %v", err)
	}
	bundle, ok := o.TryConsumeReadback()
	if !ok {
		t.Fatalf("expected second frame to be consumable")
	}
	if len(bundle.ViewerBytes) != 3*3*16 {
		t.Errorf("viewer bytes size after resize = %d, want %d", len(bundle.ViewerBytes), 3*3*16)
	}
}

func TestSubmitFrameUseF16ResizesViewerSlot(t *testing.T) {
	g := cpuref.New()
	o := New(g)
	defer o.Destroy()

	width, height, lutSize := 2, 2, 4
	params := transform.DefaultParams()
	src := newSource(t, g, width, height)

	if err := o.SubmitFrame(src, width, height, &params, lutSize); err != nil {
		t.Fatalf("first SubmitFrame: %v", err)
	}
	bundle, ok := o.TryConsumeReadback()
	if !ok {
		t.Fatalf("expected first frame to be consumable")
	}
	if len(bundle.ViewerBytes) != width*height*16 {
		t.Errorf("f32 viewer bytes size = %d, want %d", len(bundle.ViewerBytes), width*height*16)
	}

	o.SetUseF16(true)
	if err := o.SubmitFrame(src, width, height, &params, lutSize); err != nil {
		t.Fatalf("SubmitFrame after SetUseF16: %v", err)
	}
	bundle, ok = o.TryConsumeReadback()
	if !ok {
		t.Fatalf("expected f16 frame to be consumable")
	}
	if len(bundle.ViewerBytes) != width*height*8 {
		t.Errorf("f16 viewer bytes size = %d, want %d", len(bundle.ViewerBytes), width*height*8)
	}
}
