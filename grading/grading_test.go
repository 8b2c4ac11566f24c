package grading

import (
	"testing"

	"github.com/crispen/core/transform"
)

func TestSetParamsOnlyDirtiesOnMaterialChange(t *testing.T) {
	s := New()
	s.Dirty = false
	s.SetParams(s.Params)
	if s.Dirty {
		t.Errorf("setting identical params should not dirty the state")
	}
	p := s.Params
	p.Sliders.Contrast = 1.5
	s.SetParams(p)
	if !s.Dirty {
		t.Errorf("setting different params should dirty the state")
	}
}

func TestResetGradeInstallsDefaults(t *testing.T) {
	s := New()
	p := s.Params
	p.Sliders.Saturation = 2
	s.SetParams(p)
	s.ResetGrade()
	want := transform.DefaultSliders()
	if s.Params.Sliders != want {
		t.Errorf("ResetGrade did not install default sliders, got %+v", s.Params.Sliders)
	}
}

func TestAutoWhiteBalanceEmptyImage(t *testing.T) {
	temp, tint := AutoWhiteBalance(nil)
	if temp != 0 || tint != 0 {
		t.Errorf("empty image should produce (0,0), got (%v,%v)", temp, tint)
	}
}

func TestAutoWhiteBalanceNeutralGray(t *testing.T) {
	img := &Image{Width: 1, Height: 1, Pixels: []float32{0.5, 0.5, 0.5, 1}}
	temp, tint := AutoWhiteBalance(img)
	if temp != 0 || tint != 0 {
		t.Errorf("neutral gray should produce (0,0), got (%v,%v)", temp, tint)
	}
}

func TestApplySetParamsEmitsParamsUpdated(t *testing.T) {
	s := New()
	p := s.Params
	p.Sliders.Hue = 45
	events, err := s.Apply(SetParams{Params: p})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	pu, ok := events[0].(ParamsUpdated)
	if !ok {
		t.Fatalf("expected ParamsUpdated, got %T", events[0])
	}
	if pu.Params.Sliders.Hue != 45 {
		t.Errorf("event params not updated")
	}
}

func TestApplyToggleScope(t *testing.T) {
	s := New()
	if _, err := s.Apply(ToggleScope{Name: "histogram", Visible: false}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.ScopeVisibility["histogram"] {
		t.Errorf("histogram should be hidden after ToggleScope")
	}
}
