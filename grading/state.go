// Package grading holds the canonical grading state and the tagged
// command/event protocol the external driver/UI uses to mutate and
// observe it (spec §4.9, §6).
package grading

import (
	"github.com/crispen/core/lut"
	"github.com/crispen/core/transform"
)

// BitDepth records the source image's bit depth for UI display only; it
// plays no part in evaluation, which always operates on linear f32.
type BitDepth int

const (
	BitDepthUnknown BitDepth = iota
	BitDepth8
	BitDepth10
	BitDepth12
	BitDepth16
	BitDepth32Float
)

// Image is the canonical in-memory graded image: contiguous RGBA f32
// pixels in linear working space, plus the source bit depth (spec §3
// "Grading Image").
type Image struct {
	Width, Height int
	Pixels        []float32 // len == Width*Height*4
	SourceDepth   BitDepth
}

// State is the single source of truth for a grade: parameters, a dirty
// flag, the loaded image and the orchestrator's GPU handles. Handles is
// opaque to this package — grading never touches GPU resources directly
// (spec §4.9 "{params, dirty, image_state, gpu_handles}").
type State struct {
	Params  transform.Params
	Dirty   bool
	Image   *Image
	Handles any

	// CreativeLUTs holds LUTs loaded via LoadLut, keyed by slot name.
	CreativeLUTs map[string]*lut.LUT
	// ScopeVisibility holds per-scope visibility set via ToggleScope.
	ScopeVisibility map[string]bool
}

// New returns a State with identity default parameters and no loaded
// image.
func New() *State {
	return &State{Params: transform.DefaultParams()}
}

// paramsEqual reports whether a and b describe the same grade. Curves
// hold slices, so this cannot use ==; comparison drives dirty-tracking
// (spec §3 "equality comparison drives dirty-tracking").
func paramsEqual(a, b *transform.Params) bool {
	if a.InputSpace != b.InputSpace || a.WorkingSpace != b.WorkingSpace ||
		a.OutputSpace != b.OutputSpace || a.OutputOETF != b.OutputOETF ||
		a.Wheels != b.Wheels || a.Sliders != b.Sliders {
		return false
	}
	return curvesEqual(a.Curves.HueVsHue, b.Curves.HueVsHue) &&
		curvesEqual(a.Curves.HueVsSat, b.Curves.HueVsSat) &&
		curvesEqual(a.Curves.LumVsSat, b.Curves.LumVsSat) &&
		curvesEqual(a.Curves.SatVsSat, b.Curves.SatVsSat)
}

func curvesEqual(a, b []transform.CurvePoint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SetParams installs p as the current grade, marking the state dirty
// only when p materially differs from the current parameters (spec §4.9
// "avoids redundant bakes").
func (s *State) SetParams(p transform.Params) {
	if !paramsEqual(&s.Params, &p) {
		s.Params = p
		s.Dirty = true
	}
}

// ResetGrade installs the identity default parameters (spec §4.9
// "for reset-grade, install defaults").
func (s *State) ResetGrade() {
	s.SetParams(transform.DefaultParams())
}

// LoadImage installs img as the loaded source image and marks the state
// dirty.
func (s *State) LoadImage(img *Image) {
	s.Image = img
	s.Dirty = true
}
