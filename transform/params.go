// Package transform implements the eight-stage, order-mandatory pixel
// transform: the single canonical definition shared by the CPU reference
// path and the GPU bake shader (spec §4.2).
package transform

import (
	"github.com/crispen/core/colormath"
	"github.com/crispen/core/colorspace"
)

// Wheel holds the four primary-grade controls for one channel group.
// Index 0..2 of a Params wheel array is R/G/B, index 3 is master.
type Wheel struct {
	Lift, Gamma, Gain, Offset float64
}

// DefaultWheel returns the identity wheel: lift 0, gamma 1, gain 1, offset 0.
func DefaultWheel() Wheel { return Wheel{Lift: 0, Gamma: 1, Gain: 1, Offset: 0} }

// CurvePoint is one (x, y) control point of a grading curve, both in [0,1].
type CurvePoint = colormath.Point2

// Curves holds the four ordered curve-point lists. An empty list means
// identity for that curve (spec §3).
type Curves struct {
	HueVsHue []CurvePoint
	HueVsSat []CurvePoint
	LumVsSat []CurvePoint
	SatVsSat []CurvePoint
}

// Empty reports whether every curve list is empty, the all-identity case
// (spec §4.2 stage 7).
func (c *Curves) Empty() bool {
	return len(c.HueVsHue) == 0 && len(c.HueVsSat) == 0 && len(c.LumVsSat) == 0 && len(c.SatVsSat) == 0
}

// Sliders holds the scalar grading controls (spec §3).
type Sliders struct {
	Temperature   float64
	Tint          float64
	Contrast      float64
	Pivot         float64
	MidtoneDetail float64
	Shadows       float64
	Highlights    float64
	Saturation    float64
	Hue           float64 // degrees
	LumaMix       float64
}

// DefaultSliders returns the identity slider set: contrast 1, pivot 0.435,
// saturation 1, everything else 0 (spec §3 invariants).
func DefaultSliders() Sliders {
	return Sliders{Contrast: 1, Pivot: 0.435, Saturation: 1}
}

// Params is the single source of truth for a grade: color management,
// primary wheels, sliders and curves (spec §3). It is a plain value type —
// no hidden state — so equality comparison can drive dirty-tracking.
type Params struct {
	InputSpace   colorspace.Space
	WorkingSpace colorspace.Space
	OutputSpace  colorspace.Space
	OutputOETF   colorspace.DisplayOETF

	// Wheels holds the four primary wheels, index 0..2 = R/G/B, 3 = master.
	Wheels [4]Wheel

	Sliders Sliders
	Curves  Curves
}

// DefaultParams returns a Params whose evaluator is a bit-exact passthrough
// (spec §3 invariants), given matching input/working/output spaces.
func DefaultParams() Params {
	var p Params
	for i := range p.Wheels {
		p.Wheels[i] = DefaultWheel()
	}
	p.Sliders = DefaultSliders()
	return p
}
