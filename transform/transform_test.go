package transform

import (
	"math"
	"testing"

	"github.com/crispen/core/colormath"
	"github.com/crispen/core/colorspace"
)

func almostEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func vecAlmostEqual(a, b colormath.Vec3, eps float64) bool {
	return almostEqual(a[0], b[0], eps) && almostEqual(a[1], b[1], eps) && almostEqual(a[2], b[2], eps)
}

// Identity defaults produce a bit-exact passthrough in the evaluator
// (spec §3 invariant).
func TestEvaluateIdentityPassthrough(t *testing.T) {
	p := DefaultParams()
	p.InputSpace = colorspace.ACEScg
	p.WorkingSpace = colorspace.ACEScg
	p.OutputSpace = colorspace.ACEScg

	in := colormath.Vec3{0.2, 0.5, 0.9}
	out := Evaluate(in, &p)
	if !vecAlmostEqual(in, out, 1e-9) {
		t.Fatalf("Evaluate(identity params) = %v, want %v", out, in)
	}
}

// Black preservation: evaluate_transform([0,0,0], any_params) stays within
// 1e-5 of zero when no offset/lift is set (spec §8).
func TestBlackPreservation(t *testing.T) {
	p := DefaultParams()
	p.InputSpace = colorspace.ACEScg
	p.WorkingSpace = colorspace.ACEScg
	p.OutputSpace = colorspace.ACEScg
	p.Sliders.Contrast = 1.7
	p.Sliders.Saturation = 1.3

	out := Evaluate(colormath.Vec3{0, 0, 0}, &p)
	for i, v := range out {
		if math.Abs(v) > 1e-5 {
			t.Fatalf("black preservation: out[%d] = %v, want |v| <= 1e-5", i, v)
		}
	}
}

// apply_cdl with all-identity wheels is a passthrough.
func TestCDLIdentity(t *testing.T) {
	wheels := [4]Wheel{DefaultWheel(), DefaultWheel(), DefaultWheel(), DefaultWheel()}
	in := colormath.Vec3{0.5, 0.3, 0.7}
	out := cdl(in, wheels)
	if !vecAlmostEqual(in, out, 1e-9) {
		t.Fatalf("cdl(identity) = %v, want %v", out, in)
	}
}

// Contrast pivot stability: apply_contrast([p,p,p], c, p) = [p,p,p] for all c, p.
func TestContrastPivotStability(t *testing.T) {
	for _, c := range []float64{0.3, 1.0, 2.5} {
		for _, pivot := range []float64{0.2, 0.435, 0.8} {
			in := colormath.Vec3{pivot, pivot, pivot}
			out := contrast(in, c, pivot)
			if !vecAlmostEqual(in, out, 1e-9) {
				t.Fatalf("contrast([p,p,p], %v, %v) = %v, want %v", c, pivot, out, in)
			}
		}
	}
}

// Contrast with c=2.0 on a mid-gray-above-pivot input must strictly increase
// each component.
func TestContrastIncreasesAboveUnity(t *testing.T) {
	in := colormath.Vec3{0.8, 0.8, 0.8}
	out := contrast(in, 2.0, 0.435)
	for i := range out {
		if out[i] <= in[i] {
			t.Fatalf("contrast([0.8,0.8,0.8], 2.0, 0.435)[%d] = %v, want > %v", i, out[i], in[i])
		}
	}
}

// 360-degree hue rotation is the identity within 1e-5.
func TestHue360IsIdentity(t *testing.T) {
	in := colormath.Vec3{0.6, 0.2, 0.4}
	out := saturationHue(in, 1.0, 360, 0.0)
	if !vecAlmostEqual(in, out, 1e-5) {
		t.Fatalf("saturationHue(rgb, 1.0, 360, 0.0) = %v, want %v", out, in)
	}
}

// With hue 0 and saturation 0, every channel collapses to the Rec.709
// luminance: saturation scales only the chroma around it.
func TestSaturationScalesChromaOnly(t *testing.T) {
	in := colormath.Vec3{0.6, 0.3, 0.2}
	out := saturationHue(in, 0.0, 0.0, 0.0)
	l := in.Dot(&rec709Weights)
	for i := range out {
		if !almostEqual(out[i], l, 1e-9) {
			t.Fatalf("saturationHue(rgb, 0.0, 0, 0)[%d] = %v, want %v (luminance)", i, out[i], l)
		}
	}
}

func TestShadowsHighlightsIdentityAtZero(t *testing.T) {
	in := colormath.Vec3{0.1, 0.5, 0.9}
	out := shadowsHighlights(in, 0, 0, 0.435)
	if !vecAlmostEqual(in, out, 1e-9) {
		t.Fatalf("shadowsHighlights(rgb, 0, 0, pivot) = %v, want %v", out, in)
	}
}

func TestCurvesEmptyIsIdentity(t *testing.T) {
	in := colormath.Vec3{0.3, 0.6, 0.9}
	c := Curves{}
	out := curves(in, &c)
	if !vecAlmostEqual(in, out, 1e-9) {
		t.Fatalf("curves(rgb, empty) = %v, want %v", out, in)
	}
}

func TestRGBHSLRoundTrip(t *testing.T) {
	cases := []colormath.Vec3{
		{0.6, 0.3, 0.2},
		{0.1, 0.1, 0.1},
		{1, 0, 0},
		{0, 1, 0},
	}
	for _, in := range cases {
		h, s, l := rgbToHSL(in)
		out := hslToRGB(h, s, l)
		if !vecAlmostEqual(in, out, 1e-9) {
			t.Fatalf("HSL round-trip for %v: got %v", in, out)
		}
	}
}

func TestInputTransformIdentityWhenSameSpace(t *testing.T) {
	in := colormath.Vec3{0.4, 0.5, 0.6}
	out := inputTransform(in, colorspace.ACEScg, colorspace.ACEScg)
	if out != in {
		t.Fatalf("inputTransform(same space) = %v, want %v", out, in)
	}
}
