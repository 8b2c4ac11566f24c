package colormath

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestMat3Invert(t *testing.T) {
	m := Mat3{{4, 7, 2}, {3, 1, 5}, {2, 6, 9}}
	var inv, id Mat3
	inv.Invert(&m)
	id.Mul(&m, &inv)

	want := Identity3()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !almostEqual(id[i][j], want[i][j], 1e-9) {
				t.Fatalf("Mat3.Invert round-trip\nhave %v\nwant %v", id, want)
			}
		}
	}
}

func TestMat3Mul(t *testing.T) {
	var m Mat3
	id := Identity3()
	a := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	m.Mul(&a, &id)
	if m != a {
		t.Fatalf("Mat3.Mul by identity\nhave %v\nwant %v", m, a)
	}
}

// sRGB NPM must match the published IEC 61966-2-1 matrix within 1e-6.
func TestNPMsRGB(t *testing.T) {
	srgb := Primaries{
		R:     Chromaticity{0.6400, 0.3300},
		G:     Chromaticity{0.3000, 0.6000},
		B:     Chromaticity{0.1500, 0.0600},
		White: Chromaticity{0.3127, 0.3290},
	}
	npm := NPM(srgb)

	want := Mat3{
		{0.4124564, 0.3575761, 0.1804375},
		{0.2126729, 0.7151522, 0.0721750},
		{0.0193339, 0.1191920, 0.9503041},
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !almostEqual(npm[i][j], want[i][j], 1e-6) {
				t.Fatalf("NPM(sRGB)[%d][%d] = %v, want %v", i, j, npm[i][j], want[i][j])
			}
		}
	}
}

func TestBradfordIdentityWhenSameWhite(t *testing.T) {
	d65 := Chromaticity{0.3127, 0.3290}
	m := Bradford(d65, d65)
	id := Identity3()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !almostEqual(m[i][j], id[i][j], 1e-6) {
				t.Fatalf("Bradford(D65, D65)[%d][%d] = %v, want %v", i, j, m[i][j], id[i][j])
			}
		}
	}
}

func TestSplineIdentityBelowTwoPoints(t *testing.T) {
	s0 := NewSpline(nil)
	if got := s0.Eval(0.37); got != 0.37 {
		t.Fatalf("empty spline: Eval(0.37) = %v, want 0.37", got)
	}
	s1 := NewSpline([]Point2{{0.5, 0.9}})
	if got := s1.Eval(0.2); got != 0.2 {
		t.Fatalf("single-point spline: Eval(0.2) = %v, want 0.2", got)
	}
}

// Catmull-Rom through [[0,0],[1,1]] at t=0.5 equals 0.5 +/- 0.01.
func TestSplineTwoPointMidpoint(t *testing.T) {
	s := NewSpline([]Point2{{0, 0}, {1, 1}})
	got := s.Eval(0.5)
	if !almostEqual(got, 0.5, 0.01) {
		t.Fatalf("Spline.Eval(0.5) = %v, want 0.5 +/- 0.01", got)
	}
}

func TestSplineExtrapolationIsConstant(t *testing.T) {
	s := NewSpline([]Point2{{0.2, 0.3}, {0.5, 0.6}, {0.8, 0.4}})
	if got := s.Eval(-1); got != 0.3 {
		t.Fatalf("Spline.Eval(-1) = %v, want 0.3 (left endpoint)", got)
	}
	if got := s.Eval(2); got != 0.4 {
		t.Fatalf("Spline.Eval(2) = %v, want 0.4 (right endpoint)", got)
	}
}
