package lut

import (
	"math"
	"testing"

	"github.com/crispen/core/colormath"
	"github.com/crispen/core/colorspace"
	"github.com/crispen/core/transform"
)

func almostEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

var (
	testDomainMin = colormath.Vec3{0, 0, 0}
	testDomainMax = colormath.Vec3{1, 1, 1}
)

func identityParams() transform.Params {
	p := transform.DefaultParams()
	p.InputSpace = colorspace.ACEScg
	p.WorkingSpace = colorspace.ACEScg
	p.OutputSpace = colorspace.ACEScg
	return p
}

// LUT bake ≡ evaluator: for identity parameters on any N >= 9, every
// bake_lut entry equals evaluate_transform at that grid point within 1e-5
// (spec §8).
func TestBakeCPUMatchesEvaluator(t *testing.T) {
	p := identityParams()
	for _, n := range []int{9, 17, 33} {
		l := BakeCPU(n, testDomainMin, testDomainMax, &p)
		for bi := 0; bi < n; bi++ {
			for gi := 0; gi < n; gi++ {
				for ri := 0; ri < n; ri++ {
					rgb := l.GridCoord(ri, gi, bi)
					want := transform.Evaluate(rgb, &p)
					got := l.At(ri, gi, bi)
					for c := 0; c < 3; c++ {
						if !almostEqual(float64(got[c]), want[c], 1e-5) {
							t.Fatalf("n=%d entry(%d,%d,%d)[%d] = %v, want %v", n, ri, gi, bi, c, got[c], want[c])
						}
					}
				}
			}
		}
	}
}

// LUT apply = bake at grid points: for rgb exactly on a grid point,
// apply_lut(rgb) = bake[idx] within 1e-5 (spec §8).
func TestTrilinearSampleMatchesBakeAtGridPoints(t *testing.T) {
	p := identityParams()
	p.Sliders.Contrast = 1.4
	p.Sliders.Saturation = 1.2
	n := 17
	l := BakeCPU(n, testDomainMin, testDomainMax, &p)
	for bi := 0; bi < n; bi++ {
		for gi := 0; gi < n; gi++ {
			for ri := 0; ri < n; ri++ {
				rgb := l.GridCoord(ri, gi, bi)
				got := TrilinearSample(l, rgb)
				want := l.At(ri, gi, bi)
				for c := 0; c < 3; c++ {
					if !almostEqual(got[c], float64(want[c]), 1e-5) {
						t.Fatalf("grid(%d,%d,%d)[%d]: TrilinearSample = %v, bake = %v", ri, gi, bi, c, got[c], want[c])
					}
				}
			}
		}
	}
}

// A 17^3 LUT baked with identity params and applied to a 4x4 gradient
// yields an output whose per-channel max absolute error vs. the source is
// < 0.02 (spec §8 scenario 6).
func TestIdentityLUTAppliedToGradient(t *testing.T) {
	p := identityParams()
	n := 17
	l := BakeCPU(n, testDomainMin, testDomainMax, &p)

	const grid = 4
	var maxErr float64
	for y := 0; y < grid; y++ {
		for x := 0; x < grid; x++ {
			v := float64(x*grid+y) / float64(grid*grid-1)
			src := colormath.Vec3{v, v, v}
			out := TrilinearSample(l, src)
			for c := 0; c < 3; c++ {
				if e := math.Abs(out[c] - src[c]); e > maxErr {
					maxErr = e
				}
			}
		}
	}
	if maxErr >= 0.02 {
		t.Fatalf("identity LUT applied to gradient: max abs error = %v, want < 0.02", maxErr)
	}
}

func TestCeilDiv(t *testing.T) {
	cases := []struct{ a, b, want int }{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
	}
	for _, c := range cases {
		if got := ceilDiv(c.a, c.b); got != c.want {
			t.Fatalf("ceilDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
