package lut

import (
	"math"
	"sort"

	"github.com/crispen/core/colormath"
)

// curveTextureLen is the length of a pre-baked 1D curve lookup texture
// (spec §4.3 "flattened into four 1D R32Float textures of length 256").
const curveTextureLen = 256

const curveEpsilon = 1e-6

// BakeHueOffsetTexture flattens the hue-vs-hue curve into a 256-entry
// table of additive hue offsets (curve(x) - x), with a flat 0.0 texture
// for the identity case (spec §4.3).
func BakeHueOffsetTexture(pts []colormath.Point2) [curveTextureLen]float32 {
	var tex [curveTextureLen]float32
	if len(pts) < 2 {
		return tex
	}
	sorted := sortedPoints(pts)
	for i := range tex {
		x := float64(i) / float64(curveTextureLen-1)
		tex[i] = float32(lerpCurve(sorted, x) - x)
	}
	return tex
}

// BakeSatRatioTexture flattens a saturation curve (hue-vs-sat, lum-vs-sat
// or sat-vs-sat) into a 256-entry table of multiplicative ratios
// curve(t)/max(t, eps), with a flat 1.0 texture for the identity case
// (spec §4.3).
func BakeSatRatioTexture(pts []colormath.Point2) [curveTextureLen]float32 {
	var tex [curveTextureLen]float32
	if len(pts) < 2 {
		for i := range tex {
			tex[i] = 1
		}
		return tex
	}
	sorted := sortedPoints(pts)
	for i := range tex {
		t := float64(i) / float64(curveTextureLen-1)
		tex[i] = float32(lerpCurve(sorted, t) / math.Max(t, curveEpsilon))
	}
	return tex
}

func sortedPoints(pts []colormath.Point2) []colormath.Point2 {
	sorted := make([]colormath.Point2, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	return sorted
}

// lerpCurve evaluates a piecewise-linear interpolation through pts
// (sorted by X) at x, with constant extrapolation at the ends.
func lerpCurve(pts []colormath.Point2, x float64) float64 {
	if x <= pts[0].X {
		return pts[0].Y
	}
	n := len(pts)
	if x >= pts[n-1].X {
		return pts[n-1].Y
	}
	for i := 0; i < n-1; i++ {
		p0, p1 := pts[i], pts[i+1]
		if x >= p0.X && x <= p1.X {
			if p1.X == p0.X {
				return p0.Y
			}
			t := (x - p0.X) / (p1.X - p0.X)
			return p0.Y + t*(p1.Y-p0.Y)
		}
	}
	return pts[n-1].Y
}
