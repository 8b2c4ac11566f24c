package transform

import "github.com/crispen/core/colormath"

// CurveTableLen is the length of a pre-baked 256-entry curve lookup
// table (spec §4.3).
const CurveTableLen = 256

// CurveTables holds the four pre-baked tables a GPU bake dispatch samples
// in place of re-interpolating control-point arrays: a hue-offset table
// and three saturation-ratio tables (spec §4.3).
type CurveTables struct {
	HueOffset [CurveTableLen]float32
	HueSatRatio [CurveTableLen]float32
	LumSatRatio [CurveTableLen]float32
	SatSatRatio [CurveTableLen]float32
}

// sampleTable returns the nearest of the 256 table entries for x, clamped
// to [0,1]. The WGSL bake kernel instead interpolates linearly between the
// two neighbouring entries.
func sampleTable(tex *[CurveTableLen]float32, x float64) float64 {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	i := int(x*(CurveTableLen-1) + 0.5)
	return float64(tex[i])
}

// EvaluateWithCurveTables composes the same eight mandatory-order stages
// as Evaluate, but realizes stage 7 (curves) by sampling pre-baked
// lookup tables rather than evaluating the Catmull-Rom spline directly.
// This is the GPU bake dispatch's code path; it is expected to agree
// with Evaluate only within the transform's documented ~1e-2 tolerance,
// dominated by the 256-entry table resolution (spec §4.2).
func EvaluateWithCurveTables(rgb colormath.Vec3, p *Params, tables CurveTables) colormath.Vec3 {
	out := inputTransform(rgb, p.InputSpace, p.WorkingSpace)
	out = whiteBalance(out, p.Sliders.Temperature, p.Sliders.Tint)
	out = cdl(out, p.Wheels)
	out = contrast(out, p.Sliders.Contrast, p.Sliders.Pivot)
	out = shadowsHighlights(out, p.Sliders.Shadows, p.Sliders.Highlights, p.Sliders.Pivot)
	out = saturationHue(out, p.Sliders.Saturation, p.Sliders.Hue, p.Sliders.LumaMix)
	out = curvesFromTables(out, &tables)
	out = outputTransform(out, p.WorkingSpace, p.OutputSpace, p.OutputOETF)
	return out
}

func curvesFromTables(rgb colormath.Vec3, t *CurveTables) colormath.Vec3 {
	h, s, l := rgbToHSL(rgb)
	hn := h / 360
	hn += sampleTable(&t.HueOffset, hn)
	hn -= floorMod1(hn)
	s *= sampleTable(&t.HueSatRatio, hn)
	s *= sampleTable(&t.LumSatRatio, l)
	s *= sampleTable(&t.SatSatRatio, s)
	return hslToRGB(hn*360, s, l)
}

func floorMod1(x float64) float64 {
	f := x - float64(int(x))
	if f < 0 {
		f++
	}
	return x - f
}
