package transform

import (
	"math"

	"github.com/crispen/core/colormath"
	"github.com/crispen/core/colorspace"
)

const epsilon = 1e-6

// rec709Weights are the luma coefficients used to blend toward a perceptual
// luminance estimate in the saturation/hue stage (spec §4.2 stage 6).
var rec709Weights = colormath.Vec3{0.2126, 0.7152, 0.0722}
var equalWeights = colormath.Vec3{1.0 / 3, 1.0 / 3, 1.0 / 3}

// inputTransform applies stage 1: the inverse EOTF of the input space
// followed by the src-gamut -> working-gamut 3x3, or identity when the two
// spaces are the same (spec §4.2 stage 1).
func inputTransform(rgb colormath.Vec3, in, working colorspace.Space) colormath.Vec3 {
	if in == working {
		return rgb
	}
	tr, ok := colorspace.TransferOf(in)
	if !ok {
		return rgb
	}
	lin := colormath.Vec3{tr.ToLinear(rgb[0]), tr.ToLinear(rgb[1]), tr.ToLinear(rgb[2])}
	m, ok := colorspace.Convert(in, working)
	if !ok {
		return lin
	}
	var out colormath.Vec3
	out.MulM(&m, &lin)
	return out
}

// outputTransform applies stage 8: the inverse of stage 1, from working
// space to the display/output space, followed by the output OETF (spec
// §4.2 stage 8).
func outputTransform(rgb colormath.Vec3, working, out colorspace.Space, oetf colorspace.DisplayOETF) colormath.Vec3 {
	if working == out {
		return colormath.Vec3{oetf.Encode(rgb[0]), oetf.Encode(rgb[1]), oetf.Encode(rgb[2])}
	}
	m, ok := colorspace.Convert(working, out)
	if !ok {
		return rgb
	}
	var gamutted colormath.Vec3
	gamutted.MulM(&m, &rgb)
	tr, ok := colorspace.TransferOf(out)
	var encoded colormath.Vec3
	if ok {
		encoded = colormath.Vec3{tr.ToEncoded(gamutted[0]), tr.ToEncoded(gamutted[1]), tr.ToEncoded(gamutted[2])}
	} else {
		encoded = gamutted
	}
	return colormath.Vec3{oetf.Encode(encoded[0]), oetf.Encode(encoded[1]), oetf.Encode(encoded[2])}
}

// whiteBalanceTangentK and whiteBalancePerpK scale temperature/tint into
// chromaticity offsets along (and perpendicular to) the approximate
// Planckian-locus tangent at D65 (spec §4.2 stage 2). The simplified linear
// model satisfies the identity-at-zero requirement without a full
// Planckian-locus table.
const (
	whiteBalanceTangentK = 0.05
	whiteBalancePerpK    = 0.05
)

// whiteBalance applies stage 2 (spec §4.2 stage 2).
func whiteBalance(rgb colormath.Vec3, temperature, tint float64) colormath.Vec3 {
	m := WhiteBalanceMatrix(temperature, tint)
	var out colormath.Vec3
	out.MulM(&m, &rgb)
	return out
}

// WhiteBalanceMatrix computes stage 2's Bradford adaptation matrix for the
// given temperature/tint slider values, identity when both are ~0. It is
// exported so the GPU bake dispatch can precompute the matrix host-side and
// upload it alongside the gamut matrices, rather than re-deriving the
// Planckian-tangent approximation in the shader.
func WhiteBalanceMatrix(temperature, tint float64) colormath.Mat3 {
	if math.Abs(temperature) < epsilon && math.Abs(tint) < epsilon {
		return colormath.Identity3()
	}
	d65 := colormath.Chromaticity{X: 0.3127, Y: 0.3290}
	// Approximate Planckian-locus tangent direction at D65.
	tangent := colormath.Chromaticity{X: 0.0025, Y: -0.0015}
	perp := colormath.Chromaticity{X: tangent.Y, Y: -tangent.X}
	dst := colormath.Chromaticity{
		X: d65.X + temperature*whiteBalanceTangentK*tangent.X + tint*whiteBalancePerpK*perp.X,
		Y: d65.Y + temperature*whiteBalanceTangentK*tangent.Y + tint*whiteBalancePerpK*perp.Y,
	}
	return colormath.Bradford(d65, dst)
}

// cdl applies stage 3, the ASC CDL extended with a separate lift term
// (spec §4.2 stage 3). The per-channel wheel at index c is combined with
// the master wheel at index 3 before the slope/lift/offset/power formula.
func cdl(rgb colormath.Vec3, wheels [4]Wheel) colormath.Vec3 {
	master := wheels[3]
	var out colormath.Vec3
	for c := 0; c < 3; c++ {
		w := wheels[c]
		gain := w.Gain * master.Gain
		lift := w.Lift + master.Lift
		offset := w.Offset + master.Offset
		gamma := w.Gamma * master.Gamma

		x := rgb[c]*gain + lift*(1-gain) + offset
		if x < 0 {
			x = 0
		}
		out[c] = math.Pow(x, 1/gamma)
	}
	return out
}

// contrast applies stage 4, per-channel contrast about a pivot (spec §4.2
// stage 4).
func contrast(rgb colormath.Vec3, c, pivot float64) colormath.Vec3 {
	if c == 1 {
		return rgb
	}
	var out colormath.Vec3
	for i := 0; i < 3; i++ {
		v := rgb[i]
		if v < 0 {
			v = 0
		}
		out[i] = math.Pow(v/pivot, c) * pivot
	}
	return out
}

// smoothstep evaluates 3t^2 - 2t^3.
func smoothstep(t float64) float64 { return 3*t*t - 2*t*t*t }

// shadowsHighlights applies stage 5 (spec §4.2 stage 5).
func shadowsHighlights(rgb colormath.Vec3, shadows, highlights, pivot float64) colormath.Vec3 {
	if math.Abs(shadows) < epsilon && math.Abs(highlights) < epsilon {
		return rgb
	}
	var out colormath.Vec3
	for i := 0; i < 3; i++ {
		t := rgb[i] / (2 * pivot)
		t = math.Min(1, math.Max(0, t))
		s := smoothstep(t)
		out[i] = rgb[i] + shadows*(1-s)*0.5 - highlights*s*0.5
	}
	return out
}

// saturationHue applies stage 6: a blended-luminance chroma extraction,
// optional Rodrigues rotation of the chroma around the luminance axis, and
// a final saturation scale (spec §4.2 stage 6).
func saturationHue(rgb colormath.Vec3, saturation, hueDeg, lumaMix float64) colormath.Vec3 {
	lRec709 := rgb.Dot(&rec709Weights)
	lEqual := rgb.Dot(&equalWeights)
	l := lRec709 + lumaMix*(lEqual-lRec709)

	c := colormath.Vec3{rgb[0] - l, rgb[1] - l, rgb[2] - l}

	if math.Abs(hueDeg) > epsilon {
		c = rodrigues(c, hueDeg)
	}

	out := colormath.Vec3{
		l + c[0]*saturation,
		l + c[1]*saturation,
		l + c[2]*saturation,
	}
	return out
}

// rodrigues rotates v by angleDeg degrees around the luminance axis
// (1,1,1)/sqrt(3) with the full Rodrigues formula. The k(k·v) term is
// kept because the chroma vector is measured against the blended luma,
// not the channel mean, so it is orthogonal to the axis only when LumaMix
// is 1 (spec §4.2 stage 6).
func rodrigues(v colormath.Vec3, angleDeg float64) colormath.Vec3 {
	k := colormath.Vec3{1 / math.Sqrt(3), 1 / math.Sqrt(3), 1 / math.Sqrt(3)}
	theta := angleDeg * math.Pi / 180
	sin, cos := math.Sin(theta), math.Cos(theta)

	var kCrossV colormath.Vec3
	kCrossV[0] = k[1]*v[2] - k[2]*v[1]
	kCrossV[1] = k[2]*v[0] - k[0]*v[2]
	kCrossV[2] = k[0]*v[1] - k[1]*v[0]

	kDotV := k.Dot(&v)

	var out colormath.Vec3
	for i := 0; i < 3; i++ {
		out[i] = v[i]*cos + kCrossV[i]*sin + k[i]*kDotV*(1-cos)
	}
	return out
}

// curves applies stage 7: HSL-space curve application (spec §4.2 stage 7).
func curves(rgb colormath.Vec3, c *Curves) colormath.Vec3 {
	if c.Empty() {
		return rgb
	}
	h, s, l := rgbToHSL(rgb)

	hueHue := colormath.NewSpline(c.HueVsHue)
	hueSat := colormath.NewSpline(c.HueVsSat)
	lumSat := colormath.NewSpline(c.LumVsSat)
	satSat := colormath.NewSpline(c.SatVsSat)

	hn := h / 360
	if hueHue.Len() >= 2 {
		offset := hueHue.Eval(hn) - hn
		hn += offset
		hn -= math.Floor(hn)
	}

	if hueSat.Len() >= 2 {
		s *= curveRatio(hueSat, hn)
	}
	if lumSat.Len() >= 2 {
		s *= curveRatio(lumSat, l)
	}
	if satSat.Len() >= 2 {
		s *= curveRatio(satSat, s)
	}

	return hslToRGB(hn*360, s, l)
}

// curveRatio evaluates curve(t)/max(t, epsilon), per spec §4.2 stage 7.
func curveRatio(sp colormath.Spline, t float64) float64 {
	denom := math.Max(t, epsilon)
	return sp.Eval(t) / denom
}

// rgbToHSL converts linear-domain RGB in [0,1] to HSL with hue in degrees
// and saturation/lightness in [0,1].
func rgbToHSL(rgb colormath.Vec3) (h, s, l float64) {
	r, g, b := rgb[0], rgb[1], rgb[2]
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	if max == min {
		return 0, 0, l
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, l
}

// hslToRGB converts HSL (hue in degrees, sat/lum in [0,1]) back to RGB.
func hslToRGB(h, s, l float64) colormath.Vec3 {
	if s == 0 {
		return colormath.Vec3{l, l, l}
	}
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	return colormath.Vec3{r + m, g + m, b + m}
}
