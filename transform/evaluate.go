package transform

import "github.com/crispen/core/colormath"

// Evaluate composes the eight mandatory-order stages into the single
// canonical transform: the same definition driving both the CPU reference
// path and the GPU bake shader (spec §4.2).
func Evaluate(rgb colormath.Vec3, p *Params) colormath.Vec3 {
	out := inputTransform(rgb, p.InputSpace, p.WorkingSpace)
	out = whiteBalance(out, p.Sliders.Temperature, p.Sliders.Tint)
	out = cdl(out, p.Wheels)
	out = contrast(out, p.Sliders.Contrast, p.Sliders.Pivot)
	out = shadowsHighlights(out, p.Sliders.Shadows, p.Sliders.Highlights, p.Sliders.Pivot)
	out = saturationHue(out, p.Sliders.Saturation, p.Sliders.Hue, p.Sliders.LumaMix)
	out = curves(out, &p.Curves)
	out = outputTransform(out, p.WorkingSpace, p.OutputSpace, p.OutputOETF)
	return out
}
