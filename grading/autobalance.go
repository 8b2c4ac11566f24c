package grading

// AutoWhiteBalance computes a gray-world temperature/tint estimate from
// an image's pixels: channel means over every pixel, then
// temperature = -2(muR-muB)/Y, tint = -4(muG-Y)/Y, each clamped to
// [-1, 1]. An image with no pixels returns (0, 0) (spec §4.9).
func AutoWhiteBalance(img *Image) (temperature, tint float64) {
	if img == nil || img.Width*img.Height == 0 {
		return 0, 0
	}
	var sumR, sumG, sumB float64
	n := img.Width * img.Height
	for i := 0; i < n; i++ {
		o := i * 4
		sumR += float64(img.Pixels[o])
		sumG += float64(img.Pixels[o+1])
		sumB += float64(img.Pixels[o+2])
	}
	muR := sumR / float64(n)
	muG := sumG / float64(n)
	muB := sumB / float64(n)
	y := 0.2126*muR + 0.7152*muG + 0.0722*muB
	if y == 0 {
		return 0, 0
	}
	temperature = clamp(-2*(muR-muB)/y, -1, 1)
	tint = clamp(-4*(muG-y)/y, -1, 1)
	return
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
