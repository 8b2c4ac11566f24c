package scope

import "github.com/crispen/core/colormath"

// Mask is an optional per-pixel inclusion mask: len(Mask) == 0 or
// len(Mask) == pixel count, 1 = include, 0 = exclude (spec §4.5).
type Mask []uint32

func (m Mask) includes(i int) bool {
	return len(m) == 0 || m[i] != 0
}

// HistogramCPU bins R, G, B and Rec.709 luma of every pixel into 256
// clamped bins each, packed channel-major: bins[channel*256+bin]
// (spec §4.5).
func HistogramCPU(pixels []colormath.Vec3, mask Mask) []uint32 {
	bins := make([]uint32, HistogramBufSize())
	for i, p := range pixels {
		if !mask.includes(i) {
			continue
		}
		for c, v := range [HistogramChannels]float64{p[0], p[1], p[2], rec709Luma(p)} {
			bins[c*HistogramBins+clampBin(v, HistogramBins)]++
		}
	}
	return bins
}

// WaveformCPU bins each pixel's R, G, B value into an inverted row
// (bright = top) at its source column, for width*height*3 channels
// (spec §4.5).
func WaveformCPU(pixels []colormath.Vec3, width, height int, mask Mask) []uint32 {
	buf := make([]uint32, WaveformBufSize(width, height))
	stride := width * height
	h1 := float64(height - 1)
	for i, p := range pixels {
		if !mask.includes(i) {
			continue
		}
		x := i % width
		for c := 0; c < 3; c++ {
			v := p[c]
			row := int(h1 - v*h1 + 0.5)
			if row < 0 {
				row = 0
			}
			if row > height-1 {
				row = height - 1
			}
			buf[c*stride+row*width+x]++
		}
	}
	return buf
}

// VectorscopeCPU maps each pixel's Cb/Cr chroma into a VectorscopeRes
// square grid and increments the corresponding cell (spec §4.5).
func VectorscopeCPU(pixels []colormath.Vec3, mask Mask) []uint32 {
	buf := make([]uint32, VectorscopeBufSize())
	for i, p := range pixels {
		if !mask.includes(i) {
			continue
		}
		y := rec709Luma(p)
		cb := (p[2] - y) * 0.5
		cr := (p[0] - y) * 0.5
		gx := chromaToGrid(cb, VectorscopeRes)
		gy := chromaToGrid(cr, VectorscopeRes)
		buf[gy*VectorscopeRes+gx]++
	}
	return buf
}

func chromaToGrid(c float64, res int) int {
	u := (c + 0.5) // [-0.5,0.5] -> [0,1]
	return clampBin(u, res)
}

// CIECPU converts each pixel from linear RGB to CIE xy chromaticity via
// npm and increments the corresponding cell of a CIERes square grid,
// skipping pixels whose X+Y+Z sum is below 1e-10 (spec §4.5).
func CIECPU(pixels []colormath.Vec3, npm *colormath.Mat3, mask Mask) []uint32 {
	buf := make([]uint32, CIEBufSize())
	for i, p := range pixels {
		if !mask.includes(i) {
			continue
		}
		pp := p
		var xyz colormath.Vec3
		xyz.MulM(npm, &pp)
		sum := xyz[0] + xyz[1] + xyz[2]
		if sum < 1e-10 {
			continue
		}
		x := xyz[0] / sum
		y := xyz[1] / sum
		gx := clampBin(x/0.8, CIERes)
		gy := clampBin(1-y/0.9, CIERes)
		buf[gy*CIERes+gx]++
	}
	return buf
}
