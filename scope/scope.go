// Package scope implements the four analysis passes run over a graded
// image each frame: histogram, waveform, vectorscope and CIE
// chromaticity. Each pass has a GPU dispatch path and a CPU reference
// implementation checked against it (spec §4.5).
package scope

import "github.com/crispen/core/colormath"

// HistogramBins is the number of luma/channel bins in the histogram.
const HistogramBins = 256

// HistogramChannels is the channel order the histogram buffer packs:
// R, G, B, Y.
const HistogramChannels = 4

// VectorscopeRes and CIERes are the square grid resolutions of the
// vectorscope and CIE chromaticity scopes (spec §3 "R≈512").
const (
	VectorscopeRes = 512
	CIERes         = 512
)

// DefaultWaveformHeight is the row count of the waveform scope when the
// caller does not need it tied to the source image's height.
const DefaultWaveformHeight = 256

// Pass identifies one of the four scope passes, used for visibility and
// mask gating (spec §4.5).
type Pass int

const (
	Histogram Pass = iota
	Waveform
	Vectorscope
	CIE
	numPasses
)

// Visibility selects which of the four passes run this frame. A pass
// that is not visible still has its buffer cleared to zero so readback
// produces a valid empty scope (spec §4.5 "visibility gating").
type Visibility [numPasses]bool

// AllVisible returns a Visibility with every pass enabled.
func AllVisible() Visibility {
	return Visibility{Histogram: true, Waveform: true, Vectorscope: true, CIE: true}
}

// rec709Luma is the luma weighting used by the histogram and vectorscope
// passes (spec §4.5).
func rec709Luma(rgb colormath.Vec3) float64 {
	return 0.2126*rgb[0] + 0.7152*rgb[1] + 0.0722*rgb[2]
}

// clampBin maps v in [0,1] to a clamped bin index in [0, bins-1].
func clampBin(v float64, bins int) int {
	i := int(v * float64(bins))
	if i < 0 {
		i = 0
	}
	if i > bins-1 {
		i = bins - 1
	}
	return i
}

// HistogramBufSize, WaveformBufSize, VectorscopeBufSize and CIEBufSize
// return the u32 element counts of each scope's storage buffer.
func HistogramBufSize() int { return HistogramBins * HistogramChannels }

func WaveformBufSize(width, height int) int { return width * height * 3 }

func VectorscopeBufSize() int { return VectorscopeRes * VectorscopeRes }

func CIEBufSize() int { return CIERes * CIERes }
