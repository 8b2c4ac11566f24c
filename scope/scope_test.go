package scope

import (
	"testing"

	"github.com/crispen/core/colormath"
)

func TestHistogramCPUBinsWhite(t *testing.T) {
	pixels := []colormath.Vec3{{1, 1, 1}}
	bins := HistogramCPU(pixels, nil)
	for c := 0; c < HistogramChannels; c++ {
		if bins[c*HistogramBins+HistogramBins-1] != 1 {
			t.Errorf("channel %d: top bin not incremented", c)
		}
	}
}

func TestHistogramCPUMaskExcludes(t *testing.T) {
	pixels := []colormath.Vec3{{1, 1, 1}, {0, 0, 0}}
	mask := Mask{0, 1}
	bins := HistogramCPU(pixels, mask)
	if bins[HistogramBins-1] != 0 {
		t.Errorf("masked-out white pixel contributed to histogram")
	}
	if bins[0] != 1 {
		t.Errorf("masked-in black pixel did not contribute to histogram")
	}
}

func TestWaveformCPUBrightIsTop(t *testing.T) {
	width, height := 2, 4
	pixels := make([]colormath.Vec3, width*height)
	pixels[0] = colormath.Vec3{1, 1, 1} // column 0, row 0 source
	buf := WaveformCPU(pixels, width, height, nil)
	stride := width * height
	// Bright pixel should land in row 0 (top) of channel 0.
	if buf[0*stride+0*width+0] != 1 {
		t.Errorf("bright pixel not placed at top row")
	}
}

func TestVectorscopeCPUGrayIsCenter(t *testing.T) {
	pixels := []colormath.Vec3{{0.5, 0.5, 0.5}}
	buf := VectorscopeCPU(pixels, nil)
	center := VectorscopeRes / 2
	if buf[center*VectorscopeRes+center] != 1 {
		t.Errorf("neutral gray pixel not centered in vectorscope grid")
	}
}

func TestCIECPUSkipsNearZero(t *testing.T) {
	pixels := []colormath.Vec3{{0, 0, 0}}
	var npm colormath.Mat3
	npm.I()
	buf := CIECPU(pixels, &npm, nil)
	for _, v := range buf {
		if v != 0 {
			t.Fatalf("black pixel (X+Y+Z~0) should be skipped entirely")
		}
	}
}

func TestAllVisibleEnablesEveryPass(t *testing.T) {
	v := AllVisible()
	for i, on := range v {
		if !on {
			t.Errorf("pass %d not visible in AllVisible", i)
		}
	}
}
