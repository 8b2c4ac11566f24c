package format

import (
	"encoding/binary"
	"math"
	"testing"

	"golang.org/x/image/math/f16"
)

func TestConvertCPURoundTrip(t *testing.T) {
	vals := []float32{0, 1, 0.5, -1, 0.0001, 65504}
	src := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(src[i*4:], math.Float32bits(v))
	}
	dst := make([]byte, len(vals)*2)
	ConvertCPU(src, dst)
	for i, want := range vals {
		h := f16.Num(binary.LittleEndian.Uint16(dst[i*2:]))
		got := h.Float32()
		if math.Abs(float64(got-want)) > 0.01*math.Abs(float64(want))+1e-4 {
			t.Errorf("value %d: got %v want %v", i, got, want)
		}
	}
}
