package colorspace

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestSRGBTransferRoundTrip(t *testing.T) {
	tr := srgbTransfer{}
	for _, v := range []float64{0, 0.01, 0.18, 0.5, 1.0} {
		enc := tr.ToEncoded(v)
		lin := tr.ToLinear(enc)
		if !almostEqual(lin, v, 1e-6) {
			t.Fatalf("sRGB round-trip: v=%v enc=%v lin=%v", v, enc, lin)
		}
	}
}

func TestLogCurvesRoundTrip(t *testing.T) {
	curves := map[string]Transfer{
		"LogC3":   logC3Transfer{},
		"LogC4":   logC4Transfer{},
		"SLog3":   sLog3Transfer{},
		"Log3G10": log3G10Transfer{},
		"VLog":    vLogTransfer{},
		"ACEScc":  acesCCTransfer{},
		"ACEScct": acesCCTTransfer{},
	}
	for name, tr := range curves {
		for _, v := range []float64{0.001, 0.01, 0.18, 0.5, 1.0} {
			enc := tr.ToEncoded(v)
			lin := tr.ToLinear(enc)
			if !almostEqual(lin, v, 1e-4) {
				t.Fatalf("%s round-trip: v=%v enc=%v lin=%v", name, v, enc, lin)
			}
		}
	}
}

// Color-matrix round-trip: for any pair of named linear spaces A, B,
// M_A->B . M_B->A = I within 1e-5.
func TestGamutRoundTrip(t *testing.T) {
	pairs := [][2]Space{
		{SRGB, Rec2020},
		{Rec2020, DCIP3},
		{ACES2065_1, ACEScg},
		{DCIP3, ACES2065_1},
	}
	for _, p := range pairs {
		ab, ok := Convert(p[0], p[1])
		if !ok {
			t.Fatalf("Convert(%v, %v) failed", p[0], p[1])
		}
		ba, ok := Convert(p[1], p[0])
		if !ok {
			t.Fatalf("Convert(%v, %v) failed", p[1], p[0])
		}
		var id [3][3]float64
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				var s float64
				for k := 0; k < 3; k++ {
					s += ab[i][k] * ba[k][j]
				}
				id[i][j] = s
			}
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				want := 0.0
				if i == j {
					want = 1.0
				}
				if !almostEqual(id[i][j], want, 1e-5) {
					t.Fatalf("Convert(%v,%v) roundtrip[%d][%d] = %v, want %v", p[0], p[1], i, j, id[i][j], want)
				}
			}
		}
	}
}

func TestSameGamutIsIdentity(t *testing.T) {
	m, ok := Convert(ACEScg, ACEScc)
	if !ok {
		t.Fatal("Convert(ACEScg, ACEScc) failed")
	}
	id := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if m[i][j] != id[i][j] {
				t.Fatalf("Convert(ACEScg, ACEScc) = %v, want identity", m)
			}
		}
	}
}

func TestUserDefinedSpace(t *testing.T) {
	id := UserDefined(1)
	if !id.IsUserDefined() {
		t.Fatalf("UserDefined(1).IsUserDefined() = false")
	}
	if id.IsValid() {
		t.Fatalf("unregistered user space should not be valid")
	}
}
