package colorspace

import "math"

// Transfer is the polymorphic transfer-function protocol: a closed set of
// curves dispatched through a per-variant implementation rather than an
// open-class hierarchy, per spec §9 ("Dynamic dispatch").
type Transfer interface {
	// ToLinear decodes an encoded (stored) component value to linear light.
	ToLinear(v float64) float64
	// ToEncoded encodes a linear-light component value for storage.
	ToEncoded(v float64) float64
}

// linearTransfer is the identity transfer, used by every space whose
// working representation is already linear light (ACES2065-1, ACEScg,
// Linear sRGB, Rec.2020, DCI-P3 — spec §4.2 treats these as "no EOTF to
// undo").
type linearTransfer struct{}

func (linearTransfer) ToLinear(v float64) float64  { return v }
func (linearTransfer) ToEncoded(v float64) float64 { return v }

// srgbTransfer implements the IEC 61966-2-1 sRGB OETF/EOTF.
type srgbTransfer struct{}

func (srgbTransfer) ToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func (srgbTransfer) ToEncoded(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

// acesCCTransfer implements the ACEScc log encoding (SMPTE ST 2065-1 family).
type acesCCTransfer struct{}

func (acesCCTransfer) ToLinear(v float64) float64 {
	switch {
	case v < -0.3013698630: // (9.72 - 15) / 17.52
		return (math.Exp2(v*17.52-9.72) - math.Exp2(-16)) * 2
	case v < (math.Log2(65504)+9.72)/17.52:
		return math.Exp2(v*17.52 - 9.72)
	default:
		return 65504
	}
}

func (acesCCTransfer) ToEncoded(v float64) float64 {
	switch {
	case v <= 0:
		return (math.Log2(math.Pow(2, -16)) + 9.72) / 17.52
	case v < math.Pow(2, -15):
		return (math.Log2(math.Pow(2, -16)+v*0.5) + 9.72) / 17.52
	default:
		return (math.Log2(v) + 9.72) / 17.52
	}
}

// acesCCTTransfer implements the ACEScct log encoding: a toe-linearized
// variant of ACEScc below a fixed knee.
type acesCCTTransfer struct{}

const (
	acesCCTKnee = 0.0078125 // 2^-7
	acesCCTA    = 10.5402377416545
	acesCCTB    = 0.0729055341958355
)

func (acesCCTTransfer) ToEncoded(v float64) float64 {
	if v <= acesCCTKnee {
		return acesCCTA*v + acesCCTB
	}
	return (math.Log2(v) + 9.72) / 17.52
}

func (acesCCTTransfer) ToLinear(v float64) float64 {
	knee := (math.Log2(acesCCTKnee) + 9.72) / 17.52
	if v <= knee {
		return (v - acesCCTB) / acesCCTA
	}
	return math.Exp2(v*17.52 - 9.72)
}

// logC3Transfer implements ARRI LogC3 (EI 800 mid-gray calibration).
type logC3Transfer struct{}

const (
	logC3Cut   = 0.010591
	logC3A     = 5.555556
	logC3B     = 0.052272
	logC3C     = 0.247190
	logC3D     = 0.385537
	logC3E     = 5.367655
	logC3F     = 0.092809
	logC3EMin  = -logC3F / logC3E // linear value that the linear leg encodes to 0
)

func (logC3Transfer) ToEncoded(v float64) float64 {
	if v > logC3Cut {
		return logC3C*math.Log10(logC3A*v+logC3B) + logC3D
	}
	return logC3E*v + logC3F
}

func (logC3Transfer) ToLinear(v float64) float64 {
	if v > logC3E*logC3Cut+logC3F {
		return (math.Pow(10, (v-logC3D)/logC3C) - logC3B) / logC3A
	}
	return (v - logC3F) / logC3E
}

// logC4Transfer implements ARRI LogC4, a newer single-segment curve with a
// short linear toe near black.
type logC4Transfer struct{}

var (
	logC4A = (math.Pow(2, 18) - 16) / 117.45
	logC4B = (1023 - 95) / 1023.0
	logC4C = 95 / 1023.0
	logC4S = (7 * math.Ln2 * math.Pow(2, 7-14*logC4C/logC4B)) / (logC4A * logC4B)
	logC4T = (math.Pow(2, 14*(-logC4C/logC4B)+6) - 64) / logC4A
)

func (logC4Transfer) ToEncoded(v float64) float64 {
	if v < logC4T {
		return (v - logC4T) / logC4S
	}
	return (math.Log2(logC4A*v+64)-6)/14*logC4B + logC4C
}

func (logC4Transfer) ToLinear(v float64) float64 {
	if v < 0 {
		return v*logC4S + logC4T
	}
	return (math.Exp2((v-logC4C)/logC4B*14+6) - 64) / logC4A
}

// sLog3Transfer implements Sony S-Log3.
type sLog3Transfer struct{}

func (sLog3Transfer) ToEncoded(v float64) float64 {
	if v >= 0.01125000 {
		return (420 + math.Log10((v+0.01)/(0.18+0.01))*261.5) / 1023
	}
	return (v*(171.2102946929-95)/0.01125000 + 95) / 1023
}

func (sLog3Transfer) ToLinear(v float64) float64 {
	x := v * 1023
	if x >= 171.2102946929 {
		return math.Pow(10, (x-420)/261.5)*(0.18+0.01) - 0.01
	}
	return (x - 95) * 0.01125000 / (171.2102946929 - 95)
}

// log3G10Transfer implements RED Log3G10.
type log3G10Transfer struct{}

const (
	log3G10A = 0.224282
	log3G10B = 155.975327
	log3G10C = 0.01
	log3G10G = 15.1927
)

func (log3G10Transfer) ToEncoded(v float64) float64 {
	w := v + log3G10C
	if w < 0 {
		return (w)/log3G10G - 0.01
	}
	return log3G10A * math.Log10(w*log3G10B+1)
}

func (log3G10Transfer) ToLinear(v float64) float64 {
	if v < 0 {
		return (v+0.01)*log3G10G - log3G10C
	}
	return (math.Pow(10, v/log3G10A) - 1) / log3G10B - log3G10C
}

// vLogTransfer implements Panasonic V-Log.
type vLogTransfer struct{}

const (
	vLogCut1 = 0.01
	vLogCut2 = 0.181
	vLogB    = 0.00873
	vLogC    = 0.241514
	vLogD    = 0.598206
)

func (vLogTransfer) ToEncoded(v float64) float64 {
	if v < vLogCut1 {
		return 5.6*v + 0.125
	}
	return vLogC*math.Log10(v+vLogB) + vLogD
}

func (vLogTransfer) ToLinear(v float64) float64 {
	if v < 0.181 {
		return (v - 0.125) / 5.6
	}
	return math.Pow(10, (v-vLogD)/vLogC) - vLogB
}

// DisplayOETF selects the output transfer used when the output color space
// is display-referred (spec §3).
type DisplayOETF int

const (
	DisplayLinear DisplayOETF = iota
	DisplaySRGB
	DisplayPQ
	DisplayHLG
)

// Encode applies the display OETF to a linear-light component, narrowing
// from scene-linear to display code value.
func (d DisplayOETF) Encode(v float64) float64 {
	switch d {
	case DisplaySRGB:
		return srgbTransfer{}.ToEncoded(v)
	case DisplayPQ:
		return pqEncode(v)
	case DisplayHLG:
		return hlgEncode(v)
	default:
		return v
	}
}

// Decode applies the inverse display OETF, expanding a display code value
// back to linear light.
func (d DisplayOETF) Decode(v float64) float64 {
	switch d {
	case DisplaySRGB:
		return srgbTransfer{}.ToLinear(v)
	case DisplayPQ:
		return pqDecode(v)
	case DisplayHLG:
		return hlgDecode(v)
	default:
		return v
	}
}

// SMPTE ST 2084 (PQ) constants.
const (
	pqM1 = 2610.0 / 16384.0
	pqM2 = 2523.0 / 4096.0 * 128.0
	pqC1 = 3424.0 / 4096.0
	pqC2 = 2413.0 / 4096.0 * 32.0
	pqC3 = 2392.0 / 4096.0 * 32.0
)

// pqEncode/pqDecode assume v is normalized such that 1.0 == 10,000 nits.
func pqEncode(v float64) float64 {
	if v < 0 {
		v = 0
	}
	ym1 := math.Pow(v, pqM1)
	return math.Pow((pqC1+pqC2*ym1)/(1+pqC3*ym1), pqM2)
}

func pqDecode(v float64) float64 {
	em2 := math.Pow(v, 1/pqM2)
	num := em2 - pqC1
	if num < 0 {
		num = 0
	}
	return math.Pow(num/(pqC2-pqC3*em2), 1/pqM1)
}

// ARIB STD-B67 (HLG) constants.
const (
	hlgA = 0.17883277
	hlgB = 1 - 4*hlgA
)

var hlgC = 0.5 - hlgA*math.Log(4*hlgA)

func hlgEncode(v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v <= 1.0/12 {
		return math.Sqrt(3 * v)
	}
	return hlgA*math.Log(12*v-hlgB) + hlgC
}

func hlgDecode(v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v <= 0.5 {
		return v * v / 3
	}
	return (math.Exp((v-hlgC)/hlgA) + hlgB) / 12
}
