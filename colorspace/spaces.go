// Package colorspace defines Crispen's closed set of named color spaces:
// their primaries/white point (for gamut conversion, via colormath) and
// their transfer function (for EOTF/OETF dispatch).
package colorspace

import "github.com/crispen/core/colormath"

// Space identifies one of the fixed color spaces understood by Crispen, or
// a user-defined escape hatch. Identifiers map to fixed small integers for
// GPU uniform consumption, per spec §6.
type Space int

// The thirteen named color spaces.
const (
	ACES2065_1 Space = iota
	ACEScg
	ACEScc
	ACEScct
	SRGB
	LinearSRGB
	Rec2020
	DCIP3
	ARRILogC3
	ARRILogC4
	SonySLog3
	REDLog3G10
	PanasonicVLog
	numNamedSpaces
)

// userDefinedBase is the first integer identifier in the user-defined
// escape-hatch range (100+n, per spec §6).
const userDefinedBase = 100

// UserDefined returns the Space identifier for the nth user-defined space.
func UserDefined(n int) Space { return Space(userDefinedBase + n) }

// IsUserDefined reports whether s is a user-defined escape-hatch space.
func (s Space) IsUserDefined() bool { return int(s) >= userDefinedBase }

// IsValid reports whether s names a known fixed space or a registered
// user-defined escape hatch. An id in the user-defined range that has not
// been registered via RegisterUserSpace is not valid (spec §7: an
// unrecognized identifier is invalid input).
func (s Space) IsValid() bool {
	_, ok := info(s)
	return ok
}

// d65 is the CIE D65 standard illuminant chromaticity, the hub white point
// for all cross-gamut conversions (spec §4.1).
var d65 = colormath.Chromaticity{X: 0.3127, Y: 0.3290}

// aces reference white point (also D60-ish; ACES uses the CIE 1931 2-degree
// "ACES white" ~ D60).
var acesWhite = colormath.Chromaticity{X: 0.32168, Y: 0.33767}

// spaceInfo carries the static data needed for gamut conversion and
// transfer-function dispatch for a single named space.
type spaceInfo struct {
	name      string
	primaries colormath.Primaries
	transfer  Transfer
}

var table = map[Space]spaceInfo{
	ACES2065_1: {
		name: "ACES2065-1",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.7347, Y: 0.2653},
			G: colormath.Chromaticity{X: 0.0000, Y: 1.0000},
			B: colormath.Chromaticity{X: 0.0001, Y: -0.0770},
			White: acesWhite,
		},
		transfer: linearTransfer{},
	},
	ACEScg: {
		name: "ACEScg",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.7130, Y: 0.2930},
			G: colormath.Chromaticity{X: 0.1650, Y: 0.8300},
			B: colormath.Chromaticity{X: 0.1280, Y: 0.0440},
			White: acesWhite,
		},
		transfer: linearTransfer{},
	},
	ACEScc: {
		name: "ACEScc",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.7130, Y: 0.2930},
			G: colormath.Chromaticity{X: 0.1650, Y: 0.8300},
			B: colormath.Chromaticity{X: 0.1280, Y: 0.0440},
			White: acesWhite,
		},
		transfer: acesCCTransfer{},
	},
	ACEScct: {
		name: "ACEScct",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.7130, Y: 0.2930},
			G: colormath.Chromaticity{X: 0.1650, Y: 0.8300},
			B: colormath.Chromaticity{X: 0.1280, Y: 0.0440},
			White: acesWhite,
		},
		transfer: acesCCTTransfer{},
	},
	SRGB: {
		name: "sRGB",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.6400, Y: 0.3300},
			G: colormath.Chromaticity{X: 0.3000, Y: 0.6000},
			B: colormath.Chromaticity{X: 0.1500, Y: 0.0600},
			White: d65,
		},
		transfer: srgbTransfer{},
	},
	LinearSRGB: {
		name: "Linear sRGB",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.6400, Y: 0.3300},
			G: colormath.Chromaticity{X: 0.3000, Y: 0.6000},
			B: colormath.Chromaticity{X: 0.1500, Y: 0.0600},
			White: d65,
		},
		transfer: linearTransfer{},
	},
	Rec2020: {
		name: "Rec.2020",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.7080, Y: 0.2920},
			G: colormath.Chromaticity{X: 0.1700, Y: 0.7970},
			B: colormath.Chromaticity{X: 0.1310, Y: 0.0460},
			White: d65,
		},
		transfer: linearTransfer{},
	},
	DCIP3: {
		name: "DCI-P3",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.6800, Y: 0.3200},
			G: colormath.Chromaticity{X: 0.2650, Y: 0.6900},
			B: colormath.Chromaticity{X: 0.1500, Y: 0.0600},
			White: colormath.Chromaticity{X: 0.3140, Y: 0.3510},
		},
		transfer: linearTransfer{},
	},
	ARRILogC3: {
		name: "ARRI LogC3",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.6840, Y: 0.3130},
			G: colormath.Chromaticity{X: 0.2210, Y: 0.8480},
			B: colormath.Chromaticity{X: 0.0861, Y: -0.1020},
			White: d65,
		},
		transfer: logC3Transfer{},
	},
	ARRILogC4: {
		name: "ARRI LogC4",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.7347, Y: 0.2653},
			G: colormath.Chromaticity{X: 0.1424, Y: 0.8576},
			B: colormath.Chromaticity{X: 0.0991, Y: -0.0308},
			White: acesWhite,
		},
		transfer: logC4Transfer{},
	},
	SonySLog3: {
		name: "Sony S-Log3",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.7300, Y: 0.2800},
			G: colormath.Chromaticity{X: 0.1400, Y: 0.8550},
			B: colormath.Chromaticity{X: 0.1000, Y: -0.0500},
			White: d65,
		},
		transfer: sLog3Transfer{},
	},
	REDLog3G10: {
		name: "RED Log3G10",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.7800, Y: 0.3040},
			G: colormath.Chromaticity{X: 0.3010, Y: 1.0930},
			B: colormath.Chromaticity{X: 0.0950, Y: -0.0630},
			White: d65,
		},
		transfer: log3G10Transfer{},
	},
	PanasonicVLog: {
		name: "Panasonic V-Log",
		primaries: colormath.Primaries{
			R: colormath.Chromaticity{X: 0.7300, Y: 0.2800},
			G: colormath.Chromaticity{X: 0.1650, Y: 0.8400},
			B: colormath.Chromaticity{X: 0.1000, Y: -0.0300},
			White: d65,
		},
		transfer: vLogTransfer{},
	},
}

// userTable holds the primaries/transfer for runtime-registered
// user-defined escape-hatch spaces (spec §3: "user-defined escape hatch").
var userTable = map[Space]spaceInfo{}

// RegisterUserSpace registers a user-defined space's primaries and
// transfer function under id (must satisfy id.IsUserDefined()).
func RegisterUserSpace(id Space, name string, p colormath.Primaries, tr Transfer) {
	if !id.IsUserDefined() {
		panic("colorspace: RegisterUserSpace: id is not in the user-defined range")
	}
	userTable[id] = spaceInfo{name: name, primaries: p, transfer: tr}
}

func info(s Space) (spaceInfo, bool) {
	if s.IsUserDefined() {
		si, ok := userTable[s]
		return si, ok
	}
	si, ok := table[s]
	return si, ok
}

// Name returns the human-readable name of s, or "" if s is unrecognized.
func (s Space) Name() string {
	si, ok := info(s)
	if !ok {
		return ""
	}
	return si.name
}

// PrimariesOf returns the primaries/white point of s and whether s is
// recognized.
func PrimariesOf(s Space) (colormath.Primaries, bool) {
	si, ok := info(s)
	return si.primaries, ok
}

// TransferOf returns the transfer function of s and whether s is
// recognized.
func TransferOf(s Space) (Transfer, bool) {
	si, ok := info(s)
	return si.transfer, ok
}
