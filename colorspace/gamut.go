package colorspace

import "github.com/crispen/core/colormath"

// gamutToD65Cache memoizes the (native-white -> D65) Bradford-adapted NPM for each
// space, since it depends only on static table data.
var gamutToD65Cache = map[Space]colormath.Mat3{}

// GamutToXYZD65 returns the matrix that converts linear RGB in space s to
// CIE XYZ under the D65 illuminant: the space's NPM, post-multiplied by a
// Bradford adaptation from the space's native white point to D65 when that
// differs from D65 (spec §4.1).
func GamutToXYZD65(s Space) (colormath.Mat3, bool) {
	if m, ok := gamutToD65Cache[s]; ok {
		return m, true
	}
	p, ok := PrimariesOf(s)
	if !ok {
		return colormath.Mat3{}, false
	}
	npm := colormath.NPM(p)
	if colormath.SameWhite(p.White, d65) {
		gamutToD65Cache[s] = npm
		return npm, true
	}
	adapt := colormath.Bradford(p.White, d65)
	var m colormath.Mat3
	m.Mul(&adapt, &npm)
	gamutToD65Cache[s] = m
	return m, true
}

// samePrimaries reports whether two spaces share the same primaries and
// white point — i.e. belong to the same "gamut group" and therefore need
// no gamut conversion between them (spec §4.1).
func samePrimaries(a, b colormath.Primaries) bool {
	const eps = 1e-9
	close := func(x, y float64) bool {
		d := x - y
		return d < eps && d > -eps
	}
	return close(a.R.X, b.R.X) && close(a.R.Y, b.R.Y) &&
		close(a.G.X, b.G.X) && close(a.G.Y, b.G.Y) &&
		close(a.B.X, b.B.X) && close(a.B.Y, b.B.Y) &&
		close(a.White.X, b.White.X) && close(a.White.Y, b.White.Y)
}

// Convert returns the 3x3 matrix converting linear RGB from src's gamut to
// linear RGB in dst's gamut, routing through XYZ(D65) as a hub (spec
// §4.1): M_dst<-src = (NPM_dst . Bradford_dst->D65)^-1 . (NPM_src . Bradford_src->D65).
// When src and dst share the same gamut group, the identity matrix is
// returned without computing the hub conversion.
func Convert(src, dst Space) (colormath.Mat3, bool) {
	srcP, ok := PrimariesOf(src)
	if !ok {
		return colormath.Mat3{}, false
	}
	dstP, ok := PrimariesOf(dst)
	if !ok {
		return colormath.Mat3{}, false
	}
	if samePrimaries(srcP, dstP) {
		return colormath.Identity3(), true
	}

	srcToD65, ok := GamutToXYZD65(src)
	if !ok {
		return colormath.Mat3{}, false
	}
	dstToD65, ok := GamutToXYZD65(dst)
	if !ok {
		return colormath.Mat3{}, false
	}

	var d65ToDst colormath.Mat3
	d65ToDst.Invert(&dstToD65)

	var m colormath.Mat3
	m.Mul(&d65ToDst, &srcToD65)
	return m, true
}
