package colormath

// bradfordM is the fixed Bradford cone-response matrix.
var bradfordM = Mat3{
	{0.8951, 0.2664, -0.1614},
	{-0.7502, 1.7135, 0.0367},
	{0.0389, -0.0685, 1.0296},
}

var bradfordMInv = func() Mat3 {
	var inv Mat3
	inv.Invert(&bradfordM)
	return inv
}()

// Bradford computes the chromatic adaptation matrix that transforms XYZ
// tristimulus values adapted to white point src into XYZ values adapted to
// white point dst.
//
// Derivation (spec-mandated): transform both white points into Bradford
// cone-response space via the fixed matrix M_A, form the diagonal ratio of
// destination to source cone responses, and sandwich it between M_A^-1 and
// M_A: M_A^-1 . diag(dst/src) . M_A.
func Bradford(src, dst Chromaticity) Mat3 {
	srcXYZ, dstXYZ := src.XYZ(), dst.XYZ()

	var srcCone, dstCone Vec3
	srcCone.MulM(&bradfordM, &srcXYZ)
	dstCone.MulM(&bradfordM, &dstXYZ)

	ratio := Vec3{
		dstCone[0] / srcCone[0],
		dstCone[1] / srcCone[1],
		dstCone[2] / srcCone[2],
	}
	diag := Diag3(ratio)

	var tmp, adapt Mat3
	tmp.Mul(&diag, &bradfordM)
	adapt.Mul(&bradfordMInv, &tmp)
	return adapt
}

// SameWhite reports whether two chromaticities are close enough to be
// treated as the same white point (avoids a near-singular adaptation
// matrix when src == dst numerically but not bit-exactly).
func SameWhite(a, b Chromaticity) bool {
	const eps = 1e-9
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx+dy*dy < eps*eps
}
