package colormath

import "gonum.org/v1/gonum/mat"

// Chromaticity is a CIE xy chromaticity coordinate.
type Chromaticity struct{ X, Y float64 }

// XYZ converts a chromaticity to CIE XYZ with Y normalized to 1.
func (c Chromaticity) XYZ() Vec3 {
	if c.Y == 0 {
		return Vec3{}
	}
	return Vec3{c.X / c.Y, 1, (1 - c.X - c.Y) / c.Y}
}

// Primaries is the set of chromaticities that define a gamut: the three
// color primaries plus the reference white point.
type Primaries struct {
	R, G, B, White Chromaticity
}

// NPM computes the Normalized Primary Matrix for p: the 3x3 matrix that
// converts linear RGB in this gamut to CIE XYZ at the gamut's own white
// point (not necessarily D65).
//
// Derivation (spec-mandated): assemble the primaries' XYZ (Y=1) as the
// columns of P, solve P.s = W_xyz for the per-primary scale vector s via a
// single linear solve, then NPM = P . diag(s).
func NPM(p Primaries) Mat3 {
	rXYZ, gXYZ, bXYZ, wXYZ := p.R.XYZ(), p.G.XYZ(), p.B.XYZ(), p.White.XYZ()

	// P has the primaries as columns: P[row][col].
	var P Mat3
	for row := 0; row < 3; row++ {
		P[row][0] = rXYZ[row]
		P[row][1] = gXYZ[row]
		P[row][2] = bXYZ[row]
	}

	s := solveNPMScale(P, wXYZ)

	var npm Mat3
	diag := Diag3(s)
	npm.Mul(&P, &diag)
	return npm
}

// solveNPMScale solves P . s = w for s using gonum's dense LU solver.
func solveNPMScale(P Mat3, w Vec3) Vec3 {
	a := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a.Set(i, j, P[i][j])
		}
	}
	b := mat.NewVecDense(3, []float64{w[0], w[1], w[2]})
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		// Degenerate primaries (collinear / zero-area gamut triangle):
		// no well-defined NPM exists. Callers never construct such
		// gamuts from the fixed color-space table, so this path is
		// only reachable from a malformed user-defined escape-hatch
		// gamut; fall back to the identity scale rather than panic.
		return Vec3{1, 1, 1}
	}
	return Vec3{x.AtVec(0), x.AtVec(1), x.AtVec(2)}
}
