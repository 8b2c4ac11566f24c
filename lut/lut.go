// Package lut implements the 3D color lookup table: the grid baked from
// an evaluated grading transform, and the trilinear applicator that reads
// it back (spec §4.3/§4.4).
package lut

import "github.com/crispen/core/colormath"

// LUT is a cubic grid of side N mapping [0,1]^3 (scaled by Domain) to
// RGB. Entries are stored RGBA (alpha always 1) in the mandatory order
// bi*N^2 + gi*N + ri, because both the GPU apply shader and the .cube
// file reader/writer depend on this layout (spec §4.3).
type LUT struct {
	N         int
	DomainMin colormath.Vec3
	DomainMax colormath.Vec3
	Data      []float32 // len == N*N*N*4
}

// New allocates a zeroed LUT of side n.
func New(n int, domainMin, domainMax colormath.Vec3) *LUT {
	return &LUT{
		N:         n,
		DomainMin: domainMin,
		DomainMax: domainMax,
		Data:      make([]float32, n*n*n*4),
	}
}

// Index returns the flat RGBA entry index for grid coordinate (ri, gi, bi).
func (l *LUT) Index(ri, gi, bi int) int {
	return (bi*l.N*l.N + gi*l.N + ri) * 4
}

// At returns the RGBA entry at (ri, gi, bi).
func (l *LUT) At(ri, gi, bi int) [4]float32 {
	i := l.Index(ri, gi, bi)
	return [4]float32{l.Data[i], l.Data[i+1], l.Data[i+2], l.Data[i+3]}
}

// Set stores an RGB entry at (ri, gi, bi), with alpha fixed to 1.
func (l *LUT) Set(ri, gi, bi int, rgb colormath.Vec3) {
	i := l.Index(ri, gi, bi)
	l.Data[i] = float32(rgb[0])
	l.Data[i+1] = float32(rgb[1])
	l.Data[i+2] = float32(rgb[2])
	l.Data[i+3] = 1
}

// GridCoord returns the normalized [0,1]^3 grid-space RGB for the grid
// coordinate (ri, gi, bi), scaled into [DomainMin, DomainMax] (spec §4.3).
func (l *LUT) GridCoord(ri, gi, bi int) colormath.Vec3 {
	n1 := float64(l.N - 1)
	t := colormath.Vec3{float64(ri) / n1, float64(gi) / n1, float64(bi) / n1}
	var span, out colormath.Vec3
	span.Sub(&l.DomainMax, &l.DomainMin)
	for i := 0; i < 3; i++ {
		out[i] = l.DomainMin[i] + t[i]*span[i]
	}
	return out
}
