// Package colormath implements the double-precision linear algebra
// primitives that back every color transform in Crispen: 3x3 matrices,
// 3-vectors, chromaticity/white-point conversion, Bradford chromatic
// adaptation and Catmull-Rom spline evaluation.
//
// All computation is performed in float64. Chained gamut conversions and
// chromatic adaptations accumulate rounding error; float64 keeps the
// Normalized Primary Matrix within 1e-6 of published reference values,
// whereas float32 would not. Values are narrowed to float32 only at the
// final apply stage, outside this package.
package colormath

import "math"

// Vec3 is a 3-component vector of float64.
type Vec3 [3]float64

// Add sets v to contain l + r.
func (v *Vec3) Add(l, r *Vec3) {
	for i := range v {
		v[i] = l[i] + r[i]
	}
}

// Sub sets v to contain l - r.
func (v *Vec3) Sub(l, r *Vec3) {
	for i := range v {
		v[i] = l[i] - r[i]
	}
}

// Scale sets v to contain s * w.
func (v *Vec3) Scale(s float64, w *Vec3) {
	for i := range v {
		v[i] = s * w[i]
	}
}

// Dot returns v . w.
func (v *Vec3) Dot(w *Vec3) (d float64) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}

// Len returns the length of v.
func (v *Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Norm sets v to contain w normalized.
func (v *Vec3) Norm(w *Vec3) { v.Scale(1/w.Len(), w) }

// MulM sets v to contain m . w (matrix-vector product).
func (v *Vec3) MulM(m *Mat3, w *Vec3) {
	*v = Vec3{}
	for i := range v {
		for j := range v {
			v[i] += m[i][j] * w[j]
		}
	}
}

// Clamp sets v to contain w with every component clamped to [lo, hi].
func (v *Vec3) Clamp(w *Vec3, lo, hi float64) {
	for i := range v {
		v[i] = math.Min(hi, math.Max(lo, w[i]))
	}
}
