package colormath

import "sort"

// Point2 is an ordered (x, y) control point in [0,1] x [0,1].
type Point2 struct{ X, Y float64 }

// Spline evaluates a Catmull-Rom cubic through an ordered set of control
// points, with endpoint mirroring to synthesize the two virtual boundary
// points the formula needs. Points must be sorted by X; NewSpline sorts a
// copy on construction so callers never need to pre-sort.
//
// Fewer than two points evaluates to the identity y = x (spec-mandated).
type Spline struct {
	pts []Point2
}

// NewSpline builds a Spline from pts, sorting a defensive copy by X.
func NewSpline(pts []Point2) Spline {
	cp := make([]Point2, len(pts))
	copy(cp, pts)
	sort.Slice(cp, func(i, j int) bool { return cp[i].X < cp[j].X })
	return Spline{pts: cp}
}

// Len returns the number of control points.
func (s Spline) Len() int { return len(s.pts) }

// Eval evaluates the spline at x. With fewer than two points it returns x
// unchanged.
func (s Spline) Eval(x float64) float64 {
	n := len(s.pts)
	if n < 2 {
		return x
	}
	if x <= s.pts[0].X {
		return s.extrapolate(0, x)
	}
	if x >= s.pts[n-1].X {
		return s.extrapolate(n-1, x)
	}

	// O(log N) binary search for the containing segment.
	i := sort.Search(n, func(i int) bool { return s.pts[i].X > x }) - 1
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}

	p0 := s.mirrored(i - 1)
	p1 := s.pts[i]
	p2 := s.pts[i+1]
	p3 := s.mirrored(i + 2)

	span := p2.X - p1.X
	if span == 0 {
		return p1.Y
	}
	t := (x - p1.X) / span
	return catmullRom(p0.Y, p1.Y, p2.Y, p3.Y, t)
}

// extrapolate handles x outside the control-point range: constant
// extrapolation of the nearest endpoint's value, matching the curve
// pre-baking behavior described in spec §4.3.
func (s Spline) extrapolate(idx int, x float64) float64 {
	_ = x
	return s.pts[idx].Y
}

// mirrored returns the virtual boundary point at index i by reflecting the
// nearest real point across the nearest endpoint, per spec §4.1's
// "endpoint mirroring" rule.
func (s Spline) mirrored(i int) Point2 {
	n := len(s.pts)
	switch {
	case i < 0:
		p0, p1 := s.pts[0], s.pts[1]
		return Point2{X: p0.X - (p1.X - p0.X), Y: p0.Y - (p1.Y - p0.Y)}
	case i >= n:
		pn, pn1 := s.pts[n-1], s.pts[n-2]
		return Point2{X: pn.X + (pn.X - pn1.X), Y: pn.Y + (pn.Y - pn1.Y)}
	default:
		return s.pts[i]
	}
}

// catmullRom evaluates the standard (uniform) Catmull-Rom cubic through
// p1..p2 at parameter t in [0,1], using p0 and p3 as the tangent-defining
// neighbors.
func catmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}
