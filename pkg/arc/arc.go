// Package arc builds the lifted flight curves connecting projected
// waypoint positions.
package arc

import "globed/pkg/geom"

// Curve is a smooth arc through a start point, an elevated control point
// and an end point. It interpolates all three exactly, so PointAt(0) and
// PointAt(1) are bit-for-bit the original endpoints.
type Curve struct {
	a, control, b geom.Vec3
}

// Build constructs the flight arc between two Cartesian points. The
// control point is the chord midpoint pushed outward from the sphere's
// center by liftRatio relative to its own distance from the center.
// Identical endpoints yield a degenerate point curve; callers filter
// zero-length legs, but building one must not fail.
func Build(a, b geom.Vec3, liftRatio float64) *Curve {
	mid := a.Add(b).Scale(0.5)
	return &Curve{
		a:       a,
		control: mid.Scale(1 + liftRatio),
		b:       b,
	}
}

// Start returns the curve's first endpoint.
func (c *Curve) Start() geom.Vec3 { return c.a }

// End returns the curve's second endpoint.
func (c *Curve) End() geom.Vec3 { return c.b }

// PointAt evaluates the curve at fraction u in [0, 1]. Values outside the
// range are clamped. The curve is a uniform Catmull-Rom spline over
// [a, control, b] with reflected phantom endpoints, which keeps tangents
// continuous through the control point instead of creasing there.
func (c *Curve) PointAt(u float64) geom.Vec3 {
	u = geom.Clamp(u, 0, 1)

	// Two spline segments: [a, control] and [control, b].
	t := u * 2
	if t <= 1 {
		phantom := c.a.Add(c.a.Sub(c.control)) // reflect control through a
		return catmullRom(phantom, c.a, c.control, c.b, t)
	}
	phantom := c.b.Add(c.b.Sub(c.control)) // reflect control through b
	return catmullRom(c.a, c.control, c.b, phantom, t-1)
}

// Sample returns count points evenly spaced in parameter along the curve.
// count is clamped to a minimum of 2 so the endpoints are always present.
func (c *Curve) Sample(count int) []geom.Vec3 {
	if count < 2 {
		count = 2
	}
	points := make([]geom.Vec3, count)
	for i := range points {
		points[i] = c.PointAt(float64(i) / float64(count-1))
	}
	return points
}

// catmullRom evaluates the uniform Catmull-Rom basis for the segment
// between p1 and p2 at local parameter t in [0, 1].
func catmullRom(p0, p1, p2, p3 geom.Vec3, t float64) geom.Vec3 {
	t2 := t * t
	t3 := t2 * t

	cr := func(a, b, c, d float64) float64 {
		return 0.5 * ((2 * b) +
			(-a+c)*t +
			(2*a-5*b+4*c-d)*t2 +
			(-a+3*b-3*c+d)*t3)
	}

	return geom.Vec3{
		X: cr(p0.X, p1.X, p2.X, p3.X),
		Y: cr(p0.Y, p1.Y, p2.Y, p3.Y),
		Z: cr(p0.Z, p1.Z, p2.Z, p3.Z),
	}
}
