package geometry

// FitCircle returns the unique circle passing through p1, p2 and p3.
//
// The center is the algebraic circumcenter:
//
//	D  = 2(x1(y2-y3) - y1(x2-x3) + x2y3 - x3y2)
//	cx = ((x1²+y1²)(y2-y3) + (x2²+y2²)(y3-y1) + (x3²+y3²)(y1-y2)) / D
//	cy = ((x1²+y1²)(x3-x2) + (x2²+y2²)(x1-x3) + (x3²+y3²)(x2-x1)) / D
//
// and the radius is the distance from the center to p1.
//
// Collinear points give D = 0. The division is still performed, so the
// result carries NaN or ±Inf values that Circle.IsFinite detects. Nothing
// panics and no error is returned.
func FitCircle(p1, p2, p3 Point) Circle {
	x1, y1 := p1.X, p1.Y
	x2, y2 := p2.X, p2.Y
	x3, y3 := p3.X, p3.Y

	d := 2 * (x1*(y2-y3) - y1*(x2-x3) + x2*y3 - x3*y2)

	s1 := x1*x1 + y1*y1
	s2 := x2*x2 + y2*y2
	s3 := x3*x3 + y3*y3

	center := Point{
		X: (s1*(y2-y3) + s2*(y3-y1) + s3*(y1-y2)) / d,
		Y: (s1*(x3-x2) + s2*(x1-x3) + s3*(x2-x1)) / d,
	}

	return Circle{
		Center: center,
		Radius: center.Dist(p1),
	}
}
