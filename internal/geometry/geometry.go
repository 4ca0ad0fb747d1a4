// Package geometry provides the 2D primitives used by the circle detector:
// points, circles, and the closed-form circle through three points.
//
// Coordinates follow the image convention used throughout this module:
// origin at the top-left, X increasing rightward, Y increasing downward.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2D coordinate, either an edge pixel or a sample taken on a
// candidate circle's circumference.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Vec returns p as a gonum vector.
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// FromVec converts a gonum vector back to a Point.
func FromVec(v r2.Vec) Point {
	return Point{X: v.X, Y: v.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return r2.Norm(r2.Sub(p.Vec(), q.Vec()))
}

// IsFinite reports whether both coordinates are neither NaN nor infinite.
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("[%.2f, %.2f]", p.X, p.Y)
}

// Circle is a fitted circle hypothesis.
//
// A circle fitted through collinear points has a NaN or infinite center
// and radius. That is a valid value; check IsFinite before using it.
type Circle struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// IsFinite reports whether the center and radius are all finite numbers.
func (c Circle) IsFinite() bool {
	return c.Center.IsFinite() && isFinite(c.Radius)
}

// PointAt returns the point on the circumference at angle t (radians),
// measured from the positive X axis.
func (c Circle) PointAt(t float64) Point {
	offset := r2.Scale(c.Radius, r2.Vec{X: math.Cos(t), Y: math.Sin(t)})
	return FromVec(r2.Add(c.Center.Vec(), offset))
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Point) bool {
	return c.Center.Dist(p) <= c.Radius
}

func (c Circle) String() string {
	return fmt.Sprintf("center: %s radius: %.2f", c.Center, c.Radius)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
