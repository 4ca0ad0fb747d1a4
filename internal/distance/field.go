// Package distance computes distance fields over an edge mask.
//
// A Field maps every pixel to its city-block (L1) distance from the nearest
// active edge pixel. It is built with a 3×3 chamfer in two raster passes
// (orthogonal step 1, diagonal step 2), which yields the exact L1 distance.
//
// A Field is a snapshot: it does not track later changes to the mask. The
// detector rebuilds it after every mask mutation.
package distance

import (
	"math"

	"github.com/ironsheep/circle-ransac/internal/edgemask"
)

const (
	orthogonalStep = 1.0
	diagonalStep   = 2.0
)

// Field is a dense width×height grid of distances to the nearest edge.
// Pixels in a mask with no edges at all hold +Inf.
type Field struct {
	width  int
	height int
	dist   []float64
}

// Build computes the distance field of m.
func Build(m *edgemask.Mask) *Field {
	w, h := m.Width(), m.Height()
	f := &Field{
		width:  w,
		height: h,
		dist:   make([]float64, w*h),
	}

	inf := math.Inf(1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.At(x, y) {
				f.dist[y*w+x] = 0
			} else {
				f.dist[y*w+x] = inf
			}
		}
	}

	// Forward pass: neighbours above and to the left.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := f.dist[y*w+x]
			if d == 0 {
				continue
			}
			d = f.relax(d, x-1, y, orthogonalStep)
			d = f.relax(d, x-1, y-1, diagonalStep)
			d = f.relax(d, x, y-1, orthogonalStep)
			d = f.relax(d, x+1, y-1, diagonalStep)
			f.dist[y*w+x] = d
		}
	}

	// Backward pass: neighbours below and to the right.
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			d := f.dist[y*w+x]
			if d == 0 {
				continue
			}
			d = f.relax(d, x+1, y, orthogonalStep)
			d = f.relax(d, x+1, y+1, diagonalStep)
			d = f.relax(d, x, y+1, orthogonalStep)
			d = f.relax(d, x-1, y+1, diagonalStep)
			f.dist[y*w+x] = d
		}
	}

	return f
}

// relax returns min(d, dist(x, y)+step), treating out-of-bounds neighbours
// as unreachable.
func (f *Field) relax(d float64, x, y int, step float64) float64 {
	if !f.InBounds(x, y) {
		return d
	}
	if n := f.dist[y*f.width+x] + step; n < d {
		return n
	}
	return d
}

// Width returns the field width in pixels.
func (f *Field) Width() int { return f.width }

// Height returns the field height in pixels.
func (f *Field) Height() int { return f.height }

// InBounds reports whether (x, y) is inside the field.
func (f *Field) InBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// At returns the distance stored at (x, y). The second result is false when
// (x, y) lies outside the field.
func (f *Field) At(x, y int) (float64, bool) {
	if !f.InBounds(x, y) {
		return 0, false
	}
	return f.dist[y*f.width+x], true
}

// Value returns the distance at (x, y), or +Inf outside the field.
func (f *Field) Value(x, y int) float64 {
	d, ok := f.At(x, y)
	if !ok {
		return math.Inf(1)
	}
	return d
}

// Max returns the largest finite distance in the field, or 0 when the field
// holds no finite values.
func (f *Field) Max() float64 {
	max := 0.0
	for _, d := range f.dist {
		if !math.IsInf(d, 1) && d > max {
			max = d
		}
	}
	return max
}
