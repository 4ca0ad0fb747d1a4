// Package edgemask holds the binary edge mask that the circle detector
// consumes, and derives the set of still-unexplained edge points from it.
//
// The Mask is the single source of truth for which pixels are active edges.
// The edge point list is never patched: after every mutation it is
// recomputed from the mask with EdgePoints.
package edgemask

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/ironsheep/circle-ransac/internal/geometry"
)

// Foreground is the value written for active edge pixels.
const Foreground uint8 = 255

// Mask is a dense width×height binary grid. A pixel is an active edge when
// its value is non-zero.
type Mask struct {
	width  int
	height int
	pix    []uint8
}

// New returns an empty (all background) mask.
func New(width, height int) *Mask {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Mask{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height),
	}
}

// FromGray builds a mask from a grayscale image. Every non-zero pixel
// becomes an active edge. Image bounds are shifted so the mask origin is
// always (0, 0).
func FromGray(img *image.Gray) *Mask {
	b := img.Bounds()
	m := New(b.Dx(), b.Dy())
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if img.GrayAt(x+b.Min.X, y+b.Min.Y).Y > 0 {
				m.pix[y*m.width+x] = Foreground
			}
		}
	}
	return m
}

// FromPoints builds a mask of the given size with the listed pixels set.
// Points are rounded to the nearest pixel; points outside the mask are
// ignored.
func FromPoints(width, height int, pts []geometry.Point) *Mask {
	m := New(width, height)
	for _, p := range pts {
		m.Set(int(math.Round(p.X)), int(math.Round(p.Y)), true)
	}
	return m
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.height }

// InBounds reports whether (x, y) is a valid pixel coordinate.
func (m *Mask) InBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// At reports whether (x, y) is an active edge. Out-of-bounds pixels are
// background.
func (m *Mask) At(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	return m.pix[y*m.width+x] > 0
}

// Set marks (x, y) as foreground or background. Out-of-bounds writes are
// ignored.
func (m *Mask) Set(x, y int, on bool) {
	if !m.InBounds(x, y) {
		return
	}
	if on {
		m.pix[y*m.width+x] = Foreground
	} else {
		m.pix[y*m.width+x] = 0
	}
}

// Count returns the number of active edge pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.pix {
		if v > 0 {
			n++
		}
	}
	return n
}

// EdgePoints returns the coordinates of every active edge pixel in
// row-major order (top to bottom, left to right).
func (m *Mask) EdgePoints() []geometry.Point {
	pts := make([]geometry.Point, 0, m.Count())
	for y := 0; y < m.height; y++ {
		row := m.pix[y*m.width : (y+1)*m.width]
		for x, v := range row {
			if v > 0 {
				pts = append(pts, geometry.Point{X: float64(x), Y: float64(y)})
			}
		}
	}
	return pts
}

// Clone returns an independent copy of the mask.
func (m *Mask) Clone() *Mask {
	pix := make([]uint8, len(m.pix))
	copy(pix, m.pix)
	return &Mask{width: m.width, height: m.height, pix: pix}
}

// EraseCircle clears the footprint of c from the mask and returns the
// number of pixels that were switched from foreground to background.
//
// With thickness > 0 the footprint is a ring of that stroke width centred
// on the circumference: every pixel whose center lies within thickness/2 of
// the circle. With thickness <= 0 the whole disc is cleared. Non-finite
// circles erase nothing.
func (m *Mask) EraseCircle(c geometry.Circle, thickness float64) int {
	if !c.IsFinite() || m.width == 0 || m.height == 0 {
		return 0
	}

	half := thickness / 2
	outer := c.Radius
	if thickness > 0 {
		outer += half
	}

	x0, x1 := clampSpan(c.Center.X-outer, c.Center.X+outer, m.width)
	y0, y1 := clampSpan(c.Center.Y-outer, c.Center.Y+outer, m.height)

	erased := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			i := y*m.width + x
			if m.pix[i] == 0 {
				continue
			}
			d := c.Center.Dist(geometry.Point{X: float64(x), Y: float64(y)})
			var hit bool
			if thickness > 0 {
				hit = math.Abs(d-c.Radius) <= half
			} else {
				hit = d <= c.Radius
			}
			if hit {
				m.pix[i] = 0
				erased++
			}
		}
	}
	return erased
}

// Gray renders the mask as a grayscale image with edges in white.
func (m *Mask) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.pix[y*m.width+x] > 0 {
				img.SetGray(x, y, color.Gray{Y: Foreground})
			}
		}
	}
	return img
}

func (m *Mask) String() string {
	return fmt.Sprintf("mask %dx%d (%d edge pixels)", m.width, m.height, m.Count())
}

// clampSpan converts the float range [lo, hi] into an inclusive pixel range
// clipped to [0, size-1]. An empty range returns lo > hi.
func clampSpan(lo, hi float64, size int) (int, int) {
	lo = math.Max(math.Floor(lo), 0)
	hi = math.Min(math.Ceil(hi), float64(size-1))
	if lo > hi {
		return 1, 0
	}
	return int(lo), int(hi)
}
