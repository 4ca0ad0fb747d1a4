package ransac

import (
	"math"
	"testing"

	"github.com/ironsheep/circle-ransac/internal/edgemask"
	"github.com/ironsheep/circle-ransac/internal/geometry"
)

// ringMask returns a mask with a rasterised circle outline: every pixel
// whose center lies within 0.75 px of the circle. Any point on the true
// circle rounds to a pixel of the ring.
func ringMask(width, height int, cx, cy, r float64) *edgemask.Mask {
	m := edgemask.New(width, height)
	drawRing(m, cx, cy, r)
	return m
}

func drawRing(m *edgemask.Mask, cx, cy, r float64) {
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			if math.Abs(d-r) <= 0.75 {
				m.Set(x, y, true)
			}
		}
	}
}

// indexOf returns the position of p in the mask's edge point list.
func indexOf(t *testing.T, m *edgemask.Mask, p geometry.Point) int {
	t.Helper()
	for i, e := range m.EdgePoints() {
		if e == p {
			return i
		}
	}
	t.Fatalf("point %v is not an edge pixel", p)
	return -1
}

// scriptedSource replays fixed indices, then falls back to a cycling
// sequence so the detector never stalls on repeated duplicates.
type scriptedSource struct {
	script []int
	pos    int
	next   int
}

func (s *scriptedSource) Intn(n int) int {
	if s.pos < len(s.script) {
		v := s.script[s.pos]
		s.pos++
		return v % n
	}
	v := s.next % n
	s.next++
	return v
}
