package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// cannyBlurRadius is the Gaussian radius applied before gradients.
const cannyBlurRadius = 1.4

// CannyEdges extracts a thin edge map from a photograph or rendered image.
//
// The result has the same size as img with its origin at (0, 0). Edge
// pixels are white (255), everything else black.
//
// Thresholds are on the 0-255 gradient magnitude scale:
//   - magnitude >= thresholdHigh: strong edge, always kept
//   - thresholdLow <= magnitude < thresholdHigh: weak edge, kept only when
//     one of its 8 neighbours is strong
//   - below thresholdLow: discarded
//
// # Algorithm
//
//  1. Grayscale conversion and Gaussian blur (bild)
//  2. Sobel gradients, magnitude and direction
//  3. Non-maximum suppression along the gradient direction
//  4. Double threshold with one-step hysteresis
func CannyEdges(img image.Image, thresholdLow, thresholdHigh int) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	blurred := blur.Gaussian(effect.Grayscale(img), cannyBlurRadius)
	bb := blurred.Bounds()

	lum := make([][]float64, height)
	for y := 0; y < height; y++ {
		lum[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			lum[y][x] = float64(blurred.RGBAAt(x+bb.Min.X, y+bb.Min.Y).R) / 255.0
		}
	}

	magnitude, direction := sobel(lum, width, height)
	suppressed := suppressNonMaxima(magnitude, direction, width, height)

	result := image.NewGray(image.Rect(0, 0, width, height))
	low := float64(thresholdLow) / 255.0
	high := float64(thresholdHigh) / 255.0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := suppressed[y][x]
			switch {
			case v >= high:
				result.SetGray(x, y, color.Gray{Y: 255})
			case v >= low && hasStrongNeighbor(suppressed, x, y, width, height, high):
				result.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return result
}

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// sobel returns gradient magnitude and direction (radians) per pixel.
// Borders replicate the nearest valid pixel.
func sobel(lum [][]float64, width, height int) ([][]float64, [][]float64) {
	magnitude := make([][]float64, height)
	direction := make([][]float64, height)

	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := lum[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Hypot(gx, gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}
	return magnitude, direction
}

// suppressNonMaxima keeps a pixel's magnitude only when it is a local
// maximum across the edge. Border pixels are always suppressed.
func suppressNonMaxima(magnitude, direction [][]float64, width, height int) [][]float64 {
	out := make([][]float64, height)
	for y := 0; y < height; y++ {
		out[y] = make([]float64, width)
		if y == 0 || y == height-1 {
			continue
		}
		for x := 1; x < width-1; x++ {
			n1, n2 := gradientNeighbors(magnitude, direction[y][x], x, y)
			if m := magnitude[y][x]; m >= n1 && m >= n2 {
				out[y][x] = m
			}
		}
	}
	return out
}

// gradientNeighbors returns the two magnitudes on either side of (x, y)
// along the gradient direction, quantised to 45°.
func gradientNeighbors(magnitude [][]float64, angle float64, x, y int) (float64, float64) {
	switch {
	case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
		return magnitude[y][x-1], magnitude[y][x+1]
	case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
		return magnitude[y-1][x+1], magnitude[y+1][x-1]
	case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
		return magnitude[y-1][x], magnitude[y+1][x]
	default:
		return magnitude[y-1][x-1], magnitude[y+1][x+1]
	}
}

func hasStrongNeighbor(suppressed [][]float64, x, y, width, height int, high float64) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			if suppressed[clamp(y+ky, 0, height-1)][clamp(x+kx, 0, width-1)] >= high {
				return true
			}
		}
	}
	return false
}

// clamp constrains val to [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
