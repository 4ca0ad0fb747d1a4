// Package render draws detected circles over the source image and encodes
// the result.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/circle-ransac/internal/geometry"
)

// Options controls overlay drawing.
type Options struct {
	// Labels writes each circle's 1-based index next to its center.
	Labels bool

	// Stroke is the outline width in pixels. Zero means 1.
	Stroke float64

	// Grid draws a coordinate grid every Grid pixels beneath the circles,
	// labelled when Labels is set. Zero disables it.
	Grid int

	// GridColor defaults to DefaultGridColor.
	GridColor color.Color
}

// Palette returns n visually distinct colours spread evenly around the hue
// wheel.
func Palette(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := 360 * float64(i) / math.Max(float64(n), 1)
		colors[i] = colorful.Hsv(hue, 0.85, 1.0).Clamped()
	}
	return colors
}

// Overlay returns a copy of img with every circle drawn as an outline.
// The returned image has its origin at (0, 0); circle coordinates are
// relative to img's top-left corner. Non-finite circles are skipped.
func Overlay(img image.Image, circles []geometry.Circle, opts Options) *image.NRGBA {
	canvas := imaging.Clone(img)
	colors := Palette(len(circles))

	if opts.Grid > 0 {
		gc := opts.GridColor
		if gc == nil {
			gc = DefaultGridColor
		}
		DrawGrid(canvas, opts.Grid, gc, opts.Labels)
	}

	for i, c := range circles {
		if !c.IsFinite() {
			continue
		}
		DrawCircle(canvas, c, opts.Stroke, colors[i])
		if opts.Labels {
			drawLabel(canvas, c.Center, strconv.Itoa(i+1), colors[i])
		}
	}
	return canvas
}

// DrawCircle paints the outline of c onto dst: every pixel whose center
// lies within stroke/2 (at least 0.5) of the circumference.
func DrawCircle(dst *image.NRGBA, c geometry.Circle, stroke float64, col color.Color) {
	if !c.IsFinite() {
		return
	}
	half := math.Max(stroke/2, 0.5)
	b := dst.Bounds()

	x0 := int(math.Max(math.Floor(c.Center.X-c.Radius-half), float64(b.Min.X)))
	x1 := int(math.Min(math.Ceil(c.Center.X+c.Radius+half), float64(b.Max.X-1)))
	y0 := int(math.Max(math.Floor(c.Center.Y-c.Radius-half), float64(b.Min.Y)))
	y1 := int(math.Min(math.Ceil(c.Center.Y+c.Radius+half), float64(b.Max.Y-1)))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := math.Hypot(float64(x)-c.Center.X, float64(y)-c.Center.Y)
			if math.Abs(d-c.Radius) <= half {
				dst.Set(x, y, col)
			}
		}
	}
}

func drawLabel(dst *image.NRGBA, at geometry.Point, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(math.Round(at.X))+3, int(math.Round(at.Y))-3),
	}
	d.DrawString(text)
}

// EncodePNG returns img encoded as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePNGBase64 returns img encoded as base64 PNG.
func EncodePNGBase64(img image.Image) (string, error) {
	b, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Save writes img to path; the format follows the file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
