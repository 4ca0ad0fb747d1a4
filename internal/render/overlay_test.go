package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/ironsheep/circle-ransac/internal/geometry"
)

func blackImage(w, h int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, w, h))
}

func isBlack(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0 && g == 0 && b == 0
}

func TestPalette(t *testing.T) {
	colors := Palette(4)
	if len(colors) != 4 {
		t.Fatalf("Palette(4): got %d colours", len(colors))
	}

	seen := make(map[color.NRGBA]bool)
	for _, c := range colors {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		if seen[n] {
			t.Errorf("duplicate colour %v", n)
		}
		seen[n] = true
		if isBlack(c) {
			t.Error("palette colour is black")
		}
	}

	if len(Palette(0)) != 0 {
		t.Error("Palette(0) should be empty")
	}
}

func TestOverlay_DrawsOutline(t *testing.T) {
	src := blackImage(100, 100)
	c := geometry.Circle{Center: geometry.Pt(50, 50), Radius: 20}

	out := Overlay(src, []geometry.Circle{c}, Options{})

	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("bounds: got %v, want 100x100", b)
	}
	for _, p := range []image.Point{{70, 50}, {30, 50}, {50, 70}, {50, 30}} {
		if isBlack(out.At(p.X, p.Y)) {
			t.Errorf("circumference pixel %v not drawn", p)
		}
	}
	if !isBlack(out.At(50, 50)) {
		t.Error("center should stay untouched without labels")
	}
	if !isBlack(out.At(5, 5)) {
		t.Error("background pixel changed")
	}

	// The source is not modified.
	if src.GrayAt(70, 50).Y != 0 {
		t.Error("Overlay modified its input")
	}
}

func TestOverlay_SkipsNonFinite(t *testing.T) {
	bad := geometry.FitCircle(geometry.Pt(0, 0), geometry.Pt(1, 1), geometry.Pt(2, 2))
	out := Overlay(blackImage(20, 20), []geometry.Circle{bad}, Options{Labels: true})

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if !isBlack(out.At(x, y)) {
				t.Fatalf("pixel (%d,%d) drawn for a non-finite circle", x, y)
			}
		}
	}
}

func TestOverlay_Labels(t *testing.T) {
	c := geometry.Circle{Center: geometry.Pt(30, 30), Radius: 25}

	plain := Overlay(blackImage(60, 60), []geometry.Circle{c}, Options{})
	labelled := Overlay(blackImage(60, 60), []geometry.Circle{c}, Options{Labels: true})

	differs := false
	for y := 15; y < 30 && !differs; y++ {
		for x := 30; x < 45; x++ {
			if isBlack(plain.At(x, y)) != isBlack(labelled.At(x, y)) {
				differs = true
				break
			}
		}
	}
	if !differs {
		t.Error("label was not drawn near the center")
	}
}

func TestDrawCircle_Stroke(t *testing.T) {
	c := geometry.Circle{Center: geometry.Pt(50, 50), Radius: 20}

	thin := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	DrawCircle(thin, c, 1, color.White)
	thick := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	DrawCircle(thick, c, 6, color.White)

	count := func(img *image.NRGBA) int {
		n := 0
		for y := 0; y < 100; y++ {
			for x := 0; x < 100; x++ {
				if img.NRGBAAt(x, y).A > 0 {
					n++
				}
			}
		}
		return n
	}

	if count(thick) <= count(thin) {
		t.Errorf("thick stroke (%d px) not wider than thin stroke (%d px)", count(thick), count(thin))
	}
	// A thin outline covers roughly the circumference.
	if n := count(thin); math.Abs(float64(n)-2*math.Pi*20) > 2*math.Pi*20 {
		t.Errorf("thin stroke pixel count %d far from circumference", n)
	}
}

func TestDrawCircle_ClipsToBounds(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	DrawCircle(dst, geometry.Circle{Center: geometry.Pt(-5, -5), Radius: 1e9}, 1, color.White)
	DrawCircle(dst, geometry.Circle{Center: geometry.Pt(0, 0), Radius: 10}, 1, color.White)

	if dst.NRGBAAt(10, 0).A == 0 {
		t.Error("visible part of the clipped circle not drawn")
	}
}

func TestEncodePNGBase64(t *testing.T) {
	out := Overlay(blackImage(40, 30), []geometry.Circle{{Center: geometry.Pt(20, 15), Radius: 10}}, Options{})

	s, err := EncodePNGBase64(out)
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("decoded bounds: got %v, want 40x30", b)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "detectedCircles.png")
	if err := Save(blackImage(10, 10), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := Save(blackImage(10, 10), filepath.Join(t.TempDir(), "out.unknown")); err == nil {
		t.Error("Save should fail for an unsupported extension")
	}
}
