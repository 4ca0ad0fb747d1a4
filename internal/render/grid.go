package render

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultGridColor is semi-transparent red.
var DefaultGridColor = color.NRGBA{R: 255, A: 128}

// DrawGrid draws lines every spacing pixels across dst, labelled with
// their x,y coordinates when labels is set. Spacing <= 0 draws nothing.
func DrawGrid(dst *image.NRGBA, spacing int, col color.Color, labels bool) {
	if spacing <= 0 {
		return
	}
	b := dst.Bounds()

	for x := b.Min.X + spacing; x < b.Max.X; x += spacing {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			blend(dst, x, y, col)
		}
	}
	for y := b.Min.Y + spacing; y < b.Max.Y; y += spacing {
		for x := b.Min.X; x < b.Max.X; x++ {
			blend(dst, x, y, col)
		}
	}

	if !labels {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	for y := b.Min.Y + spacing; y < b.Max.Y; y += spacing {
		for x := b.Min.X + spacing; x < b.Max.X; x += spacing {
			d.Dot = fixed.P(x+2, y+12)
			d.DrawString(fmt.Sprintf("%d,%d", x-b.Min.X, y-b.Min.Y))
		}
	}
}

// blend composites col over the pixel at (x, y).
func blend(dst *image.NRGBA, x, y int, col color.Color) {
	sr, sg, sb, sa := col.RGBA()
	if sa == 0xffff {
		dst.Set(x, y, col)
		return
	}
	dr, dg, db, da := dst.At(x, y).RGBA()
	inv := 0xffff - sa
	dst.Set(x, y, color.RGBA64{
		R: uint16(sr + dr*inv/0xffff),
		G: uint16(sg + dg*inv/0xffff),
		B: uint16(sb + db*inv/0xffff),
		A: uint16(sa + da*inv/0xffff),
	})
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA"; the leading '#' is
// optional.
func ParseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	switch len(hex) {
	case 6:
		return color.NRGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	case 8:
		return color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: want 6 or 8 digits", hex)
	}
}
