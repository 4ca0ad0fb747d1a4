package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	imgproc "github.com/disintegration/imaging"

	"github.com/ironsheep/circle-ransac/internal/edgemask"
)

// MaskOptions controls how an input image becomes a binary edge mask.
type MaskOptions struct {
	// Threshold is the lowest gray level (1-255) counted as an edge.
	// Zero means 1, i.e. any non-black pixel.
	Threshold uint8 `json:"threshold"`

	// ErodeRadius thins the binary mask with a morphological erosion.
	// Zero disables erosion.
	ErodeRadius float64 `json:"erode_radius"`

	// Canny runs edge extraction first, for inputs that are photographs
	// rather than edge images.
	Canny bool `json:"canny"`

	// CannyLow and CannyHigh are the hysteresis thresholds (0-255).
	// Zero values default to 50 and 150.
	CannyLow  int `json:"canny_low"`
	CannyHigh int `json:"canny_high"`
}

// DefaultMaskOptions matches the preprocessing of an edge image: any
// non-black pixel is an edge, eroded once with a 3×3 neighbourhood.
func DefaultMaskOptions() MaskOptions {
	return MaskOptions{
		Threshold:   1,
		ErodeRadius: 1,
	}
}

// PrepareMask converts img into the binary edge mask used by the detector.
//
// The pipeline is: optional Canny edge extraction, flattening onto an
// opaque black background, binarisation of the luminance at Threshold,
// and optional erosion. Transparent pixels are background.
func PrepareMask(img image.Image, opts MaskOptions) *edgemask.Mask {
	src := img
	if opts.Canny {
		low, high := opts.CannyLow, opts.CannyHigh
		if low == 0 {
			low = 50
		}
		if high == 0 {
			high = 150
		}
		src = CannyEdges(img, low, high)
	}

	level := opts.Threshold
	if level == 0 {
		level = 1
	}
	binary := binarize(src, level)

	if opts.ErodeRadius > 0 {
		// Erosion keeps the mask two-valued, so any mid level re-binarises it.
		binary = segment.Threshold(effect.Erode(binary, opts.ErodeRadius), 128)
	}

	return edgemask.FromGray(binary)
}

// binarize flattens img onto black and returns a mask with 255 wherever the
// 16-bit luminance reaches level (on the 8-bit scale) and 0 elsewhere. At
// level 1 every pixel with a non-zero colour channel is kept.
func binarize(img image.Image, level uint8) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	flat := imgproc.Overlay(imgproc.New(w, h, color.Black), img, image.Pt(0, 0), 1)
	floor := uint32(level-1) * 0x101

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lum := color.Gray16Model.Convert(flat.NRGBAAt(x, y)).(color.Gray16).Y
			if uint32(lum) > floor {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// LoadMask loads the image at path through cache and prepares its edge mask.
func LoadMask(cache *ImageCache, path string, opts MaskOptions) (*edgemask.Mask, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	m := PrepareMask(img, opts)
	if m.Width() == 0 || m.Height() == 0 {
		return nil, fmt.Errorf("image %s has no pixels", path)
	}
	return m, nil
}
