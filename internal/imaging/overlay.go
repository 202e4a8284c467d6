package imaging

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

// OverlayOptions controls how the foreground is highlighted.
type OverlayOptions struct {
	// Color is the tint as "#RRGGBB" (or "#RGB").
	Color string

	// Opacity is the tint strength in [0, 1]. 0 leaves the image unchanged,
	// 1 paints the foreground solid.
	Opacity float64

	// Outline draws the foreground boundary in the full tint colour.
	Outline bool
}

// DefaultOverlayOptions returns a half-strength red tint with an outline.
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{Color: "#FF0000", Opacity: 0.5, Outline: true}
}

// Overlay returns a copy of img with the mask's foreground tinted.
//
// mask must cover img pixel for pixel in row-major order; use ResizeMask to
// bring a downscaled segmentation back to source size first. Alpha is kept
// from the source image.
func Overlay(img image.Image, mask []bool, opts OverlayOptions) (*image.NRGBA, error) {
	tint, err := colorful.Hex(opts.Color)
	if err != nil {
		return nil, fmt.Errorf("invalid overlay color %q: %w", opts.Color, err)
	}
	if opts.Opacity < 0 || opts.Opacity > 1 {
		return nil, fmt.Errorf("overlay opacity must be within [0, 1], got %g", opts.Opacity)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if err := checkMask(mask, width, height); err != nil {
		return nil, err
	}

	var edge []bool
	if opts.Outline {
		if edge, err = Boundary(mask, width, height); err != nil {
			return nil, err
		}
	}

	result := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	tr, tg, tb := tint.RGB255()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !mask[i] {
				continue
			}
			off := result.PixOffset(x, y)
			px := result.Pix[off : off+4 : off+4]
			if edge != nil && edge[i] {
				px[0], px[1], px[2] = tr, tg, tb
				continue
			}
			orig := colorful.Color{
				R: float64(px[0]) / 255,
				G: float64(px[1]) / 255,
				B: float64(px[2]) / 255,
			}
			px[0], px[1], px[2] = orig.BlendRgb(tint, opts.Opacity).Clamped().RGB255()
		}
	}

	return result, nil
}
