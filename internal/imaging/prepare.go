package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-segment-mcp/internal/segment"
)

// PrepareOptions controls how an image is reduced to an intensity grid.
type PrepareOptions struct {
	// BlurRadius is the Gaussian pre-blur radius in pixels. Zero disables it.
	BlurRadius float64

	// MaxDimension caps the longest side of the grid. Larger images are
	// downscaled with Lanczos resampling, preserving aspect ratio. Zero
	// disables downscaling.
	MaxDimension int
}

// Prepared is an intensity grid together with the geometry of its source.
type Prepared struct {
	Grid segment.Grid

	// SourceWidth and SourceHeight are the dimensions before downscaling.
	SourceWidth  int
	SourceHeight int
}

// Downscaled reports whether the grid is smaller than its source image.
func (p *Prepared) Downscaled() bool {
	return p.Grid.Width != p.SourceWidth || p.Grid.Height != p.SourceHeight
}

// ToGrid converts img into the row-major grayscale grid consumed by the
// segmenter. The image is downscaled first so the blur radius is measured in
// grid pixels.
//
// effect.Grayscale returns an *image.RGBA with R = G = B, so one channel is
// sampled per pixel.
func ToGrid(img image.Image, opts PrepareOptions) (*Prepared, error) {
	if opts.BlurRadius < 0 {
		return nil, fmt.Errorf("blur radius must be non-negative, got %g", opts.BlurRadius)
	}
	if opts.MaxDimension < 0 {
		return nil, fmt.Errorf("max dimension must be non-negative, got %d", opts.MaxDimension)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image has no pixels: %w", segment.ErrInvalidDimensions)
	}

	src := img
	if m := opts.MaxDimension; m > 0 && (bounds.Dx() > m || bounds.Dy() > m) {
		src = imaging.Fit(src, m, m, imaging.Lanczos)
	}
	if opts.BlurRadius > 0 {
		src = blur.Gaussian(src, opts.BlurRadius)
	}
	gray := effect.Grayscale(src)

	gb := gray.Bounds()
	grid, err := segment.NewGrid(gb.Dx(), gb.Dy())
	if err != nil {
		return nil, err
	}
	for row := 0; row < grid.Height; row++ {
		for col := 0; col < grid.Width; col++ {
			grid.Pix[row*grid.Width+col] = gray.Pix[gray.PixOffset(gb.Min.X+col, gb.Min.Y+row)]
		}
	}

	return &Prepared{
		Grid:         grid,
		SourceWidth:  bounds.Dx(),
		SourceHeight: bounds.Dy(),
	}, nil
}
