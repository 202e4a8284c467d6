package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Mask intensities used when rendering a segmentation.
const (
	MaskForeground uint8 = 255
	MaskBackground uint8 = 0
)

func checkMask(mask []bool, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid mask dimensions %dx%d", width, height)
	}
	if len(mask) != width*height {
		return fmt.Errorf("mask holds %d pixels, want %dx%d", len(mask), width, height)
	}
	return nil
}

// MaskImage renders mask as a grayscale image, foreground white.
func MaskImage(mask []bool, width, height int) (*image.Gray, error) {
	if err := checkMask(mask, width, height); err != nil {
		return nil, err
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i, fg := range mask {
		if fg {
			img.Pix[(i/width)*img.Stride+i%width] = MaskForeground
		}
	}
	return img, nil
}

// ResizeMask scales a mask to dstWidth x dstHeight with nearest-neighbour
// sampling, so every output pixel takes the label of one grid pixel.
func ResizeMask(mask []bool, width, height, dstWidth, dstHeight int) ([]bool, error) {
	if err := checkMask(mask, width, height); err != nil {
		return nil, err
	}
	if dstWidth <= 0 || dstHeight <= 0 {
		return nil, fmt.Errorf("invalid target dimensions %dx%d", dstWidth, dstHeight)
	}
	if dstWidth == width && dstHeight == height {
		return append([]bool(nil), mask...), nil
	}

	src, err := MaskImage(mask, width, height)
	if err != nil {
		return nil, err
	}
	scaled := imaging.Resize(src, dstWidth, dstHeight, imaging.NearestNeighbor)

	out := make([]bool, dstWidth*dstHeight)
	for y := 0; y < dstHeight; y++ {
		for x := 0; x < dstWidth; x++ {
			// Resize returns NRGBA; the red channel carries the mask value.
			out[y*dstWidth+x] = scaled.Pix[y*scaled.Stride+x*4] >= 128
		}
	}
	return out, nil
}

// Boundary marks the foreground pixels that touch background through one of
// their four direct neighbours. Pixels on the image border only count when a
// neighbour inside the image is background.
func Boundary(mask []bool, width, height int) ([]bool, error) {
	if err := checkMask(mask, width, height); err != nil {
		return nil, err
	}
	out := make([]bool, len(mask))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !mask[i] {
				continue
			}
			switch {
			case y > 0 && !mask[i-width],
				y < height-1 && !mask[i+width],
				x > 0 && !mask[i-1],
				x < width-1 && !mask[i+1]:
				out[i] = true
			}
		}
	}
	return out, nil
}
