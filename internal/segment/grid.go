package segment

import "fmt"

// Grid is a row-major grid of 8-bit intensity samples.
//
// Pix[row*Width+col] holds the intensity at (col, row); 0 is black, 255 white.
type Grid struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGrid allocates a zeroed grid of the given size.
func NewGrid(width, height int) (Grid, error) {
	if err := checkDimensions(width, height); err != nil {
		return Grid{}, err
	}
	return Grid{Width: width, Height: height, Pix: make([]uint8, width*height)}, nil
}

// At returns the intensity at (col, row).
func (g Grid) At(col, row int) uint8 {
	return g.Pix[row*g.Width+col]
}

// Set stores an intensity at (col, row).
func (g Grid) Set(col, row int, v uint8) {
	g.Pix[row*g.Width+col] = v
}

// Validate checks that the dimensions are positive and match len(Pix).
func (g Grid) Validate() error {
	if err := checkDimensions(g.Width, g.Height); err != nil {
		return err
	}
	if len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("%w: %dx%d grid holds %d samples", ErrInvalidDimensions, g.Width, g.Height, len(g.Pix))
	}
	return nil
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	// width*height+2 node ids must fit in an int
	const maxInt = int(^uint(0) >> 1)
	if width > (maxInt-2)/height {
		return fmt.Errorf("%w: %dx%d exceeds addressable node count", ErrInvalidDimensions, width, height)
	}
	return nil
}
