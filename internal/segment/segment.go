package segment

import "context"

// Segmentation is the foreground/background split of a grid.
type Segmentation struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Mask[row*Width+col] is true when the pixel lies on the source side of
	// the minimum cut (foreground).
	Mask []bool `json:"-"`

	// MaxFlow is the value of the maximum flow, equal to the cut capacity.
	MaxFlow int64 `json:"max_flow"`

	// Augmentations is the number of augmenting paths the solver applied.
	Augmentations int `json:"augmentations"`

	// ForegroundPixels counts the true entries of Mask.
	ForegroundPixels int `json:"foreground_pixels"`
}

// ForegroundRatio returns the fraction of pixels classified as foreground.
func (s *Segmentation) ForegroundRatio() float64 {
	if len(s.Mask) == 0 {
		return 0
	}
	return float64(s.ForegroundPixels) / float64(len(s.Mask))
}

// Segment builds the flow network for grid, computes its minimum cut and
// returns the source side as a pixel mask.
func Segment(ctx context.Context, grid Grid, opts Options) (*Segmentation, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	net, err := BuildNetwork(grid.Width, grid.Height, grid.At, opts)
	if err != nil {
		return nil, err
	}

	res, err := net.MaxFlow(ctx, &SolveOptions{Logger: opts.Logger})
	if err != nil {
		return nil, err
	}

	seg := &Segmentation{
		Width:         grid.Width,
		Height:        grid.Height,
		Mask:          make([]bool, grid.Width*grid.Height),
		MaxFlow:       res.MaxFlow,
		Augmentations: res.Augmentations,
	}
	// Drop the source and sink entries; pixel node ids start at 1.
	for i := range seg.Mask {
		if res.Reachable[i+1] {
			seg.Mask[i] = true
			seg.ForegroundPixels++
		}
	}
	return seg, nil
}
