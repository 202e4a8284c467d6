package segment

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Options configures network construction and segmentation.
type Options struct {
	// MaxWeight is the capacity of edges between equal intensities and of every
	// terminal edge. Zero selects DefaultMaxWeight.
	MaxWeight int64

	// Similarity computes neighbour edge capacities. Nil selects Linear.
	Similarity Similarity

	// Seeds selects the pixels wired to the source and the sink.
	// Nil wires the top row to the source and the bottom row to the sink.
	Seeds *Seeds

	// Logger is passed to the solver. Nil disables logging.
	Logger *zerolog.Logger
}

// DefaultOptions returns the options used when none are given: linear
// similarity, MaxWeight 255 and top/bottom row seeding.
func DefaultOptions() Options {
	return Options{
		MaxWeight:  DefaultMaxWeight,
		Similarity: Linear,
	}
}

func (o *Options) normalize() error {
	if o.MaxWeight == 0 {
		o.MaxWeight = DefaultMaxWeight
	}
	if o.MaxWeight < 0 {
		return fmt.Errorf("segment: max weight must be positive, got %d", o.MaxWeight)
	}
	if o.Similarity == nil {
		o.Similarity = Linear
	}
	return nil
}

// Seeds marks the pixels connected to the terminals. Both masks are indexed by
// row*width+col. A pixel may appear in both masks.
type Seeds struct {
	Source []bool
	Sink   []bool
}

// RowSeeds wires the top row to the source and the bottom row to the sink.
func RowSeeds(width, height int) *Seeds {
	s := &Seeds{Source: make([]bool, width*height), Sink: make([]bool, width*height)}
	for col := 0; col < width; col++ {
		s.Source[col] = true
		s.Sink[(height-1)*width+col] = true
	}
	return s
}

// ColumnSeeds wires the left column to the source and the right column to
// the sink, for subjects that span the image horizontally.
func ColumnSeeds(width, height int) *Seeds {
	s := &Seeds{Source: make([]bool, width*height), Sink: make([]bool, width*height)}
	for row := 0; row < height; row++ {
		s.Source[row*width] = true
		s.Sink[row*width+width-1] = true
	}
	return s
}

func (s *Seeds) validate(pixels int) error {
	if len(s.Source) != pixels || len(s.Sink) != pixels {
		return fmt.Errorf("%w: masks hold %d/%d entries, want %d", ErrInvalidSeeds, len(s.Source), len(s.Sink), pixels)
	}
	return nil
}

// neighbours lists the 8 grid directions as (dcol, drow), clockwise from up.
var neighbours = [8][2]int{
	{0, -1},  // up
	{1, -1},  // up-right
	{1, 0},   // right
	{1, 1},   // down-right
	{0, 1},   // down
	{-1, 1},  // down-left
	{-1, 0},  // left
	{-1, -1}, // up-left
}

// PixelNode returns the node id of pixel (col, row) in a grid of the given width.
func PixelNode(col, row, width int) int {
	return row*width + col + 1
}

// BuildNetwork converts a width x height grid of intensities into a flow
// network.
//
// Every pixel gets an edge to each in-bounds 8-neighbour with capacity
// opts.Similarity(intensity(pixel), intensity(neighbour)). Then each source
// seed gets an edge source -> pixel and each sink seed an edge pixel -> sink,
// both with capacity opts.MaxWeight.
//
// intensity is called once per pixel; it is not called out of bounds.
func BuildNetwork(width, height int, intensity func(col, row int) uint8, opts Options) (*Network, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}
	seeds := opts.Seeds
	if seeds == nil {
		seeds = RowSeeds(width, height)
	} else if err := seeds.validate(width * height); err != nil {
		return nil, err
	}

	samples := make([]uint8, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			samples[row*width+col] = intensity(col, row)
		}
	}

	net := NewNetwork(width * height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			from := PixelNode(col, row, width)
			a := samples[row*width+col]
			for _, d := range neighbours {
				nc, nr := col+d[0], row+d[1]
				if nc < 0 || nc >= width || nr < 0 || nr >= height {
					continue
				}
				w := opts.Similarity(a, samples[nr*width+nc], opts.MaxWeight)
				if err := net.AddEdge(from, PixelNode(nc, nr, width), w); err != nil {
					return nil, err
				}
			}
		}
	}

	for i, ok := range seeds.Source {
		if ok {
			if err := net.AddEdge(net.Source(), i+1, opts.MaxWeight); err != nil {
				return nil, err
			}
		}
	}
	for i, ok := range seeds.Sink {
		if ok {
			if err := net.AddEdge(i+1, net.Sink(), opts.MaxWeight); err != nil {
				return nil, err
			}
		}
	}

	return net, nil
}
