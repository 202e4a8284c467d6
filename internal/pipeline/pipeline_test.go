package pipeline

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-segment-mcp/internal/config"
	"github.com/ironsheep/image-segment-mcp/internal/imaging"
)

// splitImage is dark where dark(x, y) holds and white elsewhere.
func splitImage(width, height int, dark func(x, y int) bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if dark(x, y) {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func topHalfDark(x, y int) bool  { return y < 4 }
func leftHalfDark(x, y int) bool { return x < 4 }

func newPipeline(t *testing.T, mutate func(*config.Config)) *Pipeline {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	p, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	return p
}

func TestRun_SplitsAtIntensityStep(t *testing.T) {
	p := newPipeline(t, nil)

	res, err := p.Run(context.Background(), splitImage(8, 8, topHalfDark), Request{})
	require.NoError(t, err)

	// Row 3 reaches row 4 through 22 edges of weight 1.
	assert.Equal(t, int64(22), res.Segmentation.MaxFlow)
	require.Len(t, res.Mask, 64)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equalf(t, y < 4, res.Mask[y*8+x], "pixel (%d,%d)", x, y)
		}
	}

	require.NotNil(t, res.Overlay)
	assert.Equal(t, image.Rect(0, 0, 8, 8), res.Overlay.Bounds())
	assert.Equal(t, uint8(255), res.MaskImage.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), res.MaskImage.GrayAt(0, 7).Y)

	assert.Equal(t, 32, res.Stats.Foreground.Pixels)
	assert.Equal(t, &imaging.Region{X1: 0, Y1: 0, X2: 8, Y2: 4}, res.Stats.Bounds)
	assert.True(t, res.Elapsed > 0)
}

func TestRun_ColumnSeedsOverride(t *testing.T) {
	p := newPipeline(t, nil)

	res, err := p.Run(context.Background(), splitImage(8, 8, leftHalfDark), Request{Seeds: config.SeedsColumns})
	require.NoError(t, err)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equalf(t, x < 4, res.Mask[y*8+x], "pixel (%d,%d)", x, y)
		}
	}
	assert.Equal(t, config.SeedsRows, p.Config().Seeds, "override must not leak into the pipeline")
}

func TestRun_DownscaledMaskCoversSource(t *testing.T) {
	p := newPipeline(t, func(c *config.Config) { c.MaxDimension = 4 })

	res, err := p.Run(context.Background(), splitImage(8, 8, topHalfDark), Request{})
	require.NoError(t, err)

	require.Equal(t, 4, res.Prepared.Grid.Width)
	require.Equal(t, 4, res.Prepared.Grid.Height)
	require.Len(t, res.Mask, 64)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			assert.Equalf(t, res.Segmentation.Mask[(y/2)*4+x/2], res.Mask[y*8+x], "pixel (%d,%d)", x, y)
		}
	}
}

func TestRun_Region(t *testing.T) {
	p := newPipeline(t, nil)
	region := &imaging.Region{X1: 0, Y1: 0, X2: 8, Y2: 4}

	res, err := p.Run(context.Background(), splitImage(8, 8, topHalfDark), Request{Region: region})
	require.NoError(t, err)

	// The crop is uniformly dark, so the terminal edges are the cheapest cut.
	assert.Equal(t, image.Rect(0, 0, 8, 4), res.Source.Bounds())
	assert.Equal(t, int64(8*255), res.Segmentation.MaxFlow)
	assert.Zero(t, res.Stats.Foreground.Pixels)
	assert.Nil(t, res.Stats.Bounds)
	assert.Same(t, region, res.Region)
}

func TestRun_SkipOverlay(t *testing.T) {
	p := newPipeline(t, nil)

	res, err := p.Run(context.Background(), splitImage(8, 8, topHalfDark), Request{SkipOverlay: true})
	require.NoError(t, err)
	assert.Nil(t, res.Overlay)
	assert.NotNil(t, res.MaskImage)
}

func TestRun_Errors(t *testing.T) {
	p := newPipeline(t, nil)
	img := splitImage(8, 8, topHalfDark)

	_, err := p.Run(context.Background(), img, Request{Seeds: "diagonal"})
	assert.Error(t, err)

	_, err = p.Run(context.Background(), img, Request{Region: &imaging.Region{X1: 0, Y1: 0, X2: 20, Y2: 4}})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Run(ctx, img, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 0
	_, err := New(cfg, zerolog.Nop())
	assert.Error(t, err)

	cfg = config.Default()
	cfg.LogLevel = "verbose"
	_, err = New(cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "log_level")
}
