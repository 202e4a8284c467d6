// Package pipeline runs a complete segmentation of one image: crop, grid
// preparation, min-cut, mask upscaling, overlay rendering and statistics.
//
// Both the MCP server and the batch runner go through Run, so a file gives the
// same result from either entry point.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-segment-mcp/internal/config"
	"github.com/ironsheep/image-segment-mcp/internal/imaging"
	"github.com/ironsheep/image-segment-mcp/internal/logging"
	"github.com/ironsheep/image-segment-mcp/internal/segment"
)

// Request carries the per-image overrides of a run.
type Request struct {
	// Region restricts segmentation to part of the image. Nil uses all of it.
	Region *imaging.Region

	// Seeds overrides the configured seed layout when non-empty.
	Seeds string

	// SkipOverlay leaves Result.Overlay nil.
	SkipOverlay bool
}

// Result is the outcome of Run. Mask, MaskImage and Overlay cover the
// (cropped) source at full resolution; Segmentation covers the grid.
type Result struct {
	Segmentation *segment.Segmentation
	Prepared     *imaging.Prepared
	Region       *imaging.Region

	Source    image.Image
	Mask      []bool
	MaskImage *image.Gray
	Overlay   *image.NRGBA
	Stats     *imaging.MaskStats

	Elapsed time.Duration
}

// Pipeline holds the settings shared by every run. It is safe for concurrent
// use; each Run builds and solves its own network.
type Pipeline struct {
	cfg    config.Config
	logger zerolog.Logger
}

// New returns a pipeline using a copy of cfg.
func New(cfg *config.Config, logger zerolog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: *cfg, logger: logger}, nil
}

// Config returns the settings the pipeline runs with.
func (p *Pipeline) Config() config.Config {
	return p.cfg
}

// Run segments img.
func (p *Pipeline) Run(ctx context.Context, img image.Image, req Request) (*Result, error) {
	start := time.Now()
	res := &Result{Source: img, Region: req.Region}

	if req.Region != nil {
		cropped, err := imaging.CropRegion(img, *req.Region)
		if err != nil {
			return nil, err
		}
		res.Source = cropped
	}

	prepared, err := imaging.ToGrid(res.Source, p.cfg.PrepareOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare grid: %w", err)
	}
	res.Prepared = prepared

	cfg := p.cfg
	if req.Seeds != "" {
		cfg.Seeds = req.Seeds
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	opts, err := cfg.SegmentOptions(prepared.Grid.Width, prepared.Grid.Height)
	if err != nil {
		return nil, err
	}
	logger := p.logger.With().
		Int("width", prepared.Grid.Width).
		Int("height", prepared.Grid.Height).
		Logger()
	opts.Logger = &logger

	logger.Debug().
		Int("source_width", prepared.SourceWidth).
		Int("source_height", prepared.SourceHeight).
		Str("seeds", cfg.Seeds).
		Msg("segmenting grid")

	seg, err := segment.Segment(ctx, prepared.Grid, opts)
	if err != nil {
		return nil, err
	}
	res.Segmentation = seg

	res.Mask, err = imaging.ResizeMask(seg.Mask, seg.Width, seg.Height, prepared.SourceWidth, prepared.SourceHeight)
	if err != nil {
		return nil, err
	}
	if res.MaskImage, err = imaging.MaskImage(res.Mask, prepared.SourceWidth, prepared.SourceHeight); err != nil {
		return nil, err
	}
	if !req.SkipOverlay {
		if res.Overlay, err = imaging.Overlay(res.Source, res.Mask, p.cfg.OverlayOptions()); err != nil {
			return nil, err
		}
	}
	if res.Stats, err = imaging.ComputeMaskStats(res.Source, res.Mask); err != nil {
		return nil, err
	}

	res.Elapsed = time.Since(start)
	logging.Elapsed(logger.Info(), start).
		Int64("max_flow", seg.MaxFlow).
		Int("augmentations", seg.Augmentations).
		Int("foreground_pixels", res.Stats.Foreground.Pixels).
		Msg("segmentation complete")

	return res, nil
}
