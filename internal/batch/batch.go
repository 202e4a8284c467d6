// Package batch segments every image in a directory.
//
// Images are processed concurrently, bounded by the configured worker count;
// each individual solve stays single-threaded. A failing file does not stop
// the run: its error is collected and the remaining files are still written.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-segment-mcp/internal/imaging"
	"github.com/ironsheep/image-segment-mcp/internal/logging"
	"github.com/ironsheep/image-segment-mcp/internal/pipeline"
)

// Output file suffixes. Inputs already carrying one are skipped when listing,
// so writing into the input directory is safe to repeat.
const (
	OverlaySuffix = "_overlay.png"
	MaskSuffix    = "_mask.png"
)

// Item describes one segmented file.
type Item struct {
	Input   string `json:"input"`
	Overlay string `json:"overlay"`
	Mask    string `json:"mask"`

	Width             int     `json:"width"`
	Height            int     `json:"height"`
	GridWidth         int     `json:"grid_width"`
	GridHeight        int     `json:"grid_height"`
	MaxFlow           int64   `json:"max_flow"`
	Augmentations     int     `json:"augmentations"`
	ForegroundPercent float64 `json:"foreground_percent"`
	ElapsedMS         int64   `json:"elapsed_ms"`
}

// Report summarises a directory run. Items are in file name order.
type Report struct {
	InputDir  string   `json:"input_dir"`
	OutputDir string   `json:"output_dir"`
	Found     int      `json:"found"`
	Items     []Item   `json:"items"`
	Failures  []string `json:"failures,omitempty"`
	ElapsedMS int64    `json:"elapsed_ms"`
}

// Runner segments files through a shared pipeline.
type Runner struct {
	pipeline *pipeline.Pipeline
	workers  int
	logger   zerolog.Logger
}

// New returns a runner using the worker count of p's configuration.
func New(p *pipeline.Pipeline, logger zerolog.Logger) *Runner {
	workers := p.Config().Workers
	if workers < 1 {
		workers = 1
	}
	return &Runner{pipeline: p, workers: workers, logger: logger}
}

// ListImages returns the decodable images directly inside dir, sorted by name.
// Subdirectories and previously written outputs are ignored.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !imaging.IsSupported(name) {
			continue
		}
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, OverlaySuffix) || strings.HasSuffix(lower, MaskSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// OutputPaths returns where the overlay and mask of input are written.
func OutputPaths(input, outputDir string) (overlay, mask string) {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outputDir, base+OverlaySuffix), filepath.Join(outputDir, base+MaskSuffix)
}

// File segments a single image and writes its overlay and mask into outputDir.
func (r *Runner) File(ctx context.Context, cache *imaging.ImageCache, input, outputDir string, req pipeline.Request) (*Item, error) {
	img, err := cache.Load(input)
	if err != nil {
		return nil, err
	}
	defer cache.Evict(input)

	res, err := r.pipeline.Run(ctx, img, req)
	if err != nil {
		return nil, err
	}

	overlayPath, maskPath := OutputPaths(input, outputDir)
	if res.Overlay != nil {
		if err := imaging.Save(res.Overlay, overlayPath); err != nil {
			return nil, err
		}
	} else {
		overlayPath = ""
	}
	if err := imaging.Save(res.MaskImage, maskPath); err != nil {
		return nil, err
	}

	return &Item{
		Input:             input,
		Overlay:           overlayPath,
		Mask:              maskPath,
		Width:             res.Prepared.SourceWidth,
		Height:            res.Prepared.SourceHeight,
		GridWidth:         res.Prepared.Grid.Width,
		GridHeight:        res.Prepared.Grid.Height,
		MaxFlow:           res.Segmentation.MaxFlow,
		Augmentations:     res.Segmentation.Augmentations,
		ForegroundPercent: res.Stats.Foreground.Percent,
		ElapsedMS:         res.Elapsed.Milliseconds(),
	}, nil
}

// Run segments every image in inputDir into outputDir, creating it if needed.
//
// Per-file failures are returned together as a *multierror.Error alongside a
// report of the files that succeeded. Cancelling ctx stops scheduling new
// files and returns the context error.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string, req pipeline.Request) (*Report, error) {
	start := time.Now()

	inputs, err := ListImages(inputDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	r.logger.Info().
		Str("input_dir", inputDir).
		Str("output_dir", outputDir).
		Int("images", len(inputs)).
		Int("workers", r.workers).
		Msg("batch started")

	cache := imaging.NewImageCache()
	items := make([]*Item, len(inputs))

	var (
		mu   sync.Mutex
		errs *multierror.Error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, input := range inputs {
		if gctx.Err() != nil {
			break
		}
		i, input := i, input
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item, err := r.File(gctx, cache, input, outputDir, req)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				r.logger.Warn().Err(err).Str("file", input).Msg("segmentation failed")
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", filepath.Base(input), err))
				mu.Unlock()
				return nil
			}
			r.logger.Debug().Str("file", input).Int64("max_flow", item.MaxFlow).Msg("segmented")
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Found:     len(inputs),
		Items:     make([]Item, 0, len(inputs)),
	}
	for _, item := range items {
		if item != nil {
			report.Items = append(report.Items, *item)
		}
	}
	if errs != nil {
		for _, e := range errs.Errors {
			report.Failures = append(report.Failures, e.Error())
		}
		sort.Strings(report.Failures)
	}
	report.ElapsedMS = time.Since(start).Milliseconds()

	logging.Elapsed(r.logger.Info(), start).
		Int("succeeded", len(report.Items)).
		Int("failed", len(report.Failures)).
		Msg("batch finished")

	return report, errs.ErrorOrNil()
}
