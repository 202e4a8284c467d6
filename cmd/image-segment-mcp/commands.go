package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ironsheep/image-segment-mcp/internal/batch"
	"github.com/ironsheep/image-segment-mcp/internal/config"
	"github.com/ironsheep/image-segment-mcp/internal/imaging"
	"github.com/ironsheep/image-segment-mcp/internal/logging"
	"github.com/ironsheep/image-segment-mcp/internal/pipeline"
	"github.com/ironsheep/image-segment-mcp/internal/server"
)

// app carries the state shared by all subcommands once flags are parsed.
type app struct {
	v          *viper.Viper
	configFile string
	logJSON    bool

	cfg      *config.Config
	logger   zerolog.Logger
	pipeline *pipeline.Pipeline
}

// settingFlags maps flag names to the config keys they override.
var settingFlags = map[string]string{
	"max-weight":      config.KeyMaxWeight,
	"similarity":      config.KeySimilarity,
	"seeds":           config.KeySeeds,
	"blur-radius":     config.KeyBlurRadius,
	"max-dimension":   config.KeyMaxDimension,
	"overlay-color":   config.KeyOverlayColor,
	"overlay-opacity": config.KeyOverlayOpacity,
	"workers":         config.KeyWorkers,
	"log-level":       config.KeyLogLevel,
}

func newRootCommand() *cobra.Command {
	a := &app{v: config.New()}
	defaults := config.Default()

	root := &cobra.Command{
		Use:   "image-segment-mcp",
		Short: "MCP server and CLI for min-cut image segmentation",
		Long: `image-segment-mcp splits images into foreground and background by computing
a minimum cut of a pixel flow network between seed rows (or columns).

Without a subcommand it serves the MCP protocol over stdin/stdout.
Settings come from flags, IMAGE_SEGMENT_* environment variables and an
optional config file, in that order of precedence.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.serve,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (yaml, json or toml)")
	pf.BoolVar(&a.logJSON, "log-json", false, "Log JSON lines instead of console output")
	pf.String("log-level", defaults.LogLevel, "Log level (trace, debug, info, warn, error)")
	pf.Int64("max-weight", defaults.MaxWeight, "Capacity of flat-region and seed edges")
	pf.String("similarity", defaults.Similarity, "Edge weighting: linear or inverse-square")
	pf.String("seeds", defaults.Seeds, "Seed layout: rows or columns")
	pf.Float64("blur-radius", defaults.BlurRadius, "Gaussian blur radius applied before segmenting (0 disables)")
	pf.Int("max-dimension", defaults.MaxDimension, "Downscale images whose longest side exceeds this (0 disables); solve time grows steeply, 256 can take tens of seconds")
	pf.String("overlay-color", defaults.OverlayColor, "Foreground tint as #RRGGBB")
	pf.Float64("overlay-opacity", defaults.OverlayOpacity, "Foreground tint strength in [0, 1]")
	pf.Int("workers", defaults.Workers, "Images segmented concurrently in batch runs")

	if err := bindSettingFlags(a.v, pf); err != nil {
		panic(err)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the MCP protocol over stdin/stdout",
			Args:  cobra.NoArgs,
			RunE:  a.serve,
		},
		a.segmentCommand(),
		a.batchCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			// No configuration needed
			PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
			Run: func(cmd *cobra.Command, _ []string) {
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "image-segment-mcp %s\n", Version)
				fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
				fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
			},
		},
	)
	return root
}

func bindSettingFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range settingFlags {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// setup resolves the configuration and builds the logger and pipeline.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	// stdout carries the protocol when serving
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, !a.logJSON)
	if err != nil {
		return err
	}
	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.pipeline = p

	logger.Debug().
		Str("version", Version).
		Str("commit", GitCommit).
		Str("config", a.configFile).
		Interface("settings", cfg).
		Msg("configuration loaded")
	return nil
}

func (a *app) serve(cmd *cobra.Command, _ []string) error {
	return server.New(a.pipeline, a.logger, Version).Run(cmd.Context())
}

func (a *app) segmentCommand() *cobra.Command {
	var (
		outputDir string
		region    []int
	)

	cmd := &cobra.Command{
		Use:   "segment <image>",
		Short: "Segment one image and write its overlay and mask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			req := pipeline.Request{}
			if cmd.Flags().Changed("region") {
				if len(region) != 4 {
					return fmt.Errorf("--region needs four values x1,y1,x2,y2, got %d", len(region))
				}
				req.Region = &imaging.Region{X1: region[0], Y1: region[1], X2: region[2], Y2: region[3]}
			}
			if outputDir == "" {
				outputDir = filepath.Dir(input)
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			item, err := batch.New(a.pipeline, a.logger).File(cmd.Context(), imaging.NewImageCache(), input, outputDir, req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), item)
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for <name>_overlay.png and <name>_mask.png (default: the image's directory)")
	cmd.Flags().IntSliceVar(&region, "region", nil, "Segment only x1,y1,x2,y2 of the image")
	return cmd
}

func (a *app) batchCommand() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Segment every image in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputDir := args[0]
			if outputDir == "" {
				outputDir = inputDir
			}

			report, err := batch.New(a.pipeline, a.logger).Run(cmd.Context(), inputDir, outputDir, pipeline.Request{})
			if report != nil {
				if werr := writeJSON(cmd.OutOrStdout(), report); werr != nil {
					return werr
				}
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for results (default: the input directory)")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
