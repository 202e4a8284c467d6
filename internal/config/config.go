// Package config loads runtime settings from defaults, an optional config
// file, IMAGE_SEGMENT_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"

	"github.com/ironsheep/image-segment-mcp/internal/imaging"
	"github.com/ironsheep/image-segment-mcp/internal/logging"
	"github.com/ironsheep/image-segment-mcp/internal/segment"
)

// EnvPrefix is prepended to every environment variable, e.g.
// IMAGE_SEGMENT_MAX_WEIGHT.
const EnvPrefix = "IMAGE_SEGMENT"

// Setting keys. Flags bound to viper use the same names with dashes.
const (
	KeyMaxWeight      = "max_weight"
	KeySimilarity     = "similarity"
	KeySeeds          = "seeds"
	KeyBlurRadius     = "blur_radius"
	KeyMaxDimension   = "max_dimension"
	KeyOverlayColor   = "overlay_color"
	KeyOverlayOpacity = "overlay_opacity"
	KeyWorkers        = "workers"
	KeyLogLevel       = "log_level"
)

// Seed layouts accepted by the seeds setting.
const (
	SeedsRows    = "rows"
	SeedsColumns = "columns"
)

// Config holds the resolved settings.
type Config struct {
	// MaxWeight is the capacity of flat-region and terminal edges.
	MaxWeight int64 `mapstructure:"max_weight"`

	// Similarity names the edge weighting: "linear" or "inverse-square".
	Similarity string `mapstructure:"similarity"`

	// Seeds selects the terminal wiring: "rows" (top to source, bottom to
	// sink) or "columns" (left to source, right to sink).
	Seeds string `mapstructure:"seeds"`

	// BlurRadius smooths the image before segmentation; 0 disables it.
	BlurRadius float64 `mapstructure:"blur_radius"`

	// MaxDimension bounds the longest side of the segmented grid. Larger
	// images are downscaled first; 0 disables the bound. Solve time grows
	// steeply with grid size: a noisy 256x256 grid takes tens of seconds.
	MaxDimension int `mapstructure:"max_dimension"`

	// OverlayColor tints the foreground in rendered overlays ("#RRGGBB").
	OverlayColor string `mapstructure:"overlay_color"`

	// OverlayOpacity is the tint strength in [0, 1].
	OverlayOpacity float64 `mapstructure:"overlay_opacity"`

	// Workers bounds the number of images segmented concurrently in batch runs.
	Workers int `mapstructure:"workers"`

	// LogLevel is a zerolog level name.
	LogLevel string `mapstructure:"log_level"`
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMaxWeight, segment.DefaultMaxWeight)
	v.SetDefault(KeySimilarity, "linear")
	v.SetDefault(KeySeeds, SeedsRows)
	v.SetDefault(KeyBlurRadius, 0.0)
	v.SetDefault(KeyMaxDimension, 128)
	v.SetDefault(KeyOverlayColor, "#FF0000")
	v.SetDefault(KeyOverlayOpacity, 0.5)
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyLogLevel, "info")
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile into v when it is not empty, then decodes and
// validates the merged settings.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the default settings without consulting the environment.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.MaxWeight <= 0 {
		return fmt.Errorf("invalid %s %d: must be positive", KeyMaxWeight, c.MaxWeight)
	}
	if _, err := segment.SimilarityByName(c.Similarity); err != nil {
		return fmt.Errorf("invalid %s: %w", KeySimilarity, err)
	}
	if c.Seeds != SeedsRows && c.Seeds != SeedsColumns {
		return fmt.Errorf("invalid %s %q: use %q or %q", KeySeeds, c.Seeds, SeedsRows, SeedsColumns)
	}
	if c.BlurRadius < 0 {
		return fmt.Errorf("invalid %s %g: must not be negative", KeyBlurRadius, c.BlurRadius)
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("invalid %s %d: must not be negative", KeyMaxDimension, c.MaxDimension)
	}
	if _, err := colorful.Hex(c.OverlayColor); err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyOverlayColor, c.OverlayColor, err)
	}
	if c.OverlayOpacity < 0 || c.OverlayOpacity > 1 {
		return fmt.Errorf("invalid %s %g: must be within [0, 1]", KeyOverlayOpacity, c.OverlayOpacity)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid %s %d: must be at least 1", KeyWorkers, c.Workers)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}
	return nil
}

// SegmentOptions converts the settings into solver options for a grid of the
// given size.
func (c *Config) SegmentOptions(width, height int) (segment.Options, error) {
	sim, err := segment.SimilarityByName(c.Similarity)
	if err != nil {
		return segment.Options{}, err
	}
	opts := segment.Options{
		MaxWeight:  c.MaxWeight,
		Similarity: sim,
	}
	if c.Seeds == SeedsColumns {
		opts.Seeds = segment.ColumnSeeds(width, height)
	}
	return opts, nil
}

// PrepareOptions returns the grid preparation settings.
func (c *Config) PrepareOptions() imaging.PrepareOptions {
	return imaging.PrepareOptions{
		BlurRadius:   c.BlurRadius,
		MaxDimension: c.MaxDimension,
	}
}

// OverlayOptions returns the overlay rendering settings.
func (c *Config) OverlayOptions() imaging.OverlayOptions {
	return imaging.OverlayOptions{
		Color:   c.OverlayColor,
		Opacity: c.OverlayOpacity,
		Outline: true,
	}
}
