package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the rendering defaults shared by the CLI and the web server.
// Command line flags override values read from the environment.
type Config struct {
	Port              int           `envconfig:"PORT" default:"8080"`
	Scene             string        `envconfig:"RT_SCENE" default:"default"`
	Width             int           `envconfig:"RT_WIDTH" default:"0"`   // 0 uses the scene's width
	Height            int           `envconfig:"RT_HEIGHT" default:"0"`  // 0 uses the scene's height
	Samples           int           `envconfig:"RT_SAMPLES" default:"0"` // 0 uses the scene's samples
	Workers           int           `envconfig:"RT_WORKERS" default:"-1"`
	Adaptive          bool          `envconfig:"RT_ADAPTIVE" default:"false"`
	AdaptiveTolerance float64       `envconfig:"RT_ADAPTIVE_TOLERANCE" default:"0.01"`
	MaxDepth          int           `envconfig:"RT_MAX_DEPTH" default:"0"` // 0 uses the scene's depth
	MinWeight         float64       `envconfig:"RT_MIN_WEIGHT" default:"0.001"`
	ProgressInterval  time.Duration `envconfig:"RT_PROGRESS_INTERVAL" default:"1s"`
	OutputDir         string        `envconfig:"RT_OUTPUT_DIR" default:"output"`
	Seed              uint64        `envconfig:"RT_SEED" default:"0"`
	Gamma             float64       `envconfig:"RT_GAMMA" default:"2.2"`
	LogLevel          string        `envconfig:"RT_LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// Validate checks ranges that envconfig cannot express
func (c *Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	case c.Scene == "":
		return fmt.Errorf("%w: scene is required", ErrInvalidConfig)
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.Samples < 0:
		return fmt.Errorf("%w: samples %d", ErrInvalidConfig, c.Samples)
	case c.Workers < -2:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	case c.AdaptiveTolerance < 0:
		return fmt.Errorf("%w: adaptive tolerance %g", ErrInvalidConfig, c.AdaptiveTolerance)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidConfig, c.MaxDepth)
	case c.MinWeight <= 0 || c.MinWeight >= 1:
		return fmt.Errorf("%w: min weight %g", ErrInvalidConfig, c.MinWeight)
	case c.ProgressInterval < 0:
		return fmt.Errorf("%w: progress interval %v", ErrInvalidConfig, c.ProgressInterval)
	case c.Gamma <= 0:
		return fmt.Errorf("%w: gamma %g", ErrInvalidConfig, c.Gamma)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured slog level, falling back to info
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel maps debug, info, warn and error (any case) to slog levels
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, name)
	}
	return level, nil
}
