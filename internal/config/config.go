// Package config loads launcher settings and the application catalog from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kyleking/lazylaunch/internal/errs"
	"github.com/kyleking/lazylaunch/internal/frecency"
	"github.com/kyleking/lazylaunch/internal/kv"
	"github.com/kyleking/lazylaunch/internal/relevance"
)

// AppName names the config directory.
const AppName = "lazylaunch"

// Config is the top-level settings file.
type Config struct {
	Tuning   Tuning    `yaml:"tuning"`
	Storage  kv.Config `yaml:"storage"`
	Catalog  string    `yaml:"catalog"`
	LogLevel string    `yaml:"log_level"`
}

// Tuning holds the ranking parameters.
type Tuning struct {
	Lambda         float64   `yaml:"lambda"`
	TimeScaleHours float64   `yaml:"time_scale_hours"`
	FuzzyThreshold float64   `yaml:"fuzzy_threshold"`
	Retention      Retention `yaml:"retention"`
}

// Retention is a duration accepting "30d", Go durations such as "72h", or a
// bare integer number of days.
type Retention time.Duration

// Duration returns r as a time.Duration.
func (r Retention) Duration() time.Duration {
	return time.Duration(r)
}

func (r *Retention) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: retention must be a scalar", node.Line)
	}
	d, err := ParseRetention(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*r = Retention(d)
	return nil
}

func (r Retention) MarshalYAML() (any, error) {
	d := time.Duration(r)
	if d%(24*time.Hour) == 0 {
		return fmt.Sprintf("%dd", d/(24*time.Hour)), nil
	}
	return d.String(), nil
}

// ParseRetention parses the forms accepted by Retention.
func ParseRetention(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("retention is empty")
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid retention %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid retention %q", s)
	}
	return d, nil
}

// Dir returns the directory holding the config file and default data.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, AppName)
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in settings.
func Default() *Config {
	p := frecency.DefaultParams()
	return &Config{
		Tuning: Tuning{
			Lambda:         p.Lambda,
			TimeScaleHours: p.TimeScaleHours,
			FuzzyThreshold: relevance.DefaultThreshold,
			Retention:      Retention(frecency.DefaultRetention),
		},
		Storage: kv.Config{
			Backend: kv.BackendFile,
			Path:    filepath.Join(Dir(), "data"),
		},
		Catalog:  filepath.Join(Dir(), "catalog.yaml"),
		LogLevel: "info",
	}
}

// Load reads the settings at path, or DefaultPath when path is empty. A
// missing file yields Default. Values in the file override defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	data, err := os.ReadFile(ExpandHome(path))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("loading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	cfg.Storage.Path = ExpandHome(cfg.Storage.Path)
	cfg.Catalog = ExpandHome(cfg.Catalog)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects tuning values the ranker cannot use and incomplete storage settings.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if _, err := relevance.New(c.Tuning.FuzzyThreshold); err != nil {
		return err
	}
	if c.Tuning.Retention <= 0 {
		return &errs.ScoringError{Param: "retention", Value: c.Tuning.Retention.Duration().Hours(), Reason: "must be positive"}
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Params returns the frecency parameters.
func (c *Config) Params() frecency.Params {
	return frecency.Params{Lambda: c.Tuning.Lambda, TimeScaleHours: c.Tuning.TimeScaleHours}
}

// Scorer returns the relevance scorer for the configured threshold.
func (c *Config) Scorer() relevance.Scorer {
	return relevance.Scorer{Threshold: c.Tuning.FuzzyThreshold}
}

// Level parses LogLevel. An empty level is info.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(c.LogLevel) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
