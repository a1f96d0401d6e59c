// Package config loads the optional meteorfall config file. Flags
// always win over file values; the file only moves defaults.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/perseids/meteorfall/pkg/errors"
	"github.com/perseids/meteorfall/pkg/pipeline"
)

// Config holds the file-configurable settings.
type Config struct {
	// URL overrides the dataset endpoint.
	URL string `toml:"url"`

	// OutDir is where chart PNGs are written. Defaults to the working
	// directory.
	OutDir string `toml:"out_dir"`

	// Timeout bounds a full pipeline run, as a Go duration string.
	Timeout duration `toml:"timeout"`

	// CacheTTL is how long fetched responses stay fresh.
	CacheTTL duration `toml:"cache_ttl"`

	// Charts selects the default chart set for run/charts commands.
	Charts []string `toml:"charts"`
}

// duration wraps time.Duration so TOML files can say "90s" or "1h".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// TimeoutOrDefault returns the configured run timeout.
func (c Config) TimeoutOrDefault() time.Duration {
	if c.Timeout == 0 {
		return pipeline.DefaultTimeout
	}
	return time.Duration(c.Timeout)
}

// CacheTTLOrDefault returns the configured cache TTL.
func (c Config) CacheTTLOrDefault() time.Duration {
	if c.CacheTTL == 0 {
		return pipeline.DefaultCacheTTL
	}
	return time.Duration(c.CacheTTL)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutDir: ".",
		Charts: pipeline.AllCharts,
	}
}

// DefaultPath returns the conventional config file location,
// ~/.config/meteorfall/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "resolve home directory")
	}
	return filepath.Join(home, ".config", "meteorfall", "config.toml"), nil
}

// Load reads the config file at path, falling back to [Default] values
// for anything the file leaves unset. A missing file is not an error
// when explicit is false (the conventional location simply may not
// exist); with explicit true the caller asked for that exact file and
// gets INVALID_CONFIG if it cannot be read.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if len(cfg.Charts) == 0 {
		cfg.Charts = pipeline.AllCharts
	}
	if err := pipeline.ValidateCharts(cfg.Charts); err != nil {
		return Default(), apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}
