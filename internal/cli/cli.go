// Package cli implements the meteorfall command-line interface.
//
// This package provides commands for fetching the NASA meteorite
// landings dataset, computing summary statistics, and rendering PNG
// charts. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - run: Fetch, clean, analyze, and render all charts in one pass
//   - fetch: Download the raw dataset JSON
//   - analyze: Print the summary report without rendering charts
//   - charts: Render charts, optionally from a local dataset file
//   - cache: Manage the HTTP response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/perseids/meteorfall/pkg/config"
	apperrors "github.com/perseids/meteorfall/pkg/errors"
	"github.com/perseids/meteorfall/pkg/httputil"
	"github.com/perseids/meteorfall/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "meteorfall"

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// Typically called by the main package with values injected via
// ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the meteorfall CLI and returns an error if any command
// fails. This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:           appName,
		Short:         "Meteorfall analyzes NASA's meteorite landings dataset",
		Long:          `Meteorfall is a CLI tool that fetches NASA's meteorite landings dataset, cleans it, computes summary statistics, and renders descriptive charts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(versionTemplate())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newFetchCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newChartsCmd())
	root.AddCommand(newCacheCmd())

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		printError("%s", formatError(err))
	}
	return err
}

func versionTemplate() string {
	return appName + " " + version + "\ncommit: " + commit + "\nbuilt: " + date + "\n"
}

// formatError renders an error for the terminal. Coded errors show
// their user-facing message with the code as a suffix; anything else
// prints as-is.
func formatError(err error) string {
	if code := apperrors.GetCode(err); code != "" {
		return fmt.Sprintf("%s (%s)", apperrors.UserMessage(err), code)
	}
	return err.Error()
}

// commonOpts holds the flags shared by the data-touching commands.
type commonOpts struct {
	url        string // dataset endpoint override
	configPath string // explicit config file path
	refresh    bool   // bypass the response cache
	noCache    bool   // disable the response cache entirely
}

func (o *commonOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.url, "url", "", "dataset endpoint URL (default: NASA meteorite landings)")
	cmd.Flags().StringVar(&o.configPath, "config", "", "config file (default: ~/.config/meteorfall/config.toml)")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "bypass the response cache for this run")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the response cache entirely")
}

// loadConfig resolves the config file for a command. An explicit
// --config path must exist; the conventional path may not.
func (o *commonOpts) loadConfig() (config.Config, error) {
	path := o.configPath
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return config.Default(), nil
		}
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return cfg, err
	}
	if o.url != "" {
		cfg.URL = o.url
	}
	return cfg, nil
}

// newRunner builds a pipeline runner backed by the on-disk response
// cache. Cache setup failures degrade to an uncached runner rather
// than failing the command.
func newRunner(ctx context.Context, cfg config.Config, noCache bool) *pipeline.Runner {
	logger := loggerFromContext(ctx)
	if noCache {
		return pipeline.NewRunner(nil, logger)
	}
	dir, err := cacheDir()
	if err == nil {
		var cache *httputil.Cache
		if cache, err = httputil.NewCache(dir, cfg.CacheTTLOrDefault()); err == nil {
			return pipeline.NewRunner(cache, logger)
		}
	}
	logger.Debug("response cache unavailable", "err", err)
	return pipeline.NewRunner(nil, logger)
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/meteorfall/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
