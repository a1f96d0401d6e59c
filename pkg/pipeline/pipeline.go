// Package pipeline provides the core analysis pipeline for Meteorfall.
//
// This package implements the complete fetch → clean → analyze → render
// pipeline shared by every CLI entry point. Centralizing it keeps the
// subcommands thin and their behavior consistent.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Fetch: Download the raw dataset JSON (served from cache when fresh)
//  2. Clean: Coerce types and drop rows with missing mass or year
//  3. Analyze: Compute the summary report
//  4. Render: Generate the requested PNG charts
//
// Each stage can be run independently or as part of the complete
// pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Charts: []string{pipeline.ChartCounts},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts[pipeline.ChartCounts]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/perseids/meteorfall/pkg/analysis"
	apperrors "github.com/perseids/meteorfall/pkg/errors"
	"github.com/perseids/meteorfall/pkg/meteorite"
)

// Default values shared by every entry point.
const (
	// DefaultTimeout bounds a single pipeline run end to end.
	DefaultTimeout = 60 * time.Second

	// DefaultCacheTTL is how long a fetched dataset stays fresh on disk.
	DefaultCacheTTL = 24 * time.Hour
)

// Chart name constants. These double as artifact keys in [Result] and
// as the base names of the files the CLI writes.
const (
	ChartCounts       = "meteorite_counts_per_year"
	ChartDistribution = "meteorite_mass_distribution"
	ChartScatter      = "scatter_mass_vs_year"
)

// ValidCharts is the set of supported chart names.
var ValidCharts = map[string]bool{
	ChartCounts:       true,
	ChartDistribution: true,
	ChartScatter:      true,
}

// AllCharts lists every chart in render order.
var AllCharts = []string{ChartCounts, ChartDistribution, ChartScatter}

// ValidateChart checks that a chart name is valid.
func ValidateChart(name string) error {
	if !ValidCharts[name] {
		return apperrors.New(apperrors.ErrCodeInvalidChart,
			"invalid chart: %q (must be one of: %s, %s, %s)",
			name, ChartCounts, ChartDistribution, ChartScatter)
	}
	return nil
}

// ValidateCharts checks that all chart names are valid.
func ValidateCharts(names []string) error {
	for _, name := range names {
		if err := ValidateChart(name); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for the analysis pipeline.
type Options struct {
	// URL overrides the dataset endpoint. Empty means the NASA default.
	URL string `json:"url,omitempty"`

	// Charts selects which charts to render. Empty means all of them.
	Charts []string `json:"charts,omitempty"`

	// Refresh bypasses the response cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	// Records, when non-nil, skips the fetch stage entirely and cleans
	// the given raw records instead. Used by subcommands that read the
	// dataset from a local file.
	Records []meteorite.Record `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateCharts(o.Charts); err != nil {
		return err
	}
	if len(o.Charts) == 0 {
		o.Charts = AllCharts
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this run in logs and output.
	RunID uuid.UUID

	// Table is the cleaned dataset.
	Table meteorite.Table

	// Report holds the computed statistics.
	Report analysis.Report

	// Artifacts contains rendered PNGs keyed by chart name. A chart
	// skipped because its data was empty has no entry.
	Artifacts map[string][]byte

	// Skipped lists charts that were requested but had no rows to draw.
	Skipped []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the fetch stage hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Clean meteorite.CleanStats

	FetchTime   time.Duration
	CleanTime   time.Duration
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits per stage. Only the fetch stage caches;
// the downstream stages are cheap enough to always recompute.
type CacheInfo struct {
	FetchHit bool
}
