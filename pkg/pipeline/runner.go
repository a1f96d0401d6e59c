package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/perseids/meteorfall/pkg/analysis"
	"github.com/perseids/meteorfall/pkg/charts"
	apperrors "github.com/perseids/meteorfall/pkg/errors"
	"github.com/perseids/meteorfall/pkg/httputil"
	"github.com/perseids/meteorfall/pkg/meteorite"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  *httputil.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given response cache.
// If cache is nil, fetches always hit the network.
func NewRunner(cache *httputil.Cache, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: cache, Logger: logger}
}

// Execute runs the complete fetch → clean → analyze → render pipeline.
//
// A chart whose data comes up empty (for example every mass above the
// histogram cutoff) is recorded in Result.Skipped rather than failing
// the run; an entirely empty table after cleaning still fails analysis
// with an EMPTY_TABLE error.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.New(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run_id", result.RunID.String())

	// Stage 1: Fetch
	fetchStart := time.Now()
	records, fetchHit, err := r.Fetch(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.FetchTime = time.Since(fetchStart)
	result.CacheInfo.FetchHit = fetchHit

	logger.Info("fetched dataset",
		"records", len(records),
		"cached", fetchHit,
		"duration", result.Stats.FetchTime)

	// Stage 2: Clean
	cleanStart := time.Now()
	table, cleanStats, err := meteorite.Clean(records)
	if err != nil {
		return nil, err
	}
	result.Table = table
	result.Stats.Clean = cleanStats
	result.Stats.CleanTime = time.Since(cleanStart)

	logger.Info("cleaned dataset",
		"kept", cleanStats.CleanCount,
		"dropped_mass", cleanStats.DroppedMass,
		"dropped_year", cleanStats.DroppedYear,
		"duration", result.Stats.CleanTime)

	// Stage 3: Analyze
	analyzeStart := time.Now()
	report, err := analysis.Analyze(table)
	if err != nil {
		return nil, err
	}
	result.Report = report
	result.Stats.AnalyzeTime = time.Since(analyzeStart)

	logger.Info("analyzed dataset",
		"entries", report.TotalEntries,
		"duration", result.Stats.AnalyzeTime)

	// Stage 4: Render
	renderStart := time.Now()
	for _, name := range opts.Charts {
		img, err := renderChart(name, table)
		if apperrors.Is(err, apperrors.ErrCodeEmptyTable) {
			logger.Warn("skipping chart with no data", "chart", name)
			result.Skipped = append(result.Skipped, name)
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Artifacts[name] = img
	}
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered charts",
		"charts", len(result.Artifacts),
		"skipped", len(result.Skipped),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Fetch retrieves the raw dataset for the run. When opts.Records is set
// the network is never touched; otherwise the client serves from the
// runner's cache unless opts.Refresh is set.
func (r *Runner) Fetch(ctx context.Context, opts Options) ([]meteorite.Record, bool, error) {
	if opts.Records != nil {
		return opts.Records, false, nil
	}
	client := meteorite.NewClient(opts.URL, r.Cache)
	if opts.Refresh {
		return client.FetchFresh(ctx)
	}
	return client.Fetch(ctx)
}

// Analyze runs fetch + clean + analyze without rendering any charts.
func (r *Runner) Analyze(ctx context.Context, opts Options) (analysis.Report, meteorite.CleanStats, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return analysis.Report{}, meteorite.CleanStats{}, err
	}

	records, _, err := r.Fetch(ctx, opts)
	if err != nil {
		return analysis.Report{}, meteorite.CleanStats{}, err
	}
	table, stats, err := meteorite.Clean(records)
	if err != nil {
		return analysis.Report{}, stats, err
	}
	report, err := analysis.Analyze(table)
	return report, stats, err
}

func renderChart(name string, table meteorite.Table) ([]byte, error) {
	switch name {
	case ChartCounts:
		return charts.CountsPerYear(table)
	case ChartDistribution:
		return charts.MassDistribution(table)
	case ChartScatter:
		return charts.MassVsYear(table)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidChart, "invalid chart: %q", name)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
