package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/perseids/meteorfall/pkg/analysis"
	"github.com/perseids/meteorfall/pkg/pipeline"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	commonOpts
	outDir  string // directory chart PNGs are written to
	charts  string // comma-separated chart selection
	timeout time.Duration
}

// newRunCmd creates the run command, the full fetch → clean → analyze
// → render pipeline in one pass.
func newRunCmd() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, analyze, and chart the meteorite landings dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory for chart PNGs (default: config or .)")
	cmd.Flags().StringVar(&opts.charts, "charts", "", "comma-separated charts to render (default: all)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "overall run timeout (default: config or 60s)")

	return cmd
}

func runRun(ctx context.Context, opts *runOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	outDir := cfg.OutDir
	if opts.outDir != "" {
		outDir = opts.outDir
	}
	timeout := cfg.TimeoutOrDefault()
	if opts.timeout > 0 {
		timeout = opts.timeout
	}
	chartSel := cfg.Charts
	if opts.charts != "" {
		chartSel = splitCharts(opts.charts)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runner := newRunner(ctx, cfg, opts.noCache)
	prog := newProgress(logger)

	spin := newSpinner(ctx, "Analyzing meteorite landings...")
	spin.Start()
	result, err := runner.Execute(ctx, pipeline.Options{
		URL:     cfg.URL,
		Charts:  chartSel,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	spin.Stop()
	if err != nil {
		// An interrupt or timeout mid-pipeline surfaces as whatever
		// stage it hit; report the cancellation itself instead.
		if spin.Cancelled() {
			return ctx.Err()
		}
		return err
	}
	prog.done(fmt.Sprintf("Analyzed %d landings", result.Report.TotalEntries))

	printReport(result.Report)
	printStats(result.Stats.Clean.RawCount, result.Stats.Clean.CleanCount, result.CacheInfo.FetchHit)
	printNewline()

	if err := writeArtifacts(outDir, result); err != nil {
		return err
	}
	for _, name := range result.Skipped {
		printWarning("skipped %s: no rows to draw", name)
	}
	return nil
}

// printReport renders the summary statistics as a styled key-value
// block.
func printReport(report analysis.Report) {
	printNewline()
	fmt.Println(StyleTitle.Render("Meteorite Landings Report"))
	printKeyValue("Total entries", StyleNumber.Render(fmt.Sprintf("%d", report.TotalEntries)))
	printKeyValue("Most massive", fmt.Sprintf("%s (%sg)", report.MostMassiveName, StyleNumber.Render(formatGrams(report.MostMassiveMass))))
	printKeyValue("Busiest year", fmt.Sprintf("%s (%s landings)", StyleNumber.Render(fmt.Sprintf("%d", report.MostFrequentYear)), StyleNumber.Render(fmt.Sprintf("%d", report.MostFrequentCount))))
	printKeyValue("Mean mass", formatGrams(report.MassMean)+"g")
	printKeyValue("Median mass", formatGrams(report.MassMedian)+"g")
}

// writeArtifacts writes each rendered chart PNG into outDir.
func writeArtifacts(outDir string, result *pipeline.Result) error {
	if len(result.Artifacts) == 0 {
		return nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	printInfo("Charts")
	// Walk AllCharts to keep a stable output order.
	for _, name := range pipeline.AllCharts {
		img, ok := result.Artifacts[name]
		if !ok {
			continue
		}
		path := filepath.Join(outDir, name+".png")
		if err := os.WriteFile(path, img, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// formatGrams renders a mass with two decimals, trimming a trailing
// ".00" for round values.
func formatGrams(g float64) string {
	s := fmt.Sprintf("%.2f", g)
	return strings.TrimSuffix(s, ".00")
}

// splitCharts parses a comma-separated chart selection.
func splitCharts(s string) []string {
	var charts []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			charts = append(charts, part)
		}
	}
	return charts
}
