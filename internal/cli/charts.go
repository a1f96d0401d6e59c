package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perseids/meteorfall/pkg/pipeline"
)

// chartsOpts holds the command-line flags for the charts command.
type chartsOpts struct {
	commonOpts
	input  string // local dataset JSON instead of the network
	outDir string // directory chart PNGs are written to
	charts string // comma-separated chart selection
}

// newChartsCmd creates the charts command, which renders the selected
// charts without printing the report.
func newChartsCmd() *cobra.Command {
	var opts chartsOpts

	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Render meteorite landing charts",
		Long: fmt.Sprintf(`Render meteorite landing charts as PNG files.

Available charts:
  %s
  %s
  %s`, pipeline.ChartCounts, pipeline.ChartDistribution, pipeline.ChartScatter),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCharts(cmd.Context(), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "render from a local dataset JSON file instead of fetching")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory for chart PNGs (default: config or .)")
	cmd.Flags().StringVar(&opts.charts, "chart", "", "comma-separated charts to render (default: all)")

	return cmd
}

func runCharts(ctx context.Context, opts *chartsOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	outDir := cfg.OutDir
	if opts.outDir != "" {
		outDir = opts.outDir
	}
	chartSel := cfg.Charts
	if opts.charts != "" {
		chartSel = splitCharts(opts.charts)
	}

	pipeOpts := pipeline.Options{
		URL:     cfg.URL,
		Charts:  chartSel,
		Refresh: opts.refresh,
		Logger:  logger,
	}
	if opts.input != "" {
		if pipeOpts.Records, err = readDataset(opts.input); err != nil {
			return err
		}
	}

	runner := newRunner(ctx, cfg, opts.noCache)
	result, err := runner.Execute(ctx, pipeOpts)
	if err != nil {
		return err
	}

	if err := writeArtifacts(outDir, result); err != nil {
		return err
	}
	for _, name := range result.Skipped {
		printWarning("skipped %s: no rows to draw", name)
	}
	return nil
}
