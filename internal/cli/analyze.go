package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/perseids/meteorfall/pkg/errors"
	"github.com/perseids/meteorfall/pkg/meteorite"
	"github.com/perseids/meteorfall/pkg/pipeline"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	commonOpts
	input  string // local dataset JSON instead of the network
	asJSON bool   // machine-readable report output
}

// newAnalyzeCmd creates the analyze command, which prints the summary
// report without rendering any charts.
func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute summary statistics for the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "analyze a local dataset JSON file instead of fetching")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the report as JSON")

	return cmd
}

func runAnalyze(ctx context.Context, opts *analyzeOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	pipeOpts := pipeline.Options{
		URL:     cfg.URL,
		Refresh: opts.refresh,
		Logger:  logger,
	}
	if opts.input != "" {
		if pipeOpts.Records, err = readDataset(opts.input); err != nil {
			return err
		}
	}

	runner := newRunner(ctx, cfg, opts.noCache)
	report, stats, err := runner.Analyze(ctx, pipeOpts)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(report)
	printStats(stats.RawCount, stats.CleanCount, false)
	printNewline()
	return nil
}

// readDataset loads raw records from a local JSON file, typically one
// written by the fetch command.
func readDataset(path string) ([]meteorite.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var records []meteorite.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse dataset %s", path)
	}
	return records, nil
}
