package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/perseids/meteorfall/pkg/pipeline"
)

// fetchOpts holds the command-line flags for the fetch command.
type fetchOpts struct {
	commonOpts
	output string // output file, "-" or empty for stdout
}

// newFetchCmd creates the fetch command, which downloads the raw
// dataset JSON without cleaning or analyzing it.
func newFetchCmd() *cobra.Command {
	var opts fetchOpts

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the raw meteorite landings dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func runFetch(ctx context.Context, opts *fetchOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	runner := newRunner(ctx, cfg, opts.noCache)

	prog := newProgress(logger)
	spin := newSpinner(ctx, "Downloading dataset...")
	spin.Start()
	records, cached, err := runner.Fetch(ctx, pipeline.Options{
		URL:     cfg.URL,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	spin.Stop()
	if err != nil {
		if spin.Cancelled() {
			return ctx.Err()
		}
		return err
	}
	prog.done(fmt.Sprintf("Fetched %d records", len(records)))

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	data = append(data, '\n')

	if opts.output == "" || opts.output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	source := "network"
	if cached {
		source = "cache"
	}
	printSuccess("Saved %d records (%s)", len(records), source)
	printFile(opts.output)
	return nil
}
