package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aryankumar/tempbench/internal/catalog"
	"github.com/aryankumar/tempbench/internal/config"
	"github.com/aryankumar/tempbench/internal/experiment"
	"github.com/aryankumar/tempbench/internal/tracing"
	"github.com/aryankumar/tempbench/internal/util"
	"github.com/spf13/cobra"
)

func newFetchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <location>",
		Short: "Fetch and summarize one location",
		Long: `Fetch the hourly temperature series of one capital for the configured
period and print its daily mean, min and max. No timing is recorded.`,
		Example: `  # Daily statistics for Recife in January 2024
  tempbench fetch Recife

  # A different period, as YAML
  tempbench fetch "São Paulo" --start 2024-02-01 --end 2024-02-29 -o yaml`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: completeLocation,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), cmd.OutOrStdout(), a.config, args[0])
		},
	}

	return cmd
}

func runFetch(ctx context.Context, w io.Writer, cfg *config.BenchConfig, name string) error {
	logger := slog.Default()

	loc, ok := catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, util.ErrLocationNotFound)
	}

	tracer := tracing.NoopTracer()
	client := newClient(cfg, logger, tracer)

	expCfg, err := experimentConfig(cfg, client.FetchLocation, logger, tracer)
	if err != nil {
		return err
	}
	expCfg.Locations = []catalog.Location{loc}

	runner, err := experiment.NewSequential(expCfg)
	if err != nil {
		return err
	}

	logger.Debug("fetching location", "location", loc.Name, "start", cfg.Start, "end", cfg.End)
	if err := runner.ProcessOne(ctx, loc); err != nil {
		return err
	}

	return runner.DisplayResults(w)
}
