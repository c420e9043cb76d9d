package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aryankumar/tempbench/internal/catalog"
	"github.com/aryankumar/tempbench/internal/config"
	"github.com/aryankumar/tempbench/internal/experiment"
	"github.com/aryankumar/tempbench/internal/harness"
	"github.com/aryankumar/tempbench/internal/openmeteo"
	"github.com/aryankumar/tempbench/internal/output"
	"github.com/aryankumar/tempbench/internal/tracing"
	"github.com/aryankumar/tempbench/internal/util"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
)

const tracingShutdownTimeout = 5 * time.Second

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark scenarios",
		Long: `Run every configured scenario for the configured number of trials.

Each trial clears the result store, processes all selected locations and
records the wall time. A failing location is logged and skipped. A failing
trial is logged and excluded from the mean. After each scenario the results
of its last trial are printed, and a comparison table closes the run.`,
		Example: `  # Run sequential and 3/9/27 worker pools, ten trials each
  tempbench run

  # Quick run over two capitals
  tempbench run -r 2 -l Recife,Natal -s sequential,2

  # Export spans to a local collector
  tempbench run --otlp-endpoint localhost:4317

  # Comparison as JSON
  tempbench run -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd.Context(), cmd.OutOrStdout(), a.config)
		},
	}

	d := config.Default()
	flags := cmd.Flags()
	flags.IntP("repetitions", "r", d.Repetitions, "trials per scenario")
	flags.StringSliceP("scenarios", "s", d.Scenarios, "scenarios to run in order: sequential or a pool size")
	flags.Duration("drain-timeout", d.DrainTimeout, "ceiling on a pooled trial waiting for its workers")
	flags.String("otlp-endpoint", "", "OTLP collector endpoint (tracing disabled when empty)")
	flags.String("otlp-protocol", "", "OTLP protocol: grpc or http (default grpc)")

	v := a.manager.Viper()
	v.BindPFlag("repetitions", flags.Lookup("repetitions"))
	v.BindPFlag("scenarios", flags.Lookup("scenarios"))
	v.BindPFlag("drainTimeout", flags.Lookup("drain-timeout"))
	v.BindPFlag("tracing.endpoint", flags.Lookup("otlp-endpoint"))
	v.BindPFlag("tracing.protocol", flags.Lookup("otlp-protocol"))

	return cmd
}

// addSourceFlags registers the period, catalog and data source flags shared
// by run, fetch and locations
func addSourceFlags(cmd *cobra.Command, a *app) {
	d := config.Default()
	flags := cmd.PersistentFlags()
	flags.String("start", d.Start, "first day of the period (YYYY-MM-DD)")
	flags.String("end", d.End, "last day of the period (YYYY-MM-DD)")
	flags.StringSliceP("locations", "l", nil, "capitals to process (comma-separated, empty means all)")
	flags.String("base-url", d.Source.BaseURL, "forecast API endpoint")
	flags.Duration("http-timeout", d.Source.Timeout, "timeout for a single request")
	flags.Float64("rate", 0, "maximum requests per second across workers (0 is unlimited)")
	flags.Int("breaker-failures", 0, "consecutive failures that open the circuit breaker (0 disables it)")

	v := a.manager.Viper()
	v.BindPFlag("start", flags.Lookup("start"))
	v.BindPFlag("end", flags.Lookup("end"))
	v.BindPFlag("locations", flags.Lookup("locations"))
	v.BindPFlag("source.baseURL", flags.Lookup("base-url"))
	v.BindPFlag("source.timeout", flags.Lookup("http-timeout"))
	v.BindPFlag("source.rate", flags.Lookup("rate"))
	v.BindPFlag("source.breakerFailures", flags.Lookup("breaker-failures"))

	_ = cmd.RegisterFlagCompletionFunc("locations", completeLocationList)
}

// newClient builds the Open-Meteo client described by cfg
func newClient(cfg *config.BenchConfig, logger *slog.Logger, tracer trace.Tracer) *openmeteo.Client {
	return openmeteo.NewClient(
		openmeteo.WithBaseURL(cfg.Source.BaseURL),
		openmeteo.WithTimeout(cfg.Source.Timeout),
		openmeteo.WithRateLimit(cfg.Source.Rate),
		openmeteo.WithBreaker(cfg.Source.BreakerFailures),
		openmeteo.WithTracer(tracer),
		openmeteo.WithLogger(logger),
	)
}

// newFormatter builds the formatter selected by cfg
func newFormatter(cfg *config.BenchConfig) output.Formatter {
	return output.NewFormatter(output.Format(cfg.Output.Format),
		output.WithNoColor(cfg.Output.NoColor),
		output.WithNoHeaders(cfg.Output.NoHeaders))
}

// experimentConfig assembles the runner configuration shared by all scenarios
func experimentConfig(cfg *config.BenchConfig, fetch experiment.FetchFunc, logger *slog.Logger, tracer trace.Tracer) (experiment.Config, error) {
	locs, err := catalog.Filter(cfg.Locations)
	if err != nil {
		return experiment.Config{}, err
	}

	start, end, err := cfg.Period()
	if err != nil {
		return experiment.Config{}, err
	}

	return experiment.Config{
		Locations:    locs,
		Start:        start,
		End:          end,
		Fetch:        fetch,
		Formatter:    newFormatter(cfg),
		DrainTimeout: cfg.DrainTimeout,
		Logger:       logger,
		Tracer:       tracer,
	}, nil
}

func runBenchmark(ctx context.Context, w io.Writer, cfg *config.BenchConfig) error {
	logger := slog.Default()

	scenarios, err := harness.ParseScenarios(cfg.Scenarios)
	if err != nil {
		return err
	}

	provider, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	client := newClient(cfg, logger, provider.Tracer())
	expCfg, err := experimentConfig(cfg, client.FetchLocation, logger, provider.Tracer())
	if err != nil {
		return err
	}

	logger.Info("starting benchmark",
		"locations", len(expCfg.Locations),
		"scenarios", len(scenarios),
		"repetitions", cfg.Repetitions,
		"start", cfg.Start,
		"end", cfg.End,
		"tracing", provider.Enabled())

	h := harness.New(
		harness.WithLogger(logger),
		harness.WithTracer(provider.Tracer()),
		harness.WithOutput(w),
	)

	sets := make([]harness.TrialSet, 0, len(scenarios))
	var runErr error
	for _, scenario := range scenarios {
		runner, err := experiment.NewRunner(expCfg, scenario)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "=== %s ===\n", scenario)
		set, err := h.RunTrialSet(ctx, runner, cfg.Repetitions)
		if set.Successful() > 0 || set.Failed() > 0 {
			sets = append(sets, set)
		}
		if util.IsCancelled(err) {
			// keep what finished so the summary still prints
			runErr = err
			break
		}
		if err != nil {
			logger.Error("scenario did not complete cleanly", "scenario", scenario.String(), "error", err)
		}
	}

	fmt.Fprintln(w, "=== summary ===")
	if err := newFormatter(cfg).FormatTrialSets(w, sets); err != nil {
		return fmt.Errorf("failed to display summary: %w", err)
	}

	if runErr != nil {
		return runErr
	}

	for _, s := range sets {
		if s.Successful() == 0 {
			logger.Warn("scenario produced no timing", "runner", s.Runner, "error", util.ErrNoSuccessfulTrials)
		}
	}
	return nil
}
