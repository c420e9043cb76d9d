// Package experiment implements the benchmark runners: a sequential runner
// and a pooled runner sharing the same fetch, summarize and store pipeline.
package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/aryankumar/tempbench/internal/catalog"
	"github.com/aryankumar/tempbench/internal/executor"
	"github.com/aryankumar/tempbench/internal/harness"
	"github.com/aryankumar/tempbench/internal/output"
	"github.com/aryankumar/tempbench/internal/stats"
	"github.com/aryankumar/tempbench/internal/store"
	"github.com/aryankumar/tempbench/internal/tracing"
	"github.com/aryankumar/tempbench/internal/util"
)

// FetchFunc retrieves the raw hourly series of a location for the period
type FetchFunc func(ctx context.Context, loc catalog.Location, start, end time.Time) ([]float64, error)

// SummarizeFunc reduces an hourly series to per-day statistics
type SummarizeFunc func(series []float64, start time.Time) stats.Daily

// DefaultDrainTimeout bounds how long a pooled run waits for its workers
const DefaultDrainTimeout = time.Hour

// Config holds what every runner needs
type Config struct {
	// Locations to process, in catalog order
	Locations []catalog.Location

	// Start and End bound the requested period
	Start time.Time
	End   time.Time

	// Fetch is required
	Fetch FetchFunc

	// Summarize defaults to stats.Summarize
	Summarize SummarizeFunc

	// Store defaults to a fresh store
	Store *store.ResultStore

	// Formatter renders DisplayResults, default table
	Formatter output.Formatter

	// DrainTimeout caps a pooled run. Zero selects DefaultDrainTimeout and
	// a negative value waits without bound.
	DrainTimeout time.Duration

	Logger *slog.Logger
	Tracer trace.Tracer
}

// pipeline is the per-location step shared by both runners
type pipeline struct {
	locations []catalog.Location
	start     time.Time
	end       time.Time
	fetch     FetchFunc
	summarize SummarizeFunc
	store     *store.ResultStore
	formatter output.Formatter
	logger    *slog.Logger
	tracer    trace.Tracer
}

func newPipeline(cfg Config) (*pipeline, error) {
	if cfg.Fetch == nil {
		return nil, util.NewValidationError("fetch", nil, "a data source is required")
	}

	p := &pipeline{
		locations: cfg.Locations,
		start:     cfg.Start,
		end:       cfg.End,
		fetch:     cfg.Fetch,
		summarize: cfg.Summarize,
		store:     cfg.Store,
		formatter: cfg.Formatter,
		logger:    cfg.Logger,
		tracer:    cfg.Tracer,
	}
	if p.summarize == nil {
		p.summarize = stats.Summarize
	}
	if p.store == nil {
		p.store = store.New()
	}
	if p.formatter == nil {
		p.formatter = output.NewFormatter(output.FormatTable)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.tracer == nil {
		p.tracer = tracing.NoopTracer()
	}
	return p, nil
}

// ProcessOne fetches, summarizes and stores one location. A fetch failure
// is logged and returned as a *util.LocationError; nothing is stored for
// that location. An empty series stores an empty entry.
func (p *pipeline) ProcessOne(ctx context.Context, loc catalog.Location) error {
	return p.processAt(ctx, loc, p.store.Generation())
}

// processAt is ProcessOne for a run bound to store generation gen. Once the
// store has been cleared for another trial the result is dropped.
func (p *pipeline) processAt(ctx context.Context, loc catalog.Location, gen uint64) (err error) {
	ctx, span := tracing.StartLocationSpan(ctx, p.tracer, loc.Name)
	var daily stats.Daily
	defer func() {
		tracing.EndSpan(span, err, tracing.AttrDays.Int(len(daily)))
	}()

	series, err := p.fetch(ctx, loc, p.start, p.end)
	if err != nil {
		p.logger.Warn("skipping location", "location", loc.Name, "error", err)
		return util.WrapLocationError(loc.Name, err)
	}
	span.SetAttributes(tracing.AttrPoints.Int(len(series)))

	daily = p.summarize(series, p.start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return util.WrapLocationError(loc.Name, fmt.Errorf("%w: %v", util.ErrCancelled, ctxErr))
	}
	if !p.store.PutAt(gen, loc.Name, daily) {
		return util.WrapLocationError(loc.Name, fmt.Errorf("%w: trial already ended", util.ErrCancelled))
	}
	p.logger.Debug("location processed", "location", loc.Name, "points", len(series), "days", len(daily))
	return nil
}

// Store returns the store the pipeline writes into
func (p *pipeline) Store() *store.ResultStore {
	return p.store
}

// DisplayResults renders the current store contents
func (p *pipeline) DisplayResults(w io.Writer) error {
	return p.formatter.FormatResults(w, p.store.Snapshot())
}

// task wraps processAt for the executor
func (p *pipeline) task(loc catalog.Location, gen uint64) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return p.processAt(ctx, loc, gen)
	}
}

// logBatch reports a finished run: the skipped locations and how busy
// the workers were
func (p *pipeline) logBatch(runner string, results []executor.Result, elapsed time.Duration) {
	summary := executor.Summarize(results)
	attrs := []any{
		"runner", runner,
		"elapsed", elapsed,
		"batch", summary,
		"successRate", fmt.Sprintf("%.1f%%", executor.SuccessRate(results)),
		"parallelism", fmt.Sprintf("%.2f", summary.Parallelism(elapsed)),
	}
	if failed := executor.FilterFailed(results); len(failed) > 0 {
		skipped := make([]string, len(failed))
		for i, r := range failed {
			skipped[i] = r.Name
		}
		attrs = append(attrs, "skipped", skipped, "error", util.NewMultiError(executor.Errors(failed)))
	}
	p.logger.Debug("run finished", attrs...)
}

// NewRunner builds the runner for a scenario
func NewRunner(cfg Config, scenario harness.Scenario) (harness.Runner, error) {
	if scenario.Sequential() {
		s, err := NewSequential(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	p, err := NewPooled(cfg, scenario.PoolSize)
	if err != nil {
		return nil, err
	}
	return p, nil
}
