// Package harness repeats a runner over a number of trials and reduces the
// timings to a TrialSet.
package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/aryankumar/tempbench/internal/store"
	"github.com/aryankumar/tempbench/internal/tracing"
	"github.com/aryankumar/tempbench/internal/util"
)

// maxTrackedMicros bounds the latency histogram at one hour
const maxTrackedMicros = int64(time.Hour / time.Microsecond)

// Runner is a benchmark strategy the harness can time
type Runner interface {
	// Name identifies the runner in logs and reports
	Name() string

	// Run processes every location once and returns the elapsed wall time
	Run(ctx context.Context) (time.Duration, error)

	// Store is the result store Run writes into
	Store() *store.ResultStore

	// DisplayResults renders the store contents
	DisplayResults(w io.Writer) error
}

// TrialFailure describes a trial excluded from the mean
type TrialFailure struct {
	Trial   int    `json:"trial" yaml:"trial"`
	Error   string `json:"error" yaml:"error"`
	Timeout bool   `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// LatencySummary holds distribution statistics over successful trials
type LatencySummary struct {
	MinMs float64 `json:"minMs" yaml:"minMs"`
	MaxMs float64 `json:"maxMs" yaml:"maxMs"`
	P50Ms float64 `json:"p50Ms" yaml:"p50Ms"`
	P90Ms float64 `json:"p90Ms" yaml:"p90Ms"`
	P99Ms float64 `json:"p99Ms" yaml:"p99Ms"`
}

// TrialSet is the outcome of RunTrialSet
type TrialSet struct {
	RunID       string          `json:"runId" yaml:"runId"`
	Runner      string          `json:"runner" yaml:"runner"`
	Repetitions int             `json:"repetitions" yaml:"repetitions"`
	PerTrial    []time.Duration `json:"-" yaml:"-"` // full resolution, feeds Latency
	PerTrialMs  []int64         `json:"perTrialMs" yaml:"perTrialMs"`
	MeanMs      float64         `json:"meanMs" yaml:"meanMs"`
	Failures    []TrialFailure  `json:"failures,omitempty" yaml:"failures,omitempty"`
	Latency     LatencySummary  `json:"latency" yaml:"latency"`
}

// Successful returns the number of trials that produced a timing
func (s TrialSet) Successful() int {
	return len(s.PerTrial)
}

// Failed returns the number of trials excluded from the mean
func (s TrialSet) Failed() int {
	return len(s.Failures)
}

// Speedup returns how many times faster s is than baseline, or 0 when
// either mean is undefined
func (s TrialSet) Speedup(baseline TrialSet) float64 {
	if s.MeanMs <= 0 || baseline.MeanMs <= 0 {
		return 0
	}
	return baseline.MeanMs / s.MeanMs
}

// Baseline returns the sequential set, or the first set when there is none
func Baseline(sets []TrialSet) (TrialSet, bool) {
	for _, s := range sets {
		if s.Runner == SequentialName {
			return s, true
		}
	}
	if len(sets) > 0 {
		return sets[0], true
	}
	return TrialSet{}, false
}

// Harness runs trial sets
type Harness struct {
	logger *slog.Logger
	tracer trace.Tracer
	out    io.Writer
}

// Option configures a Harness
type Option func(*Harness)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTracer records a span per trial
func WithTracer(tracer trace.Tracer) Option {
	return func(h *Harness) {
		if tracer != nil {
			h.tracer = tracer
		}
	}
}

// WithOutput sets where per-trial lines and final results are written
func WithOutput(w io.Writer) Option {
	return func(h *Harness) {
		h.out = w
	}
}

// New creates a harness writing to io.Discard unless WithOutput is given
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.Default(),
		tracer: tracing.NoopTracer(),
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.out == nil {
		h.out = io.Discard
	}
	return h
}

// RunTrialSet runs the runner repetitions times. A failed or panicking trial
// is recorded and the set continues. The mean covers successful trials only
// and is 0 when none succeeded. After the loop the runner displays the
// results of the last trial. Only context cancellation ends the set early.
func (h *Harness) RunTrialSet(ctx context.Context, runner Runner, repetitions int) (TrialSet, error) {
	if repetitions <= 0 {
		return TrialSet{}, util.NewValidationError("repetitions", repetitions, "must be positive")
	}

	set := TrialSet{
		RunID:       uuid.NewString(),
		Runner:      runner.Name(),
		Repetitions: repetitions,
		PerTrial:    make([]time.Duration, 0, repetitions),
		PerTrialMs:  make([]int64, 0, repetitions),
	}
	logger := h.logger.With("runner", set.Runner, "run_id", set.RunID)
	logger.Info("starting trial set", "repetitions", repetitions)

	for i := 1; i <= repetitions; i++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("trial set interrupted", "completed", i-1, "error", err)
			return set, fmt.Errorf("%w: %v", util.ErrCancelled, err)
		}

		fmt.Fprintf(h.out, "trial %d/%d...\n", i, repetitions)
		runner.Store().Clear()

		elapsed, err := h.runTrial(ctx, runner, i)
		if err != nil {
			logger.Error("trial failed", "trial", i, "error", err)
			fmt.Fprintf(h.out, "trial %d failed: %v\n", i, err)
			set.Failures = append(set.Failures, TrialFailure{
				Trial:   i,
				Error:   err.Error(),
				Timeout: util.IsTimeout(err),
			})
			continue
		}

		set.PerTrial = append(set.PerTrial, elapsed)
		set.PerTrialMs = append(set.PerTrialMs, elapsed.Milliseconds())
		logger.Debug("trial completed", "trial", i, "duration", elapsed, "locations", runner.Store().Len())
		fmt.Fprintf(h.out, "trial %d completed in %d ms\n", i, elapsed.Milliseconds())
	}

	set.MeanMs = MeanMs(set.PerTrialMs)
	set.Latency = Summarize(set.PerTrial)
	fmt.Fprintf(h.out, "\nmean execution time (%d trials): %.2f ms\n\n", set.Successful(), set.MeanMs)

	if set.Successful() == 0 {
		logger.Warn("no trial produced a timing", "error", util.ErrNoSuccessfulTrials, "failed", set.Failed())
	}

	if err := runner.DisplayResults(h.out); err != nil {
		return set, fmt.Errorf("failed to display results: %w", err)
	}

	logger.Info("trial set completed",
		"successful", set.Successful(),
		"failed", set.Failed(),
		"mean_ms", set.MeanMs)

	return set, nil
}

// runTrial times one Run call, turning errors and panics into *TrialError
func (h *Harness) runTrial(ctx context.Context, runner Runner, trial int) (elapsed time.Duration, err error) {
	ctx, span := tracing.StartTrialSpan(ctx, h.tracer, runner.Name(), trial)
	defer func() {
		if r := recover(); r != nil {
			err = &TrialError{Trial: trial, Panic: r}
		}
		tracing.EndTrialSpan(span, elapsed, err)
	}()

	elapsed, err = runner.Run(ctx)
	if err != nil {
		return 0, &TrialError{Trial: trial, Err: err}
	}
	return elapsed, nil
}

// MeanMs returns the arithmetic mean of whole-millisecond trial times, 0 for
// none. It averages the same values the report lists per trial.
func MeanMs(ms []int64) float64 {
	if len(ms) == 0 {
		return 0.0
	}

	var total int64
	for _, v := range ms {
		total += v
	}
	return float64(total) / float64(len(ms))
}

// Summarize computes min, max and percentiles with microsecond resolution
func Summarize(durations []time.Duration) LatencySummary {
	if len(durations) == 0 {
		return LatencySummary{}
	}

	hist := hdrhistogram.New(1, maxTrackedMicros, 3)
	for _, d := range durations {
		us := d.Microseconds()
		if us < 1 {
			us = 1
		}
		if us > maxTrackedMicros {
			us = maxTrackedMicros
		}
		_ = hist.RecordValue(us)
	}

	toMs := func(us int64) float64 { return float64(us) / 1000.0 }
	return LatencySummary{
		MinMs: toMs(hist.Min()),
		MaxMs: toMs(hist.Max()),
		P50Ms: toMs(hist.ValueAtQuantile(50)),
		P90Ms: toMs(hist.ValueAtQuantile(90)),
		P99Ms: toMs(hist.ValueAtQuantile(99)),
	}
}
