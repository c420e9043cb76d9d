package executor

import (
	"fmt"
	"log/slog"
	"time"
)

// CountSuccessful returns the number of successful results (no error)
func CountSuccessful(results []Result) int {
	count := 0
	for _, r := range results {
		if r.Error == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed results (has error)
func CountFailed(results []Result) int {
	return len(results) - CountSuccessful(results)
}

// FilterFailed returns only the failed results
func FilterFailed(results []Result) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Errors extracts all errors from results
func Errors(results []Result) []error {
	errs := make([]error, 0)
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, r.Error)
		}
	}
	return errs
}

// SuccessRate returns the success rate as a percentage (0.0 to 100.0)
func SuccessRate(results []Result) float64 {
	if len(results) == 0 {
		return 0.0
	}
	return float64(CountSuccessful(results)) / float64(len(results)) * 100.0
}

// Summary aggregates one batch of task results
type Summary struct {
	Total      int
	Successful int
	Failed     int

	// Busy is the sum of task durations, the batch's sequential cost
	Busy time.Duration

	// Slowest names the task that took longest, the floor on any pool's wall time
	Slowest         string
	SlowestDuration time.Duration
}

// Summarize aggregates results. Ties for slowest go to the earlier result.
func Summarize(results []Result) Summary {
	s := Summary{
		Total:      len(results),
		Successful: CountSuccessful(results),
		Failed:     CountFailed(results),
	}
	for _, r := range results {
		s.Busy += r.Duration
		if r.Duration > s.SlowestDuration {
			s.Slowest, s.SlowestDuration = r.Name, r.Duration
		}
	}
	return s
}

// Parallelism is Busy divided by the batch's wall time: about 1 for a
// sequential batch and up to the worker count for a saturated pool
func (s Summary) Parallelism(wall time.Duration) float64 {
	if wall <= 0 {
		return 0
	}
	return float64(s.Busy) / float64(wall)
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	str := fmt.Sprintf("Total: %d, Successful: %d, Failed: %d", s.Total, s.Successful, s.Failed)
	if s.Total > 0 {
		str += fmt.Sprintf(", Busy: %s, Slowest: %s (%s)",
			s.Busy.Round(time.Millisecond), s.Slowest, s.SlowestDuration.Round(time.Millisecond))
	}
	return str
}

// LogValue renders the summary as a log group
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("total", s.Total),
		slog.Int("failed", s.Failed),
		slog.Duration("busy", s.Busy),
		slog.String("slowest", s.Slowest),
		slog.Duration("slowestDuration", s.SlowestDuration),
	)
}
