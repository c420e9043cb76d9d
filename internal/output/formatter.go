package output

import (
	"io"
	"math"
	"sort"

	"github.com/aryankumar/tempbench/internal/catalog"
	"github.com/aryankumar/tempbench/internal/harness"
	"github.com/aryankumar/tempbench/internal/stats"
	"github.com/aryankumar/tempbench/internal/store"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs data in a borderless table
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatResults outputs per-location daily statistics, sorted by
	// location name then date
	FormatResults(w io.Writer, snap store.Snapshot) error

	// FormatTrialSets outputs trial set timings with speedup relative to
	// the sequential baseline
	FormatTrialSets(w io.Writer, sets []harness.TrialSet) error

	// FormatLocations outputs the location catalog
	FormatLocations(w io.Writer, locs []catalog.Location) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// DayReport is the serialized form of one day's statistics
type DayReport struct {
	Date    string  `json:"date" yaml:"date"`
	Mean    float64 `json:"mean" yaml:"mean"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Samples int     `json:"samples" yaml:"samples"`
}

// LocationReport is the serialized form of one location's results
type LocationReport struct {
	Location string      `json:"location" yaml:"location"`
	Days     []DayReport `json:"days" yaml:"days"`
}

// TrialSetReport adds the speedup over the baseline to a trial set
type TrialSetReport struct {
	harness.TrialSet `yaml:",inline"`
	Speedup          float64 `json:"speedup" yaml:"speedup"`
}

// BuildLocationReports flattens a snapshot into reports sorted by location
// name, each with days in date order
func BuildLocationReports(snap store.Snapshot) []LocationReport {
	names := snap.Names()
	reports := make([]LocationReport, 0, len(names))

	for _, name := range names {
		daily := snap[name]
		days := make([]DayReport, 0, len(daily))
		for _, d := range sortedDays(daily) {
			days = append(days, DayReport{
				Date:    d.Day(),
				Mean:    round2(d.Mean),
				Min:     round2(d.Min),
				Max:     round2(d.Max),
				Samples: d.Samples,
			})
		}
		reports = append(reports, LocationReport{Location: name, Days: days})
	}

	return reports
}

// BuildTrialSetReports pairs each set with its speedup over the baseline
func BuildTrialSetReports(sets []harness.TrialSet) []TrialSetReport {
	baseline, _ := harness.Baseline(sets)

	reports := make([]TrialSetReport, len(sets))
	for i, s := range sets {
		reports[i] = TrialSetReport{
			TrialSet: s,
			Speedup:  round2(s.Speedup(baseline)),
		}
	}
	return reports
}

// sortedDays returns the daily stats ordered by date
func sortedDays(daily stats.Daily) []stats.DailyStat {
	days := daily.Clone()
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
