package output

import (
	"encoding/json"
	"io"

	"github.com/aryankumar/tempbench/internal/catalog"
	"github.com/aryankumar/tempbench/internal/harness"
	"github.com/aryankumar/tempbench/internal/store"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatResults outputs location reports as a JSON array
func (f *JSONFormatter) FormatResults(w io.Writer, snap store.Snapshot) error {
	return f.Format(w, BuildLocationReports(snap))
}

// FormatTrialSets outputs trial set reports as a JSON array
func (f *JSONFormatter) FormatTrialSets(w io.Writer, sets []harness.TrialSet) error {
	return f.Format(w, BuildTrialSetReports(sets))
}

// FormatLocations outputs the catalog as a JSON array
func (f *JSONFormatter) FormatLocations(w io.Writer, locs []catalog.Location) error {
	if locs == nil {
		locs = []catalog.Location{}
	}
	return f.Format(w, locs)
}
