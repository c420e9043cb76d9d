package output

import (
	"io"

	"github.com/aryankumar/tempbench/internal/catalog"
	"github.com/aryankumar/tempbench/internal/harness"
	"github.com/aryankumar/tempbench/internal/store"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// Format outputs a single data item as YAML
func (f *YAMLFormatter) Format(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(data)
}

// FormatResults outputs location reports as a YAML sequence
func (f *YAMLFormatter) FormatResults(w io.Writer, snap store.Snapshot) error {
	return f.Format(w, BuildLocationReports(snap))
}

// FormatTrialSets outputs trial set reports as a YAML sequence
func (f *YAMLFormatter) FormatTrialSets(w io.Writer, sets []harness.TrialSet) error {
	return f.Format(w, BuildTrialSetReports(sets))
}

// FormatLocations outputs the catalog as a YAML sequence
func (f *YAMLFormatter) FormatLocations(w io.Writer, locs []catalog.Location) error {
	if locs == nil {
		locs = []catalog.Location{}
	}
	return f.Format(w, locs)
}
