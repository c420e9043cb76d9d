package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/aryankumar/tempbench/internal/catalog"
	"github.com/aryankumar/tempbench/internal/harness"
	"github.com/aryankumar/tempbench/internal/store"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats output as a borderless table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(f.createTable(w), v)
	case map[string]string:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[k] = val
		}
		return f.formatMap(f.createTable(w), m)
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatResults prints one row per location and day with values to two
// decimals. A location with an empty series still gets a row.
func (f *TableFormatter) FormatResults(w io.Writer, snap store.Snapshot) error {
	if len(snap) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)
	f.setHeader(table, colors, []string{"LOCATION", "DATE", "MEAN", "MIN", "MAX", "SAMPLES"})

	reports := BuildLocationReports(snap)
	days := 0
	for _, r := range reports {
		name := colors.paint(colors.Location, r.Location)
		if len(r.Days) == 0 {
			table.Append([]string{name, colors.paint(colors.Warning, "no data"), "-", "-", "-", "0"})
			continue
		}
		for _, d := range r.Days {
			table.Append([]string{
				name,
				d.Date,
				fmt.Sprintf("%.2f", d.Mean),
				fmt.Sprintf("%.2f", d.Min),
				fmt.Sprintf("%.2f", d.Max),
				strconv.Itoa(d.Samples),
			})
			days++
		}
	}

	table.Render()

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Results: %d locations, %d days\n", len(reports), days)
	return nil
}

// FormatTrialSets prints a comparison row per trial set
func (f *TableFormatter) FormatTrialSets(w io.Writer, sets []harness.TrialSet) error {
	if len(sets) == 0 {
		fmt.Fprintln(w, "No trial sets")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)
	f.setHeader(table, colors, []string{"RUNNER", "OK", "FAILED", "MEAN(MS)", "P50(MS)", "P90(MS)", "P99(MS)", "SPEEDUP"})

	for _, r := range BuildTrialSetReports(sets) {
		failed := strconv.Itoa(r.Failed())
		if r.Failed() > 0 {
			failed = colors.paint(colors.Error, failed)
		}

		speedup := "-"
		if r.Speedup > 0 {
			speedup = colors.paint(colors.SpeedupColor(r.Speedup), fmt.Sprintf("%.2fx", r.Speedup))
		}

		table.Append([]string{
			colors.paint(colors.Location, r.Runner),
			strconv.Itoa(r.Successful()),
			failed,
			colors.paint(colors.Duration, fmt.Sprintf("%.2f", r.MeanMs)),
			fmt.Sprintf("%.2f", r.Latency.P50Ms),
			fmt.Sprintf("%.2f", r.Latency.P90Ms),
			fmt.Sprintf("%.2f", r.Latency.P99Ms),
			speedup,
		})
	}

	table.Render()
	return nil
}

// FormatLocations prints the catalog
func (f *TableFormatter) FormatLocations(w io.Writer, locs []catalog.Location) error {
	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)
	f.setHeader(table, colors, []string{"NAME", "LATITUDE", "LONGITUDE"})

	for _, loc := range locs {
		table.Append([]string{
			colors.paint(colors.Location, loc.Name),
			strconv.FormatFloat(loc.Latitude, 'f', 4, 64),
			strconv.FormatFloat(loc.Longitude, 'f', 4, 64),
		})
	}

	table.Render()
	return nil
}

// setHeader applies headers unless disabled
func (f *TableFormatter) setHeader(table *tablewriter.Table, colors *ColorScheme, headers []string) {
	if f.options.NoHeaders {
		return
	}
	if colors.Disabled {
		table.SetHeader(headers)
		return
	}

	colored := make([]string, len(headers))
	for i, h := range headers {
		colored[i] = colors.Header(h)
	}
	table.SetHeader(colored)
}

// formatMap formats a map as a two-column table sorted by key
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

// createTable creates a new borderless, tab-padded table
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}
