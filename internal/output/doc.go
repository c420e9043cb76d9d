// Package output renders benchmark results for the console.
//
// Three formats share one Formatter interface: a borderless table with
// optional color, indented JSON, and YAML. Every format covers the
// per-location daily statistics of a result snapshot, the trial set
// comparison, and the location catalog:
//
//	formatter := output.NewFormatter(output.FormatTable, output.WithNoColor(true))
//	formatter.FormatResults(os.Stdout, runner.Store().Snapshot())
//	formatter.FormatTrialSets(os.Stdout, sets)
//
// Results are sorted by location name and then date so repeated runs
// print identically. Colors are disabled automatically when the writer
// is not a terminal.
package output
