package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme provides color functions for different output elements
type ColorScheme struct {
	// Location colors location and runner names
	Location func(format string, a ...interface{}) string

	// Success colors success counts and speedups
	Success func(format string, a ...interface{}) string

	// Error colors failure counts and error messages
	Error func(format string, a ...interface{}) string

	// Warning colors empty results
	Warning func(format string, a ...interface{}) string

	// Header colors table headers
	Header func(format string, a ...interface{}) string

	// Duration colors timing values
	Duration func(format string, a ...interface{}) string

	// Disabled indicates if colors are disabled
	Disabled bool
}

// NewColorScheme creates a new color scheme
// Colors are automatically disabled for non-TTY outputs or when noColor is true
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	useColor := !noColor && isTTY(w)

	if !useColor {
		return &ColorScheme{
			Location: color.New().Sprintf,
			Success:  color.New().Sprintf,
			Error:    color.New().Sprintf,
			Warning:  color.New().Sprintf,
			Header:   color.New().Sprintf,
			Duration: color.New().Sprintf,
			Disabled: true,
		}
	}

	return &ColorScheme{
		Location: color.New(color.FgCyan, color.Bold).Sprintf,
		Success:  color.New(color.FgGreen).Sprintf,
		Error:    color.New(color.FgRed, color.Bold).Sprintf,
		Warning:  color.New(color.FgYellow).Sprintf,
		Header:   color.New(color.FgWhite, color.Bold).Sprintf,
		Duration: color.New(color.FgBlue).Sprintf,
		Disabled: false,
	}
}

// isTTY checks if the writer is a TTY
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// SpeedupColor picks green for a real gain over the baseline, red for a
// slowdown and yellow within 5% of parity
func (cs *ColorScheme) SpeedupColor(speedup float64) func(format string, a ...interface{}) string {
	switch {
	case speedup >= 1.05:
		return cs.Success
	case speedup < 0.95:
		return cs.Error
	default:
		return cs.Warning
	}
}

// paint applies fn unless colors are disabled
func (cs *ColorScheme) paint(fn func(format string, a ...interface{}) string, s string) string {
	if cs.Disabled {
		return s
	}
	return fn("%s", s)
}
