package cli

import (
	"fmt"
	"io"

	"github.com/aryankumar/tempbench/internal/output"
	"github.com/aryankumar/tempbench/pkg/version"
	"github.com/spf13/cobra"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for tempbench",
		// version needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runVersion(cmd.OutOrStdout(), outputFormat)
		},
	}

	return cmd
}

func runVersion(w io.Writer, outputFormat string) error {
	info := version.Get()

	switch output.Format(outputFormat) {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(output.Format(outputFormat)).Format(w, info)
	case output.FormatTable:
		return output.NewFormatter(output.FormatTable).Format(w, map[string]string{
			"Version":    info.Version,
			"Commit":     info.Commit,
			"Build Time": info.BuildTime,
			"Go Version": info.GoVersion,
			"Platform":   info.Platform,
		})
	default:
		// Default to human-readable format
		fmt.Fprintln(w, info.String())
		return nil
	}
}
