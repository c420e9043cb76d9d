package cli

import (
	"github.com/aryankumar/tempbench/internal/catalog"
	"github.com/spf13/cobra"
)

func newLocationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "locations",
		Aliases: []string{"locs"},
		Short:   "List the location catalog",
		Long: `List the capitals benchmarked by tempbench with their coordinates,
in catalog order. --locations restricts the list.`,
		Example: `  # All 27 capitals
  tempbench locations

  # As JSON
  tempbench locations -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			locs, err := catalog.Filter(a.config.Locations)
			if err != nil {
				return err
			}
			return newFormatter(a.config).FormatLocations(cmd.OutOrStdout(), locs)
		},
	}

	return cmd
}
