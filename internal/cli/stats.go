package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newAPIClient().Stats()
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(s)
			}
			return printStats(s)
		},
	}
}
