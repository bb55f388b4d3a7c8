package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geobrowser/geo-stream/config"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", config.Version, config.CommitHash)
		},
	}
}
