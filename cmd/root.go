package cmd

import (
	"github.com/spf13/cobra"

	"github.com/geobrowser/geo-stream/config"
)

// SetVersion records the build version reported by the version command and
// sentry releases.
func SetVersion(version, commit string) {
	config.SetBuildInfo(version, commit)
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "geo-stream",
		Short:        "Extract geo governance and content records from chain logs",
		SilenceUsage: true,
	}

	cmd.AddCommand(runCmd())
	cmd.AddCommand(blockCmd())
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(tailCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}
