package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "syncer",
		Short:         "Disability job listing sync and geocoding operator",
		Long:          "Runs the data.go.kr sync, geocoding sweeps, the cron trigger, migrations and the sample-data seeder.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newGeocodePendingCmd())
	cmd.AddCommand(newGeocodeBatchCmd())
	cmd.AddCommand(newScheduleCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSeedCmd())
	return cmd
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
