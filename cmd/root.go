package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "whooshsync",
	Short: "Sync MyWhoosh indoor rides to Garmin Connect and verify them against Strava",
	Long: `whooshsync downloads recent activities from the MyWhoosh web UI, uploads
the FIT files to Garmin Connect exactly once each, and can cross-check the
Strava copy of an activity against the FIT original or convert it to GPX.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
