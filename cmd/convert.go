package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"whooshsync/internal/activity"
	"whooshsync/internal/gpx"
)

var convertOut string

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertOut, "out", "", "output GPX path (default derived from the activity)")
}

var convertCmd = &cobra.Command{
	Use:   "convert <streams.json>",
	Short: "Convert a saved Strava activity to GPX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		act, err := activity.FromStreams(args[0])
		if err != nil {
			return err
		}

		doc, err := gpx.FromActivity(act)
		if errors.Is(err, gpx.ErrNoGPSData) {
			fmt.Println("No GPS data, cannot produce a GPX file.")
			fmt.Println("(Indoor activities often have no position stream.)")
			return nil
		}
		if err != nil {
			return err
		}

		out := convertOut
		if out == "" {
			out = gpxFileName(act)
		}
		if err := os.WriteFile(out, doc, 0644); err != nil {
			return fmt.Errorf("write gpx file: %w", err)
		}

		fmt.Printf("GPX written to %s (%d bytes, %d points)\n", out, len(doc), len(act.Samples))
		return nil
	},
}

func gpxFileName(act *activity.Activity) string {
	name := strings.ReplaceAll(act.Name, "/", "-")
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		name = "activity"
	}
	return fmt.Sprintf("%s_%s.gpx", act.StartTime.Format("2006-01-02"), name)
}
