package cmd

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"whooshsync/internal/activity"
	"whooshsync/internal/reconcile"
	"whooshsync/internal/reports"
)

var (
	compareCopy bool
	compareOut  string
)

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().BoolVar(&compareCopy, "copy", false, "copy the report to the clipboard")
	compareCmd.Flags().StringVar(&compareOut, "out", "", "write the report to a file")
}

var compareCmd = &cobra.Command{
	Use:   "compare <activity.fit> <streams.json>",
	Short: "Compare a FIT original against its Strava stream copy",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fitAct, err := activity.FromFIT(args[0])
		if err != nil {
			return err
		}
		streamAct, err := activity.FromStreams(args[1])
		if err != nil {
			return err
		}

		rpt := reconcile.Compare(fitAct, streamAct)
		text := rpt.Render(args[0], args[1])
		fmt.Print(text)

		if dir, err := os.Getwd(); err == nil {
			if store, err := reports.Open(dir); err == nil {
				defer store.Close()
				if rec, err := store.Save(args[0], args[1], rpt); err == nil {
					fmt.Printf("\nReport archived as %s\n", rec.ID)
				}
			}
		}

		if compareCopy {
			if err := clipboard.WriteAll(text); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not copy to clipboard: %v\n", err)
			} else {
				fmt.Println("Report copied to clipboard!")
			}
		}
		if compareOut != "" {
			if err := os.WriteFile(compareOut, []byte(text), 0644); err != nil {
				return fmt.Errorf("write report file: %w", err)
			}
			fmt.Printf("Report written to %s\n", compareOut)
		}
		return nil
	},
}
