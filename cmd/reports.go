package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"whooshsync/internal/reports"
)

var reportsLimit int

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(showReportCmd)

	reportsCmd.Flags().IntVar(&reportsLimit, "limit", 20, "max number of reports to list")
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List archived comparison reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openReports()
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.List(reportsLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No reports yet. Run 'whooshsync compare' first")
			return nil
		}

		fmt.Printf("%-18s %-20s %-7s %s\n", "ID", "CREATED", "SCORE", "FILES")
		fmt.Println("─────────────────────────────────────────────────────────────────")
		for _, r := range records {
			fmt.Printf("%-18s %-20s %d/4    %s vs %s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				r.Score,
				r.FITFile,
				r.StreamFile,
			)
		}
		return nil
	},
}

var showReportCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Show an archived comparison report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openReports()
		if err != nil {
			return err
		}
		defer store.Close()

		rec, rpt, err := store.Get(args[0])
		if err != nil {
			return fmt.Errorf("report %q not found", args[0])
		}

		fmt.Printf("Report:  %s\n", rec.ID)
		fmt.Printf("Created: %s\n\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Print(rpt.Render(rec.FITFile, rec.StreamFile))
		return nil
	},
}

func openReports() (*reports.Store, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return reports.Open(dir)
}
