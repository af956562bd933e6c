package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"whooshsync/internal/ledger"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the download/upload ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		led, err := ledger.Open(filepath.Join("data", "history.json"))
		if err != nil {
			return err
		}

		uploaded := led.Uploaded()
		downloaded := led.Downloaded()
		if len(uploaded) == 0 && len(downloaded) == 0 {
			fmt.Println("No history yet. Run 'whooshsync sync' first")
			return nil
		}

		fmt.Printf("%-20s %-22s %s\n", "FILE", "UPLOADED", "STATUS")
		fmt.Println("────────────────────────────────────────────────────────")
		for _, name := range sortedNames(uploaded) {
			e := uploaded[name]
			fmt.Printf("%-20s %-22s %s\n", name, e.UploadedAt, e.Status)
		}

		fmt.Println()
		fmt.Printf("%-20s %s\n", "FILE", "DOWNLOADED")
		fmt.Println("────────────────────────────────────────────────────────")
		for _, name := range sortedDownloadNames(downloaded) {
			fmt.Printf("%-20s %s\n", name, downloaded[name].DownloadedAt)
		}
		return nil
	},
}

func sortedNames(m map[string]ledger.UploadEntry) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedDownloadNames(m map[string]ledger.DownloadEntry) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
