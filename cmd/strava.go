package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"whooshsync/internal/config"
	"whooshsync/internal/strava"
)

var (
	stravaPerPage int
	stravaOutDir  string
)

func init() {
	rootCmd.AddCommand(stravaCmd)
	stravaCmd.AddCommand(stravaActivitiesCmd)
	stravaCmd.AddCommand(stravaFetchCmd)
	stravaCmd.AddCommand(stravaRefreshCmd)

	stravaActivitiesCmd.Flags().IntVar(&stravaPerPage, "per-page", 30, "number of activities to list")
	stravaFetchCmd.Flags().StringVar(&stravaOutDir, "out-dir", "strava_data", "directory for saved activity JSON")
}

var stravaCmd = &cobra.Command{
	Use:   "strava",
	Short: "Talk to the Strava API (verification platform)",
}

var stravaActivitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List recent Strava activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := stravaClient()
		if err != nil {
			return err
		}

		activities, err := client.Activities(stravaPerPage)
		if err != nil {
			return stravaErr(err)
		}
		if len(activities) == 0 {
			fmt.Println("No activities found.")
			return nil
		}

		fmt.Printf("%-12s %-12s %-8s %-9s %-8s %s\n", "ID", "DATE", "TYPE", "DISTANCE", "TIME", "NAME")
		fmt.Println("──────────────────────────────────────────────────────────────────────")
		for _, a := range activities {
			date := a.StartDate
			if len(date) > 10 {
				date = date[:10]
			}
			fmt.Printf("%-12d %-12s %-8s %6.2fkm %5.1fmin %s\n",
				a.ID, date, a.Type, a.Distance/1000, a.MovingTime/60, a.Name)
		}
		return nil
	},
}

var stravaFetchCmd = &cobra.Command{
	Use:   "fetch <activity-id>",
	Short: "Save one Strava activity (detail + streams) as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid activity id %q", args[0])
		}

		client, err := stravaClient()
		if err != nil {
			return err
		}

		export, summary, err := client.FetchExport(id)
		if err != nil {
			return stravaErr(err)
		}

		if err := os.MkdirAll(stravaOutDir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		raw, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return fmt.Errorf("encode export: %w", err)
		}
		path := filepath.Join(stravaOutDir, strava.ExportFileName(summary))
		if err := os.WriteFile(path, raw, 0644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}

		fmt.Printf("Saved %s\n", summary.Name)
		fmt.Printf("  file: %s (%d bytes)\n", path, len(raw))
		return nil
	},
}

var stravaRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the refresh token for a new access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.ValidateStravaRefresh(); err != nil {
			return err
		}

		tok, err := strava.Refresh(cfg.Strava.ClientID, cfg.Strava.ClientSecret, cfg.Strava.RefreshToken)
		if err != nil {
			return err
		}

		fmt.Println("Token refreshed. Update your environment with:")
		fmt.Printf("  STRAVA_ACCESS_TOKEN=%s\n", tok.AccessToken)
		fmt.Printf("  STRAVA_REFRESH_TOKEN=%s\n", tok.RefreshToken)
		fmt.Printf("Expires at %s\n", tok.Expiry().Local().Format("2006-01-02 15:04:05"))
		return nil
	},
}

func stravaClient() (*strava.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateStravaToken(); err != nil {
		return nil, err
	}
	return strava.NewClient(cfg.Strava.AccessToken), nil
}

func stravaErr(err error) error {
	if errors.Is(err, strava.ErrTokenExpired) {
		return fmt.Errorf("access token expired: run 'whooshsync strava refresh' and update your environment")
	}
	return err
}
