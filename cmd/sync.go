package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"whooshsync/internal/config"
	"whooshsync/internal/garmin"
	"whooshsync/internal/ledger"
	"whooshsync/internal/pipeline"
	"whooshsync/internal/whoosh"
)

var (
	syncDays        int
	syncDownloadDir string
	syncHeadful     bool
)

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().IntVar(&syncDays, "days", 30, "download activities newer than this many days")
	syncCmd.Flags().StringVar(&syncDownloadDir, "download-dir", "downloads", "directory for downloaded FIT files")
	syncCmd.Flags().BoolVar(&syncHeadful, "headful", false, "run the browser with a visible window")
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download recent MyWhoosh activities and upload them to Garmin Connect",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.ValidateSync(); err != nil {
			return err
		}

		lg, closeLog, err := newLogger("logs")
		if err != nil {
			return err
		}
		defer closeLog()

		fmt.Printf("Downloading MyWhoosh activities from the last %d days...\n", syncDays)
		downloader := whoosh.New(whoosh.Config{
			Email:         cfg.MyWhoosh.Email,
			Password:      cfg.MyWhoosh.Password,
			DownloadDir:   syncDownloadDir,
			ScreenshotDir: "screenshot",
			Headless:      !syncHeadful,
		}, lg)

		files, err := downloader.FetchRecent(syncDays)
		if err != nil {
			return err
		}
		fmt.Printf("Downloaded %d new activities\n", len(files))

		if len(files) == 0 {
			fmt.Println("Nothing new to upload.")
			return nil
		}

		fmt.Printf("Logging in to Garmin Connect (%s)...\n", cfg.Garmin.Email)
		session, err := garmin.Login(cfg.Garmin.Email, cfg.Garmin.Password)
		if err != nil {
			return fmt.Errorf("garmin login: %w", err)
		}

		led, err := ledger.Open(filepath.Join("data", "history.json"))
		if err != nil {
			return err
		}

		p := &pipeline.Pipeline{
			Ledger:   led,
			Uploader: &pipeline.GarminUploader{Session: session},
			Log:      lg,
		}
		sum := p.UploadAll(files)

		fmt.Println()
		fmt.Printf("Sync finished: %d uploaded, %d skipped, %d failed\n",
			sum.Succeeded, sum.Skipped, sum.Failed)
		if sum.Failed > 0 {
			return fmt.Errorf("%d uploads failed", sum.Failed)
		}
		return nil
	},
}

// newLogger writes structured pipeline logs to a timestamped file, one file
// per run.
func newLogger(dir string) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, "sync_"+time.Now().Format("20060102_150405")+".log")
	f, err := os.Create(path)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log file: %w", err)
	}
	lg := zerolog.New(f).With().Timestamp().Logger()
	return lg, func() { _ = f.Close() }, nil
}
