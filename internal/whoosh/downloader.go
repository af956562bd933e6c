package whoosh

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

const (
	loginURL      = "https://event.mywhoosh.com/auth/login"
	activitiesURL = "https://event.mywhoosh.com/user/activities#profile"

	consentSelector  = `button:has-text("Accept All"), button:has-text("Accept all")`
	emailSelector    = `input[type="text"], input[name="username"], input[placeholder*="mail" i]`
	passwordSelector = `input[type="password"]`
	submitSelector   = `button[type="submit"]`
	tabSelector      = `tab[name="ACTIVITIES"]`

	rowDateLayout  = "02/01/2006" // the listing shows DD/MM/YYYY
	fileNameLayout = "2006-01-02"
)

type Config struct {
	Email         string
	Password      string
	DownloadDir   string
	ScreenshotDir string
	Headless      bool
}

// Downloader drives a browser session through login and the bounded-window
// activity download. One session per FetchRecent call; all interactions are
// strictly sequential.
type Downloader struct {
	cfg Config
	lg  zerolog.Logger
}

func New(cfg Config, lg zerolog.Logger) *Downloader {
	return &Downloader{cfg: cfg, lg: lg}
}

// FetchRecent downloads one FIT file per activity newer than the cutoff,
// skipping activities whose canonical file already exists locally. A failed
// browser step ends the session early and returns whatever was downloaded;
// partial success is success. The browser is torn down on every exit path.
func (d *Downloader) FetchRecent(days int) ([]string, error) {
	if err := os.MkdirAll(d.cfg.DownloadDir, 0755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	if err := os.MkdirAll(d.cfg.ScreenshotDir, 0755); err != nil {
		return nil, fmt.Errorf("create screenshot dir: %w", err)
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(d.cfg.Headless),
	})
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}

	return d.run(page, cutoff), nil
}

func (d *Downloader) run(page playwright.Page, cutoff time.Time) []string {
	if err := d.login(page); err != nil {
		d.lg.Warn().Err(err).Msg("login aborted, ending session")
		return nil
	}

	files, err := d.downloadActivities(page, cutoff)
	if err != nil {
		d.lg.Warn().Err(err).Int("files", len(files)).Msg("listing aborted, keeping partial downloads")
	}
	return files
}

func (d *Downloader) login(page playwright.Page) error {
	d.lg.Info().Str("email", d.cfg.Email).Msg("logging in")
	if _, err := page.Goto(loginURL, playwright.PageGotoOptions{Timeout: playwright.Float(60000)}); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(60000),
	}); err != nil {
		return fmt.Errorf("wait for login page: %w", err)
	}
	page.WaitForTimeout(3000)

	d.acceptConsent(page)

	if err := d.fillCredential(page, emailSelector, d.cfg.Email); err != nil {
		return fmt.Errorf("fill email: %w", err)
	}
	if err := d.fillCredential(page, passwordSelector, d.cfg.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	d.screenshot(page, "login_before_submit.png")

	// Give the challenge widget time to load before interacting with it.
	page.WaitForTimeout(5000)
	if !runLadder(d.lg, pageStrategies(page)) {
		d.lg.Warn().Msg("all challenge strategies failed, proceeding to submit anyway")
		d.screenshot(page, "challenge_failed.png")
	}

	return d.submit(page)
}

// acceptConsent dismisses the consent dialog if one is shown. Its absence is
// not an error; it may have been dismissed in a prior session.
func (d *Downloader) acceptConsent(page playwright.Page) {
	btn := page.Locator(consentSelector).First()
	err := btn.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		d.lg.Debug().Msg("no consent dialog")
		return
	}
	if err := btn.Click(); err != nil {
		d.lg.Debug().Err(err).Msg("consent click failed")
		return
	}
	page.WaitForTimeout(1000)
}

// fillCredential fills the first matching input and reads the value back to
// catch silent fill failures.
func (d *Downloader) fillCredential(page playwright.Page, selector, value string) error {
	input := page.Locator(selector).First()
	if err := input.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(30000),
	}); err != nil {
		return fmt.Errorf("input not visible: %w", err)
	}
	if err := input.Fill(value); err != nil {
		return fmt.Errorf("fill input: %w", err)
	}
	got, err := input.InputValue()
	if err != nil {
		return fmt.Errorf("read back input: %w", err)
	}
	if got != value {
		return fmt.Errorf("input readback mismatch: got %d chars, want %d", len(got), len(value))
	}
	return nil
}

// submit clicks the submit control. If it reads as disabled the click is
// retried once after a wait, then attempted regardless of state.
func (d *Downloader) submit(page playwright.Page) error {
	btn := page.Locator(submitSelector).First()
	disabled, err := btn.IsDisabled()
	if err != nil {
		return fmt.Errorf("read submit state: %w", err)
	}
	if disabled {
		d.lg.Warn().Msg("submit disabled, waiting before retry")
		page.WaitForTimeout(5000)
		if disabled, err = btn.IsDisabled(); err == nil && disabled {
			d.lg.Warn().Msg("submit still disabled, clicking anyway")
		}
	}
	if err := btn.Click(); err != nil {
		return fmt.Errorf("click submit: %w", err)
	}
	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(60000),
	}); err != nil {
		return fmt.Errorf("wait after submit: %w", err)
	}
	page.WaitForTimeout(3000)
	return nil
}

func (d *Downloader) downloadActivities(page playwright.Page, cutoff time.Time) ([]string, error) {
	if _, err := page.Goto(activitiesURL); err != nil {
		return nil, fmt.Errorf("open activities page: %w", err)
	}
	if err := page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("wait for activities page: %w", err)
	}
	if err := page.Locator(tabSelector).Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(5000),
	}); err != nil {
		return nil, fmt.Errorf("select activities tab: %w", err)
	}
	page.WaitForTimeout(2000)

	buttons, err := page.Locator("button", playwright.PageLocatorOptions{HasText: "download"}).All()
	if err != nil {
		return nil, fmt.Errorf("list download controls: %w", err)
	}
	d.lg.Info().Int("rows", len(buttons)).Msg("activities found")

	rows := make([]downloadRow, 0, len(buttons))
	for _, btn := range buttons {
		rows = append(rows, &pageRow{page: page, button: btn})
	}
	return d.downloadWindow(rows, cutoff)
}

// downloadRow is one per-activity row in the listing.
type downloadRow interface {
	DateText() (string, error)
	Save(dest string) error
}

// downloadWindow walks rows in the platform's display order, which is
// assumed newest-first: the first row older than the cutoff ends the walk
// without inspecting later rows. Files already present locally are skipped
// by name.
func (d *Downloader) downloadWindow(rows []downloadRow, cutoff time.Time) ([]string, error) {
	var files []string
	for _, row := range rows {
		text, err := row.DateText()
		if err != nil {
			return files, fmt.Errorf("read row date: %w", err)
		}
		date, err := time.Parse(rowDateLayout, strings.TrimSpace(text))
		if err != nil {
			d.lg.Warn().Str("date", text).Msg("unparseable row date, skipping row")
			continue
		}
		if date.Before(cutoff) {
			d.lg.Info().Str("date", text).Msg("row outside window, stopping")
			break
		}

		name := date.Format(fileNameLayout) + ".fit"
		dest := filepath.Join(d.cfg.DownloadDir, name)
		if _, err := os.Stat(dest); err == nil {
			d.lg.Debug().Str("file", name).Msg("already downloaded")
			continue
		}

		d.lg.Info().Str("file", name).Msg("downloading")
		if err := row.Save(dest); err != nil {
			return files, fmt.Errorf("download %s: %w", name, err)
		}
		files = append(files, dest)
	}
	return files, nil
}

// pageRow resolves the listing row around a download control.
type pageRow struct {
	page   playwright.Page
	button playwright.Locator
}

func (r *pageRow) DateText() (string, error) {
	cell := r.button.Locator("xpath=ancestor::tr").Locator("td").First()
	return cell.InnerText()
}

func (r *pageRow) Save(dest string) error {
	download, err := r.page.ExpectDownload(func() error {
		return r.button.Click()
	})
	if err != nil {
		return err
	}
	return download.SaveAs(dest)
}

func (d *Downloader) screenshot(page playwright.Page, name string) {
	path := filepath.Join(d.cfg.ScreenshotDir, name)
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path)}); err != nil {
		d.lg.Debug().Err(err).Msg("screenshot failed")
		return
	}
	d.lg.Debug().Str("path", path).Msg("screenshot saved")
}
