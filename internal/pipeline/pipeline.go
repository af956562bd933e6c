package pipeline

import (
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"

	"whooshsync/internal/garmin"
	"whooshsync/internal/ledger"
)

// UploadResult classifies one upload attempt. Duplicate is distinct from
// Err: the activity already exists remotely, which is a terminal success for
// synchronization purposes.
type UploadResult struct {
	Success   bool
	Duplicate bool
	Err       error
}

// Uploader sends one local activity file to the destination platform.
type Uploader interface {
	Upload(path string) UploadResult
}

// GarminUploader adapts a Garmin session to the Uploader contract,
// classifying the 409-style conflict as a duplicate.
type GarminUploader struct {
	Session *garmin.Session
}

func (g *GarminUploader) Upload(path string) UploadResult {
	err := g.Session.UploadActivity(path)
	switch {
	case err == nil:
		return UploadResult{Success: true}
	case errors.Is(err, garmin.ErrDuplicate):
		return UploadResult{Duplicate: true}
	default:
		return UploadResult{Err: err}
	}
}

// Summary is the tri-count outcome of one sync pass.
type Summary struct {
	Succeeded int
	Skipped   int
	Failed    int
}

// Pipeline runs the ledger-gated upload loop. Per-file errors are isolated:
// one failing upload does not stop the batch.
type Pipeline struct {
	Ledger   *ledger.Ledger
	Uploader Uploader
	Log      zerolog.Logger
}

// UploadAll records each file as downloaded, then uploads every file not
// already marked uploaded in the ledger. Files with an existing upload entry
// never reach the network.
func (p *Pipeline) UploadAll(files []string) Summary {
	var sum Summary
	for _, path := range files {
		name := filepath.Base(path)

		if !p.Ledger.IsDownloaded(name) {
			if err := p.Ledger.MarkDownloaded(name); err != nil {
				p.Log.Warn().Err(err).Str("file", name).Msg("failed to record download")
			}
		}

		if p.Ledger.IsUploaded(name) {
			p.Log.Info().Str("file", name).Msg("already uploaded, skipping")
			sum.Skipped++
			continue
		}

		res := p.Uploader.Upload(path)
		switch {
		case res.Success:
			p.Log.Info().Str("file", name).Msg("uploaded")
			p.markUploaded(name)
			sum.Succeeded++
		case res.Duplicate:
			p.Log.Info().Str("file", name).Msg("duplicate on destination, marking uploaded")
			p.markUploaded(name)
			sum.Skipped++
		default:
			p.Log.Error().Err(res.Err).Str("file", name).Msg("upload failed")
			sum.Failed++
		}
	}
	return sum
}

func (p *Pipeline) markUploaded(name string) {
	if err := p.Ledger.MarkUploaded(name); err != nil {
		p.Log.Warn().Err(err).Str("file", name).Msg("failed to record upload")
	}
}
