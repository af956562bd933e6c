package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// UploadEntry records one upload outcome. A duplicate-confirmed upload is
// recorded with the same status as a success; the activity exists remotely
// either way.
type UploadEntry struct {
	UploadedAt string `json:"uploaded_at"`
	Status     string `json:"status"`
}

type DownloadEntry struct {
	DownloadedAt string `json:"downloaded_at"`
}

type history struct {
	Uploaded   map[string]UploadEntry   `json:"uploaded"`
	Downloaded map[string]DownloadEntry `json:"downloaded"`
}

// Ledger is the durable record of which files have been downloaded and
// uploaded. Every mutation is flushed to disk before the call returns, so a
// crash after a mark never loses that fact. Entries are never removed by the
// pipeline.
type Ledger struct {
	path string
	data history
}

func Open(path string) (*Ledger, error) {
	l := &Ledger{
		path: path,
		data: history{
			Uploaded:   map[string]UploadEntry{},
			Downloaded: map[string]DownloadEntry{},
		},
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if err := json.Unmarshal(raw, &l.data); err != nil {
		return nil, fmt.Errorf("parse history file: %w", err)
	}
	if l.data.Uploaded == nil {
		l.data.Uploaded = map[string]UploadEntry{}
	}
	if l.data.Downloaded == nil {
		l.data.Downloaded = map[string]DownloadEntry{}
	}
	return l, nil
}

func (l *Ledger) IsUploaded(name string) bool {
	_, ok := l.data.Uploaded[name]
	return ok
}

func (l *Ledger) MarkUploaded(name string) error {
	l.data.Uploaded[name] = UploadEntry{
		UploadedAt: time.Now().Format(time.RFC3339),
		Status:     "success",
	}
	return l.save()
}

func (l *Ledger) IsDownloaded(name string) bool {
	_, ok := l.data.Downloaded[name]
	return ok
}

func (l *Ledger) MarkDownloaded(name string) error {
	l.data.Downloaded[name] = DownloadEntry{
		DownloadedAt: time.Now().Format(time.RFC3339),
	}
	return l.save()
}

// Uploaded returns a copy of the upload side of the ledger.
func (l *Ledger) Uploaded() map[string]UploadEntry {
	out := make(map[string]UploadEntry, len(l.data.Uploaded))
	for k, v := range l.data.Uploaded {
		out[k] = v
	}
	return out
}

// Downloaded returns a copy of the download side of the ledger.
func (l *Ledger) Downloaded() map[string]DownloadEntry {
	out := make(map[string]DownloadEntry, len(l.data.Downloaded))
	for k, v := range l.data.Downloaded {
		out[k] = v
	}
	return out
}

func (l *Ledger) save() error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}
	raw, err := json.MarshalIndent(l.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(l.path, raw, 0644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}
