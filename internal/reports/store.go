package reports

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"whooshsync/internal/reconcile"
)

// Record is one archived reconciliation run.
type Record struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	FITFile    string    `json:"fit_file"`
	StreamFile string    `json:"stream_file"`
	Score      int       `json:"score"`
}

// Store archives reconciliation reports so comparison runs stay reviewable
// after the fact.
type Store struct {
	db *sql.DB
}

func Open(dir string) (*Store, error) {
	stateDir := filepath.Join(dir, ".whooshsync")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("create .whooshsync dir: %w", err)
	}

	dbPath := filepath.Join(stateDir, "reports.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id          TEXT PRIMARY KEY,
		created_at  DATETIME NOT NULL,
		fit_file    TEXT NOT NULL,
		stream_file TEXT NOT NULL,
		score       INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Save(fitFile, streamFile string, rpt *reconcile.Report) (*Record, error) {
	id, err := generateID()
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(rpt)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.db.Exec(
		"INSERT INTO reports (id, created_at, fit_file, stream_file, score, report_json) VALUES (?, ?, ?, ?, ?, ?)",
		id, now, fitFile, streamFile, rpt.Score, string(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}
	return &Record{ID: id, CreatedAt: now, FITFile: fitFile, StreamFile: streamFile, Score: rpt.Score}, nil
}

func (s *Store) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		"SELECT id, created_at, fit_file, stream_file, score FROM reports ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.FITFile, &r.StreamFile, &r.Score); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) Get(id string) (*Record, *reconcile.Report, error) {
	var r Record
	var raw string
	err := s.db.QueryRow(
		"SELECT id, created_at, fit_file, stream_file, score, report_json FROM reports WHERE id = ?", id,
	).Scan(&r.ID, &r.CreatedAt, &r.FITFile, &r.StreamFile, &r.Score, &raw)
	if err != nil {
		return nil, nil, err
	}

	var rpt reconcile.Report
	if err := json.Unmarshal([]byte(raw), &rpt); err != nil {
		return nil, nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, &rpt, nil
}

func generateID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
