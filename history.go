package main

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryStore is the durable ledger of completed downloads, kept in
// SQLite. Unlike the job store it survives restarts and has no TTL.
type HistoryStore struct {
	db *sql.DB
}

func newHistoryStore(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &HistoryStore{db: db}, nil
}

func (s *HistoryStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS downloads (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	title TEXT NOT NULL,
	filename TEXT NOT NULL,
	completed_at TIMESTAMP NOT NULL
);`)
	return err
}

// HistoryEntry is one completed download as reported by the history
// endpoint.
type HistoryEntry struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	CompletedAt time.Time `json:"completed_at"`
}

// Record inserts one completed job. Re-recording the same job ID
// refreshes the row.
func (s *HistoryStore) Record(ctx context.Context, job *DownloadJob) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO downloads (id, url, title, filename, completed_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	url = excluded.url,
	title = excluded.title,
	filename = excluded.filename,
	completed_at = excluded.completed_at;`,
		job.ID, job.URL, job.Result.Title, job.Result.Filename, job.CompletedAt.UTC())
	return err
}

// Recent returns the newest completed downloads, most recent first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, url, title, filename, completed_at
FROM downloads
ORDER BY completed_at DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.URL, &e.Title, &e.Filename, &e.CompletedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}
