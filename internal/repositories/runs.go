package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"stationport/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS import_runs (
	id TEXT PRIMARY KEY,
	playlist_name TEXT NOT NULL,
	created_playlist_id TEXT NOT NULL DEFAULT '',
	requested INTEGER NOT NULL,
	matched INTEGER NOT NULL,
	added INTEGER NOT NULL,
	threshold REAL NOT NULL,
	phase TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS unmatched_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES import_runs(id),
	title TEXT NOT NULL,
	artist TEXT NOT NULL,
	best_score REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_unmatched_run_id ON unmatched_entries(run_id);
`

// RunRepository handles database operations for import run history.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Migrate creates the history tables if they do not exist.
func (r *RunRepository) Migrate() error {
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// Create inserts a finished run and its unmatched entries in one transaction.
func (r *RunRepository) Create(run *models.ImportRun, unmatched []models.UnmatchedEntry) error {
	if err := run.Validate(); err != nil {
		return err
	}

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO import_runs (id, playlist_name, created_playlist_id, requested, matched, added, threshold, phase, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.PlaylistName, run.CreatedPlaylistID,
		run.Requested, run.Matched, run.Added, run.Threshold, run.Phase, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, entry := range unmatched {
		_, err = tx.Exec(
			`INSERT INTO unmatched_entries (run_id, title, artist, best_score) VALUES (?, ?, ?, ?)`,
			run.RunID, entry.Entry.Title, entry.Entry.Artist, entry.BestScore,
		)
		if err != nil {
			return fmt.Errorf("failed to insert unmatched entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// Get retrieves a run by its id.
func (r *RunRepository) Get(runID string) (*models.ImportRun, error) {
	row := r.db.QueryRow(
		`SELECT id, playlist_name, created_playlist_id, requested, matched, added, threshold, phase, created_at
		 FROM import_runs WHERE id = ?`, runID,
	)

	var run models.ImportRun
	err := row.Scan(
		&run.RunID, &run.PlaylistName, &run.CreatedPlaylistID,
		&run.Requested, &run.Matched, &run.Added, &run.Threshold, &run.Phase, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &run, nil
}

// List retrieves the most recent runs, newest first.
func (r *RunRepository) List(limit int) ([]models.ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(
		`SELECT id, playlist_name, created_playlist_id, requested, matched, added, threshold, phase, created_at
		 FROM import_runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.ImportRun
	for rows.Next() {
		var run models.ImportRun
		err := rows.Scan(
			&run.RunID, &run.PlaylistName, &run.CreatedPlaylistID,
			&run.Requested, &run.Matched, &run.Added, &run.Threshold, &run.Phase, &run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// UnmatchedFor retrieves the unmatched entries recorded for a run.
func (r *RunRepository) UnmatchedFor(runID string) ([]models.UnmatchedEntry, error) {
	rows, err := r.db.Query(
		`SELECT title, artist, best_score FROM unmatched_entries WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmatched entries: %w", err)
	}
	defer rows.Close()

	var entries []models.UnmatchedEntry
	for rows.Next() {
		var entry models.UnmatchedEntry
		if err := rows.Scan(&entry.Entry.Title, &entry.Entry.Artist, &entry.BestScore); err != nil {
			return nil, fmt.Errorf("failed to scan unmatched entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
