package persistence

import (
	"database/sql"
	"fmt"
	"time"
)

// Run statuses recorded in history.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// RunRecord describes one generator run.
type RunRecord struct {
	ID               string
	CreatedAt        time.Time
	AppName          string
	Environment      string
	Provider         string
	Model            string
	Status           string
	Error            string
	PromptTokens     int
	CompletionTokens int
	ChangeCount      int
	Duration         time.Duration
}

// InsertRun records a completed run.
func (s *Store) InsertRun(rec *RunRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (id, created_at, app_name, environment, provider, model,
			status, error, prompt_tokens, completion_tokens, change_count, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.AppName,
		rec.Environment,
		rec.Provider,
		rec.Model,
		rec.Status,
		rec.Error,
		rec.PromptTokens,
		rec.CompletionTokens,
		rec.ChangeCount,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}
	s.logger.Debug("recorded run %s (%s/%s, status=%s)", rec.ID, rec.AppName, rec.Environment, rec.Status)
	return nil
}

// RecentRuns returns the most recent runs for an app/environment pair,
// newest first.
func (s *Store) RecentRuns(appName, environment string, limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, app_name, environment, provider, model,
			status, error, prompt_tokens, completion_tokens, change_count, duration_ms
		FROM runs
		WHERE app_name = ? AND environment = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		appName, environment, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return records, nil
}

func scanRun(rows *sql.Rows) (RunRecord, error) {
	var rec RunRecord
	var createdAt string
	var durationMS int64

	err := rows.Scan(&rec.ID, &createdAt, &rec.AppName, &rec.Environment,
		&rec.Provider, &rec.Model, &rec.Status, &rec.Error,
		&rec.PromptTokens, &rec.CompletionTokens, &rec.ChangeCount, &durationMS)
	if err != nil {
		return RunRecord{}, fmt.Errorf("failed to scan run record: %w", err)
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return RunRecord{}, fmt.Errorf("failed to parse run timestamp: %w", err)
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	return rec, nil
}
