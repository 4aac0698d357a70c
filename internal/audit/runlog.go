// Package audit records what each import run did, so the reporting
// layer and the stats command can show where the data came from.
package audit

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Run is one import run's summary.
type Run struct {
	ID         int64
	Source     string
	Accepted   int
	Filtered   int
	Skipped    int
	Facts      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is the wall time the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Record writes the run summary inside the import transaction, so the
// summary commits if and only if the imported data does.
func Record(tx *sqlx.Tx, run Run) error {
	_, err := tx.Exec(
		tx.Rebind(`INSERT INTO import_run (source, accepted, filtered, skipped, facts, started_at, finished_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
		run.Source, run.Accepted, run.Filtered, run.Skipped, run.Facts,
		run.StartedAt.Format(time.RFC3339),
		run.FinishedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record import run: %w", err)
	}
	return nil
}

// LastRun returns the most recent run summary, or nil when no import has
// run against this store.
func LastRun(db *sqlx.DB) (*Run, error) {
	var (
		run      Run
		started  string
		finished string
	)
	err := db.QueryRow(
		`SELECT id, source, accepted, filtered, skipped, facts, started_at, finished_at
			FROM import_run ORDER BY id DESC LIMIT 1`,
	).Scan(&run.ID, &run.Source, &run.Accepted, &run.Filtered, &run.Skipped, &run.Facts, &started, &finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read last import run: %w", err)
	}

	if run.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
		return nil, fmt.Errorf("failed to parse run start time %q: %w", started, err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
		return nil, fmt.Errorf("failed to parse run finish time %q: %w", finished, err)
	}
	return &run, nil
}
