package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunStatus tracks the lifecycle of an asynchronous import run.
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusSucceeded      RunStatus = "succeeded"
	RunStatusPartialFailure RunStatus = "partial_failure"
	RunStatusFailed         RunStatus = "failed"
)

// Run records one asynchronous import for the admin surface.
type Run struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Status     RunStatus  `json:"status"`
	Total      int        `json:"total"`
	Accepted   int        `json:"accepted"`
	Inserted   int        `json:"inserted"`
	Failed     int        `json:"failed"`
	Error      string     `json:"error,omitempty"`
	EnqueuedAt time.Time  `json:"enqueuedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// RunStore persists import runs.
type RunStore interface {
	Insert(ctx context.Context, run Run) error
	Finish(ctx context.Context, id string, status RunStatus, report Report, errText string) error
	List(ctx context.Context, limit int) ([]Run, error)
}

type runStore struct {
	db *pgxpool.Pool
}

// NewRunStore constructs the PostgreSQL-backed run store.
func NewRunStore(db *pgxpool.Pool) RunStore {
	return &runStore{db: db}
}

func (s *runStore) Insert(ctx context.Context, run Run) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO import_runs (id, source, status, total_rows, accepted, inserted, failed, error, enqueued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID, run.Source, string(run.Status), run.Total, run.Accepted, run.Inserted,
		run.Failed, run.Error, run.EnqueuedAt,
	)
	if err != nil {
		return fmt.Errorf("importer: insert run: %w", err)
	}
	return nil
}

func (s *runStore) Finish(ctx context.Context, id string, status RunStatus, report Report, errText string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE import_runs
		SET status = $2, total_rows = $3, accepted = $4, inserted = $5, failed = $6, error = $7, finished_at = now()
		WHERE id = $1`,
		id, string(status), report.Total, report.Accepted, report.Inserted, report.Failed, errText,
	)
	if err != nil {
		return fmt.Errorf("importer: finish run: %w", err)
	}
	return nil
}

func (s *runStore) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, source, status, total_rows, accepted, inserted, failed, error, enqueued_at, finished_at
		FROM import_runs ORDER BY enqueued_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("importer: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run    Run
			status string
		)
		if err := rows.Scan(&run.ID, &run.Source, &status, &run.Total, &run.Accepted,
			&run.Inserted, &run.Failed, &run.Error, &run.EnqueuedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		run.Status = RunStatus(status)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// StatusForReport derives the run status from an executed report.
func StatusForReport(report Report) RunStatus {
	switch {
	case report.Failed == 0:
		return RunStatusSucceeded
	case report.Inserted > 0:
		return RunStatusPartialFailure
	default:
		return RunStatusFailed
	}
}
