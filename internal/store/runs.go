package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of a recorded run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is one annotate invocation.
type Run struct {
	ID           string
	Source       string
	Output       string
	Status       RunStatus
	StartedAt    time.Time
	FinishedAt   time.Time
	Segments     int
	Words        int
	BatchErrors  int
	ErrorMessage string
	StatsJSON    string
}

// Duration is zero for unfinished runs.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunSummary is what FinishRun records.
type RunSummary struct {
	Output      string
	Status      RunStatus
	Segments    int
	Words       int
	BatchErrors int
	Err         error
	Stats       any
}

var runColumns = []string{
	"id", "source", "output", "status", "started_at", "finished_at",
	"segments", "words", "batch_errors", "error_message", "stats_json",
}

// CreateRun records the start of a run and returns it with a fresh id.
func (s *Store) CreateRun(ctx context.Context, source string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Source:    source,
		Status:    RunRunning,
		StartedAt: time.Now().UTC(),
	}
	insert := sq.Insert("runs").
		Columns("id", "source", "status", "started_at").
		Values(run.ID, run.Source, string(run.Status), formatTime(run.StartedAt))
	if _, err := s.exec(ctx, insert); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun stores the outcome of run id.
func (s *Store) FinishRun(ctx context.Context, id string, summary RunSummary) error {
	status := summary.Status
	if status == "" {
		status = RunCompleted
		if summary.Err != nil {
			status = RunFailed
		}
	}
	var errMessage string
	if summary.Err != nil {
		errMessage = summary.Err.Error()
	}
	var stats any
	if summary.Stats != nil {
		data, err := json.Marshal(summary.Stats)
		if err != nil {
			return fmt.Errorf("marshal run stats: %w", err)
		}
		stats = string(data)
	}
	update := sq.Update("runs").
		Set("output", nullableString(summary.Output)).
		Set("status", string(status)).
		Set("finished_at", formatTime(time.Now())).
		Set("segments", summary.Segments).
		Set("words", summary.Words).
		Set("batch_errors", summary.BatchErrors).
		Set("error_message", nullableString(errMessage)).
		Set("stats_json", stats).
		Where(sq.Eq{"id": id})
	res, err := s.exec(ctx, update)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetRun fetches one run.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	query := sq.Select(runColumns...).From("runs").Where(sq.Eq{"id": id})
	run, err := s.scanRun(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := sq.Select(runColumns...).From("runs").OrderBy("started_at DESC", "rowid DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var runs []Run
	err = retryOnBusy(ctx, func() error {
		runs = runs[:0]
		rows, err := s.db.QueryContext(ctx, sqlText, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			run, err := scanRunRow(rows)
			if err != nil {
				return err
			}
			runs = append(runs, *run)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanRun(ctx context.Context, query sq.SelectBuilder) (*Run, error) {
	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var run *Run
	err = retryOnBusy(ctx, func() error {
		var scanErr error
		run, scanErr = scanRunRow(s.db.QueryRowContext(ctx, sqlText, args...))
		return scanErr
	})
	return run, err
}

func scanRunRow(row rowScanner) (*Run, error) {
	var (
		run        Run
		status     string
		output     sql.NullString
		started    sql.NullString
		finished   sql.NullString
		errMessage sql.NullString
		stats      sql.NullString
	)
	if err := row.Scan(
		&run.ID, &run.Source, &output, &status, &started, &finished,
		&run.Segments, &run.Words, &run.BatchErrors, &errMessage, &stats,
	); err != nil {
		return nil, err
	}
	run.Output = output.String
	run.Status = RunStatus(status)
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	run.ErrorMessage = errMessage.String
	run.StatsJSON = stats.String
	return &run, nil
}
