package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"framepack/internal/services"
)

const runColumns = "id, mode, status, source, destination, frames, bytes_appended, error_kind, error_message, started_at, finished_at"

// timeLayout is fixed-width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Begin records a new running run. An empty ID is replaced with a fresh UUID.
func (s *Store) Begin(ctx context.Context, run Run) (Run, error) {
	if strings.TrimSpace(run.ID) == "" {
		run.ID = uuid.NewString()
	}
	if run.Mode == "" {
		return Run{}, errors.New("history begin: mode is required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()
	run.Status = StatusRunning
	run.FinishedAt = nil

	_, err := s.execWithRetry(ctx,
		"INSERT INTO runs (id, mode, status, source, destination, started_at) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID, string(run.Mode), string(run.Status),
		nullableString(run.Source), nullableString(run.Destination),
		run.StartedAt.Format(timeLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// Finish marks a run succeeded or failed depending on outcome.Err.
func (s *Store) Finish(ctx context.Context, id string, outcome Outcome) error {
	status := StatusSucceeded
	var kind, message any
	if outcome.Err != nil {
		status = StatusFailed
		kind = services.Kind(outcome.Err)
		message = outcome.Err.Error()
	}
	finished := time.Now().UTC()
	res, err := s.execWithRetry(ctx,
		"UPDATE runs SET status = ?, frames = ?, bytes_appended = ?, error_kind = ?, error_message = ?, finished_at = ? WHERE id = ?",
		string(status), outcome.Frames, outcome.BytesAppended, kind, message, nullableTime(&finished), id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrNotFound)
	}
	return nil
}

// Get returns the run with id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		id            string
		mode          string
		status        string
		source        sql.NullString
		destination   sql.NullString
		frames        int
		bytesAppended int64
		errorKind     sql.NullString
		errorMessage  sql.NullString
		startedRaw    string
		finishedRaw   sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&mode,
		&status,
		&source,
		&destination,
		&frames,
		&bytesAppended,
		&errorKind,
		&errorMessage,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Run{}, err
	}

	run := Run{
		ID:            id,
		Mode:          Mode(mode),
		Status:        Status(status),
		Source:        source.String,
		Destination:   destination.String,
		Frames:        frames,
		BytesAppended: bytesAppended,
		ErrorKind:     errorKind.String,
		ErrorMessage:  errorMessage.String,
	}
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
