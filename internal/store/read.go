package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/tidewater/internal/trace"
)

// ErrRunNotFound is returned when a run ID is not in the log.
var ErrRunNotFound = errors.New("run not found")

// RunInfo summarizes a stored run.
type RunInfo struct {
	ID       string
	Scenario string
	Digest   string
	Events   int64
	Finished bool
}

// Run retrieves a single run by ID.
// Returns ErrRunNotFound if not found.
func (s *Store) Run(ctx context.Context, runID string) (RunInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, scenario, digest, events, finished
		FROM runs
		WHERE run_id = ?
	`, runID)

	info, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunInfo{}, fmt.Errorf("run %q: %w", runID, ErrRunNotFound)
	}
	return info, err
}

// Runs lists every stored run in the order they were begun.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, scenario, digest, events, finished
		FROM runs
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunInfo{}
	for rows.Next() {
		info, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// Events returns the trace of a run ordered by seq.
//
// Returns an empty slice (not nil) if the run has no events.
func (s *Store) Events(ctx context.Context, runID string) ([]trace.Record, error) {
	return s.Find(ctx, runID, Filter{})
}

// EventsOfKind returns the events of one kind within a run, ordered by seq.
func (s *Store) EventsOfKind(ctx context.Context, runID, kind string) ([]trace.Record, error) {
	return s.Find(ctx, runID, Filter{Kind: kind})
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]trace.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	records := []trace.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return records, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunInfo, error) {
	var info RunInfo
	var finished int
	if err := row.Scan(&info.ID, &info.Scenario, &info.Digest, &info.Events, &finished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunInfo{}, err
		}
		return RunInfo{}, fmt.Errorf("scan run: %w", err)
	}
	info.Finished = finished != 0
	return info, nil
}

func scanRecord(row scanner) (trace.Record, error) {
	var r trace.Record
	var t string
	if err := row.Scan(&r.Seq, &t, &r.Kind, &r.Vessel, &r.Trade, &r.Location, &r.Phase, &r.Info); err != nil {
		return trace.Record{}, fmt.Errorf("scan event: %w", err)
	}
	parsed, err := trace.ParseTime(t)
	if err != nil {
		return trace.Record{}, fmt.Errorf("scan event %d: %w", r.Seq, err)
	}
	r.Time = parsed
	return r, nil
}
