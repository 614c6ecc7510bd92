package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/tidewater/internal/trace"
)

// BeginRun registers a run. Uses ON CONFLICT(run_id) DO NOTHING so that a
// run can be resumed under the same ID.
func (s *Store) BeginRun(ctx context.Context, runID, scenario string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, scenario)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`, runID, scenario)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// WriteEvent appends one trace record to a run. Duplicate (run_id, seq)
// pairs are silently ignored.
//
// Note: The run must exist (foreign key constraint).
func (s *Store) WriteEvent(ctx context.Context, runID string, r trace.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events
		(run_id, seq, time, kind, vessel, trade, location, phase, info)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		runID,
		r.Seq,
		trace.FormatTime(r.Time),
		r.Kind,
		r.Vessel,
		r.Trade,
		r.Location,
		r.Phase,
		r.Info,
	)
	if err != nil {
		return fmt.Errorf("write event %d: %w", r.Seq, err)
	}
	return nil
}

// WriteRun stores a complete run in one transaction: the run row, every
// record and the finished digest.
func (s *Store) WriteRun(ctx context.Context, runID, scenario string, records []trace.Record) (string, error) {
	digest, err := trace.Digest(records)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, scenario)
		VALUES (?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`, runID, scenario); err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events
		(run_id, seq, time, kind, vessel, trade, location, phase, info)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`)
	if err != nil {
		return "", fmt.Errorf("write run: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			runID, r.Seq, trace.FormatTime(r.Time), r.Kind,
			r.Vessel, r.Trade, r.Location, r.Phase, r.Info,
		); err != nil {
			return "", fmt.Errorf("write run: event %d: %w", r.Seq, err)
		}
	}

	if err := finishRun(ctx, tx, runID, digest, int64(len(records))); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write run: commit: %w", err)
	}
	return digest, nil
}

// FinishRun marks a run complete with its trace digest and event count.
func (s *Store) FinishRun(ctx context.Context, runID, digest string, events int64) error {
	return finishRun(ctx, s.db, runID, digest, events)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func finishRun(ctx context.Context, db execer, runID, digest string, events int64) error {
	res, err := db.ExecContext(ctx, `
		UPDATE runs SET digest = ?, events = ?, finished = 1
		WHERE run_id = ?
	`, digest, events, runID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %q: %w", runID, ErrRunNotFound)
	}
	return nil
}
