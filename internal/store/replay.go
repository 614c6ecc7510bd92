package store

import (
	"context"
	"fmt"

	"github.com/roach88/tidewater/internal/trace"
)

// RunCheck is the result of re-hashing a stored run.
type RunCheck struct {
	Run RunInfo

	// Recomputed is the digest of the stored events.
	Recomputed string

	// Intact is true when the stored digest matches the stored events.
	Intact bool
}

// CheckRun recomputes the digest of a finished run from its stored events
// and compares it with the digest recorded when the run finished.
func (s *Store) CheckRun(ctx context.Context, runID string) (RunCheck, error) {
	info, err := s.Run(ctx, runID)
	if err != nil {
		return RunCheck{}, fmt.Errorf("check run: %w", err)
	}
	if !info.Finished {
		return RunCheck{}, fmt.Errorf("check run %q: run not finished", runID)
	}

	records, err := s.Events(ctx, runID)
	if err != nil {
		return RunCheck{}, fmt.Errorf("check run: %w", err)
	}
	digest, err := trace.Digest(records)
	if err != nil {
		return RunCheck{}, fmt.Errorf("check run: %w", err)
	}

	return RunCheck{
		Run:        info,
		Recomputed: digest,
		Intact:     digest == info.Digest && int64(len(records)) == info.Events,
	}, nil
}
