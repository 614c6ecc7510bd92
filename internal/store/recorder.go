package store

import (
	"context"
	"fmt"

	"github.com/roach88/tidewater/internal/engine"
	"github.com/roach88/tidewater/internal/trace"
)

// Recorder is an engine observer that appends every processed event to a
// run and keeps its digest up to date.
type Recorder struct {
	store  *Store
	runID  string
	hasher *trace.Hasher
	count  int64
}

// NewRecorder begins runID in s and returns an observer recording into it.
func NewRecorder(ctx context.Context, s *Store, runID, scenario string) (*Recorder, error) {
	if err := s.BeginRun(ctx, runID, scenario); err != nil {
		return nil, err
	}
	return &Recorder{store: s, runID: runID, hasher: trace.NewHasher()}, nil
}

// Notify implements engine.Observer.
func (r *Recorder) Notify(ctx context.Context, n engine.Notification) error {
	rec := trace.FromEvent(n.Seq, n.Event)
	if err := r.store.WriteEvent(ctx, r.runID, rec); err != nil {
		return err
	}
	if err := r.hasher.Add(rec); err != nil {
		return fmt.Errorf("digest event %d: %w", n.Seq, err)
	}
	r.count++
	return nil
}

// Count returns the number of events recorded so far.
func (r *Recorder) Count() int64 {
	return r.count
}

// Finish stores the digest of everything recorded and returns it.
func (r *Recorder) Finish(ctx context.Context) (string, error) {
	digest := r.hasher.Sum()
	if err := r.store.FinishRun(ctx, r.runID, digest, r.count); err != nil {
		return "", err
	}
	return digest, nil
}
