package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/tidewater/internal/trace"
)

// Filter selects events of one run. Empty fields match every event.
type Filter struct {
	Kind     string
	Vessel   string
	Trade    string
	Location string
	Phase    string

	// AfterSeq skips events up to and including this seq.
	AfterSeq int64

	// Limit caps the number of events returned. Zero means no limit.
	Limit int
}

// compile turns f into parameterized SQL over the events of runID.
// Values are never interpolated and every query orders by seq so reads are
// deterministic.
func (f Filter) compile(runID string) (string, []any, error) {
	if f.AfterSeq < 0 {
		return "", nil, fmt.Errorf("after seq must not be negative, got %d", f.AfterSeq)
	}
	if f.Limit < 0 {
		return "", nil, fmt.Errorf("limit must not be negative, got %d", f.Limit)
	}

	where := []string{"run_id = ?"}
	params := []any{runID}

	// Column order is fixed so identical filters compile identically.
	for _, eq := range []struct{ column, value string }{
		{"kind", f.Kind},
		{"vessel", f.Vessel},
		{"trade", f.Trade},
		{"location", f.Location},
		{"phase", f.Phase},
	} {
		if eq.value == "" {
			continue
		}
		where = append(where, eq.column+" = ?")
		params = append(params, eq.value)
	}
	if f.AfterSeq > 0 {
		where = append(where, "seq > ?")
		params = append(params, f.AfterSeq)
	}

	var b strings.Builder
	b.WriteString("SELECT seq, time, kind, vessel, trade, location, phase, info FROM events WHERE ")
	b.WriteString(strings.Join(where, " AND "))
	b.WriteString(" ORDER BY seq ASC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, f.Limit)
	}
	return b.String(), params, nil
}

// Find returns the events of a run that match f, ordered by seq.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) Find(ctx context.Context, runID string, f Filter) ([]trace.Record, error) {
	query, params, err := f.compile(runID)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	return s.queryEvents(ctx, query, params...)
}
