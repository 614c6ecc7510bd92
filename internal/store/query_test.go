package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tidewater/internal/trace"
)

func TestFilter_Compile(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		sql    string
		params []any
	}{
		{
			name:   "empty",
			filter: Filter{},
			sql:    "SELECT seq, time, kind, vessel, trade, location, phase, info FROM events WHERE run_id = ? ORDER BY seq ASC",
			params: []any{"run-1"},
		},
		{
			name:   "fixed column order",
			filter: Filter{Phase: "PICK_UP", Kind: "arrival", Vessel: "terror"},
			sql:    "SELECT seq, time, kind, vessel, trade, location, phase, info FROM events WHERE run_id = ? AND kind = ? AND vessel = ? AND phase = ? ORDER BY seq ASC",
			params: []any{"run-1", "arrival", "terror", "PICK_UP"},
		},
		{
			name:   "paging",
			filter: Filter{Trade: "t1", AfterSeq: 4, Limit: 2},
			sql:    "SELECT seq, time, kind, vessel, trade, location, phase, info FROM events WHERE run_id = ? AND trade = ? AND seq > ? ORDER BY seq ASC LIMIT ?",
			params: []any{"run-1", "t1", int64(4), 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := tt.filter.compile("run-1")
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.params, params)
		})
	}
}

func TestFilter_CompileRejectsNegative(t *testing.T) {
	_, _, err := Filter{AfterSeq: -1}.compile("run-1")
	assert.ErrorContains(t, err, "after seq")
	_, _, err = Filter{Limit: -1}.compile("run-1")
	assert.ErrorContains(t, err, "limit")
}

func TestFind(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.BeginRun(ctx, "run-1", "x"))

	records := []trace.Record{
		{Seq: 1, Time: 0, Kind: "arrival", Vessel: "terror", Trade: "t1", Location: "A", Phase: "PICK_UP"},
		{Seq: 2, Time: 2, Kind: "cargo_transfer", Vessel: "terror", Trade: "t1", Location: "A", Phase: "PICK_UP"},
		{Seq: 3, Time: 3, Kind: "arrival", Vessel: "erebus", Trade: "t2", Location: "C", Phase: "PICK_UP"},
		{Seq: 4, Time: 12, Kind: "travel", Vessel: "terror", Trade: "t1", Location: "B", Phase: "DROP_OFF"},
		{Seq: 5, Time: 12, Kind: "arrival", Vessel: "terror", Trade: "t1", Location: "B", Phase: "DROP_OFF"},
	}
	for _, r := range records {
		require.NoError(t, s.WriteEvent(ctx, "run-1", r))
	}

	seqs := func(f Filter) []int64 {
		got, err := s.Find(ctx, "run-1", f)
		require.NoError(t, err)
		out := []int64{}
		for _, r := range got {
			out = append(out, r.Seq)
		}
		return out
	}

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, seqs(Filter{}))
	assert.Equal(t, []int64{1, 2, 4, 5}, seqs(Filter{Vessel: "terror"}))
	assert.Equal(t, []int64{1, 3, 5}, seqs(Filter{Kind: "arrival"}))
	assert.Equal(t, []int64{4, 5}, seqs(Filter{Trade: "t1", Phase: "DROP_OFF"}))
	assert.Equal(t, []int64{3}, seqs(Filter{Location: "C"}))
	assert.Equal(t, []int64{3, 4}, seqs(Filter{AfterSeq: 2, Limit: 2}))
	assert.Equal(t, []int64{}, seqs(Filter{Vessel: "nobody"}))

	_, err := s.Find(ctx, "run-1", Filter{Limit: -3})
	assert.Error(t, err)
}
