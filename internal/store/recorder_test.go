package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tidewater/internal/engine"
	"github.com/roach88/tidewater/internal/model"
	"github.com/roach88/tidewater/internal/testutil"
	"github.com/roach88/tidewater/internal/trace"
)

func TestRecorder_RecordsEngineRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	e := engine.New(testutil.LineNetwork(), engine.WithRunID(testutil.NewFixedRunIDGenerator("run-1")))
	rec, err := NewRecorder(ctx, s, e.RunID(), "two-trades")
	require.NoError(t, err)
	e.RegisterObserver(rec)

	sched, err := e.AddVessel(testutil.Tanker("terror", "A"))
	require.NoError(t, err)
	require.NoError(t, sched.AddTransportation(testutil.Trade("t1", "A", "B", 10, model.TimeWindow{})))
	require.NoError(t, e.Commit("terror", sched))
	require.NoError(t, e.Run(ctx))

	digest, err := rec.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), rec.Count())

	got, err := s.Events(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "arrival", got[0].Kind)
	assert.Equal(t, "PICK_UP", got[0].Phase)
	assert.Equal(t, "t1", got[0].Trade)
	assert.Equal(t, 14.0, got[4].Time)
	assert.Equal(t, "DROP_OFF", got[4].Phase)

	want, err := trace.Digest(got)
	require.NoError(t, err)
	assert.Equal(t, want, digest, "stored events hash to the streamed digest")

	check, err := s.CheckRun(ctx, "run-1")
	require.NoError(t, err)
	assert.True(t, check.Intact)
}

func TestRecorder_FinishUnknownRun(t *testing.T) {
	s := createTestStore(t)
	r := &Recorder{store: s, runID: "ghost", hasher: trace.NewHasher()}
	_, err := r.Finish(context.Background())
	assert.ErrorIs(t, err, ErrRunNotFound)
}
