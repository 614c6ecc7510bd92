package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tidewater/internal/model"
)

func TestQueue_TimeOrder(t *testing.T) {
	q := NewQueue()
	q.Put(New(1, "load", "Load"))
	q.Put(New(5, "unload", "Unload"))
	q.Put(New(3, "cargo", "New Cargo"))

	want := []struct {
		time float64
		info string
	}{{1, "Load"}, {3, "New Cargo"}, {5, "Unload"}}

	for _, w := range want {
		ev, err := q.Get()
		require.NoError(t, err)
		assert.Equal(t, w.time, ev.Time)
		assert.Equal(t, w.info, ev.Payload.Info)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueue_TiesKeepInsertionOrder(t *testing.T) {
	q := NewQueue()
	for _, info := range []string{"A", "B", "C", "D"} {
		q.Put(New(7, KindArrival, info))
	}
	q.Put(New(2, KindTravel, "first"))

	first, err := q.Get()
	require.NoError(t, err)
	assert.Equal(t, "first", first.Payload.Info)

	var got []string
	for q.Len() > 0 {
		ev, err := q.Get()
		require.NoError(t, err)
		got = append(got, ev.Payload.Info)
	}
	assert.Equal(t, []string{"A", "B", "C", "D"}, got)
}

func TestQueue_Empty(t *testing.T) {
	q := NewQueue()

	_, err := q.Get()
	assert.ErrorIs(t, err, ErrEmptyQueue)

	_, err = q.Peek()
	assert.ErrorIs(t, err, ErrEmptyQueue)
}

func TestQueue_Peek(t *testing.T) {
	q := NewQueue()
	q.Put(New(4, KindIdle, "later"))
	q.Put(New(1, KindIdle, "sooner"))

	ev, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, "sooner", ev.Payload.Info)
	assert.Equal(t, 2, q.Len(), "peek must not remove")
}

func TestEvent_String(t *testing.T) {
	ev := Event{
		Time: 12.5,
		Kind: KindArrival,
		Payload: Payload{
			Vessel:   "terror",
			Location: model.Location("B"),
			Phase:    model.Dropoff,
		},
	}
	assert.Equal(t, "12.5 arrival terror@B", ev.String())
	assert.Equal(t, "3 trade_commit t1", New(3, "trade_commit", "t1").String())
	assert.True(t, KindIdle.IsBuiltin())
	assert.False(t, Kind("trade_commit").IsBuiltin())
}
