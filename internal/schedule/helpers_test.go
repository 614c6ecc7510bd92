package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tidewater/internal/event"
	"github.com/roach88/tidewater/internal/model"
	"github.com/roach88/tidewater/internal/testutil"
)

// step is an expected Pop result.
type step struct {
	kind event.Kind
	time float64
}

func travel(t float64) step   { return step{event.KindTravel, t} }
func arrive(t float64) step   { return step{event.KindArrival, t} }
func transfer(t float64) step { return step{event.KindCargoTransfer, t} }
func idle(t float64) step     { return step{event.KindIdle, t} }

// popFixture is the four-trade line scenario: A->B, C->D, D->E, F->G with
// the windows of trades 3 and 4 supplied by the caller.
type popFixture struct {
	env    *testutil.Env
	vessel *model.Vessel
	s      *Schedule
	t1     *model.Trade
	t2     *model.Trade
	t3     *model.Trade
	t4     *model.Trade
}

func newPopFixture(w3, w4 model.TimeWindow) *popFixture {
	env := testutil.NewEnv(testutil.LineNetwork())
	vessel := testutil.Tanker("terror", "A")
	return &popFixture{
		env:    env,
		vessel: vessel,
		s:      New(vessel, env),
		t1:     testutil.Trade("t1", "A", "B", 10, model.TimeWindow{}),
		t2:     testutil.Trade("t2", "C", "D", 10, model.TimeWindow{}),
		t3:     testutil.Trade("t3", "D", "E", 10, w3),
		t4:     testutil.Trade("t4", "F", "G", 10, w4),
	}
}

// load reproduces the insertion sequence shared by the pop tests: trades 1
// and 2 up front, a first arrival, trade 4 at the end, the first transfer,
// then trade 3 squeezed in between trades 2 and 4.
func (f *popFixture) load(t *testing.T) {
	t.Helper()
	require.NoError(t, f.s.AddTransportation(f.t1, AtPickup(1)))
	require.NoError(t, f.s.AddTransportation(f.t2, AtPickup(3)))

	ev, err := f.s.Pop()
	require.NoError(t, err)
	require.Equal(t, event.KindArrival, ev.Kind)

	require.NoError(t, f.s.AddTransportation(f.t4, AtPickup(5)))

	ev, err = f.s.Pop()
	require.NoError(t, err)
	require.Equal(t, event.KindCargoTransfer, ev.Kind)

	require.NoError(t, f.s.AddTransportation(f.t3, AtPickup(4)))
}

// simple renders the simple schedule as "PHASE id" strings.
func simple(s *Schedule) []string {
	out := []string{}
	for _, e := range s.SimpleSchedule() {
		out = append(out, fmt.Sprintf("%s %s", e.Phase, e.Trade.ID))
	}
	return out
}
