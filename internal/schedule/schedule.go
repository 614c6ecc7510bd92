// Package schedule turns the ordered pickup and dropoff tasks of one vessel
// into a temporal network and consumes it one event at a time.
//
// Each task index holds one phase of one trade. Inserting a trade adds two
// tasks; the engine consumes them through Pop, which removes a task once its
// cargo transfer has been emitted and closes the gap so indices stay 1..N.
//
// Speculative planning works on Copy. The committed schedule is only ever
// changed by the engine loop.
package schedule

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/tidewater/internal/model"
	"github.com/roach88/tidewater/internal/stn"
)

// epsilon absorbs floating point noise when comparing solved times.
const epsilon = 1e-9

// Environment is what a schedule needs from the outside world.
type Environment interface {
	// Now is the current simulation time.
	Now() float64

	// Distance between two locations. Must be deterministic and non-negative.
	Distance(a, b model.Location) float64
}

// Task is the payload stored in every network slot.
type Task struct {
	Trade    *model.Trade
	Phase    model.Phase
	Location model.Location
	Duration float64
}

// Entry is one line of the simple schedule.
type Entry struct {
	Phase model.Phase
	Trade *model.Trade
}

// PlannedTask is a task together with its solved start window.
type PlannedTask struct {
	Index         int
	Task          Task
	EarliestStart float64
	LatestStart   float64
}

type cursor struct {
	time     float64
	location model.Location
}

type voyage struct {
	from, to        model.Location
	departs, arrives float64
}

// Schedule is the plan of one vessel.
type Schedule struct {
	vessel *model.Vessel
	env    Environment
	net    *stn.Graph[Task]

	// cursor is where and when the last emitted event leaves the vessel.
	cursor *cursor

	// arrived is set once the START of task 1 has been consumed.
	arrived   bool
	arrivedAt float64

	voyage *voyage

	// ledger is the committed cargo aboard once every emitted transfer
	// completes.
	ledger map[string]float64
}

// New creates an empty schedule for vessel. The cargo ledger starts from the
// vessel's current hold.
func New(vessel *model.Vessel, env Environment) *Schedule {
	return &Schedule{
		vessel: vessel,
		env:    env,
		net:    stn.New[Task](),
		ledger: vessel.HoldSnapshot(),
	}
}

// Vessel returns the vessel this schedule belongs to.
func (s *Schedule) Vessel() *model.Vessel {
	return s.vessel
}

// Len returns the number of remaining tasks.
func (s *Schedule) Len() int {
	return s.net.Len()
}

// Arrived reports whether the vessel has started on task 1.
func (s *Schedule) Arrived() bool {
	return s.arrived
}

// Copy returns an independent schedule. Trades, the vessel and the
// environment are shared; everything else is duplicated.
func (s *Schedule) Copy() *Schedule {
	c := &Schedule{
		vessel:    s.vessel,
		env:       s.env,
		net:       s.net.Clone(),
		arrived:   s.arrived,
		arrivedAt: s.arrivedAt,
		ledger:    make(map[string]float64, len(s.ledger)),
	}
	if s.cursor != nil {
		cur := *s.cursor
		c.cursor = &cur
	}
	if s.voyage != nil {
		v := *s.voyage
		c.voyage = &v
	}
	for k, q := range s.ledger {
		c.ledger[k] = q
	}
	return c
}

// task returns the payload at index i.
func (s *Schedule) task(i int) Task {
	t, _ := s.net.Task(i)
	return t
}

// travelTime converts the distance between two locations into a duration.
func (s *Schedule) travelTime(a, b model.Location) float64 {
	if a == b {
		return 0
	}
	return s.vessel.TravelTime(s.env.Distance(a, b))
}

// baseline is the time and place from which remaining work starts. It is
// never earlier than the environment clock.
func (s *Schedule) baseline() (float64, model.Location) {
	now := s.env.Now()
	if s.cursor == nil {
		return now, s.vessel.Location
	}
	return math.Max(now, s.cursor.time), s.cursor.location
}

// idleAllowed reports whether the vessel may wait before starting t.
func idleAllowed(t Task) bool {
	return t.Trade.Window.Earliest(t.Phase).Set
}

// anchor ties task 1 to the current position and clock. The edges are
// passed to each solve and never stored.
func (s *Schedule) anchor() []stn.Edge {
	if s.net.Len() == 0 {
		return nil
	}
	first := stn.StartOf(1)
	if s.arrived {
		return []stn.Edge{
			{From: first, To: stn.Ref, Weight: -s.arrivedAt, Kind: stn.Anchor},
			{From: stn.Ref, To: first, Weight: s.arrivedAt, Kind: stn.Anchor},
		}
	}
	t0, loc := s.baseline()
	t := s.task(1)
	lead := t0 + s.travelTime(loc, t.Location)
	edges := []stn.Edge{{From: first, To: stn.Ref, Weight: -lead, Kind: stn.Anchor}}
	if !idleAllowed(t) {
		edges = append(edges, stn.Edge{From: stn.Ref, To: first, Weight: lead, Kind: stn.Anchor})
	}
	return edges
}

func (s *Schedule) solve(opts ...stn.SolveOption) *stn.Solution {
	return s.net.Solve(append([]stn.SolveOption{stn.WithEdges(s.anchor()...)}, opts...)...)
}

// Verify reports whether the remaining plan is feasible: the network has no
// negative cycle and, visiting tasks in order of earliest start, the cargo
// of every type stays within [0, capacity].
func (s *Schedule) Verify() bool {
	if s.net.Len() == 0 {
		return true
	}
	sol := s.solve()
	if !sol.Consistent {
		return false
	}
	return s.cargoFeasible(sol)
}

func (s *Schedule) cargoFeasible(sol *stn.Solution) bool {
	order := s.net.Indices()
	sort.SliceStable(order, func(a, b int) bool {
		ta := sol.Earliest(stn.StartOf(order[a]))
		tb := sol.Earliest(stn.StartOf(order[b]))
		if ta != tb {
			return ta < tb
		}
		return order[a] < order[b]
	})

	running := make(map[string]float64, len(s.ledger))
	for k, q := range s.ledger {
		running[k] = q
	}
	for _, i := range order {
		t := s.task(i)
		cargo := t.Trade.CargoType
		switch t.Phase {
		case model.Pickup:
			running[cargo] += t.Trade.Amount
			if running[cargo] > s.vessel.Capacity(cargo)+epsilon {
				return false
			}
		case model.Dropoff:
			running[cargo] -= t.Trade.Amount
			if running[cargo] < -epsilon {
				return false
			}
		}
	}
	return true
}

// CompletionTime is the earliest time at which the last task can finish.
// It is +Inf when the plan is temporally infeasible and the baseline time
// when nothing is planned.
func (s *Schedule) CompletionTime() float64 {
	n := s.net.Len()
	if n == 0 {
		t, _ := s.baseline()
		return t
	}
	sol := s.solve()
	if !sol.Consistent {
		return math.Inf(1)
	}
	return sol.Earliest(stn.FinishOf(n))
}

// ArrivalTimeAt estimates when the vessel could reach loc after finishing
// everything it has planned.
func (s *Schedule) ArrivalTimeAt(loc model.Location) float64 {
	n := s.net.Len()
	if n == 0 {
		t, from := s.baseline()
		return t + s.travelTime(from, loc)
	}
	return s.CompletionTime() + s.travelTime(s.task(n).Location, loc)
}

// SimpleSchedule lists (phase, trade) pairs in index order.
func (s *Schedule) SimpleSchedule() []Entry {
	idx := s.net.Indices()
	out := make([]Entry, 0, len(idx))
	for _, i := range idx {
		t := s.task(i)
		out = append(out, Entry{Phase: t.Phase, Trade: t.Trade})
	}
	return out
}

// Tasks returns every task with its solved start window. When the plan is
// infeasible the windows come from the network with deadlines relaxed.
func (s *Schedule) Tasks() []PlannedTask {
	sol := s.solve()
	if !sol.Consistent {
		sol = s.solve(stn.Ignoring(stn.Latest))
	}
	idx := s.net.Indices()
	out := make([]PlannedTask, 0, len(idx))
	for _, i := range idx {
		out = append(out, PlannedTask{
			Index:         i,
			Task:          s.task(i),
			EarliestStart: sol.Earliest(stn.StartOf(i)),
			LatestStart:   sol.Latest(stn.StartOf(i)),
		})
	}
	return out
}

// Network exposes the solved network without the position anchor, for
// diagnostics.
func (s *Schedule) Network() *stn.Solution {
	return s.net.Solve()
}

// DistanceMatrix is the shortest path matrix of Network, row and column 0
// being the reference node.
func (s *Schedule) DistanceMatrix() *mat.Dense {
	return s.Network().Matrix()
}

// Ledger returns the committed cargo quantities.
func (s *Schedule) Ledger() map[string]float64 {
	out := make(map[string]float64, len(s.ledger))
	for k, q := range s.ledger {
		out[k] = q
	}
	return out
}
