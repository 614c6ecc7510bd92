package schedule

import (
	"fmt"

	"github.com/roach88/tidewater/internal/model"
	"github.com/roach88/tidewater/internal/stn"
)

// PlacementOption chooses where AddTransportation inserts a trade.
type PlacementOption func(*placement)

type placement struct {
	pickup, dropoff       int
	hasPickup, hasDropoff bool
}

// AtPickup places the pickup before the task currently at index i.
// Len()+1 appends.
func AtPickup(i int) PlacementOption {
	return func(p *placement) {
		p.pickup = i
		p.hasPickup = true
	}
}

// AtDropoff places the dropoff before the task currently at index i,
// counted before the pickup is inserted. Len()+1 appends. The dropoff always
// lands after the pickup.
func AtDropoff(i int) PlacementOption {
	return func(p *placement) {
		p.dropoff = i
		p.hasDropoff = true
	}
}

// firstFree is the lowest index an insertion may target.
func (s *Schedule) firstFree() int {
	if s.arrived {
		return 2
	}
	return 1
}

// AddTransportation inserts the pickup and dropoff of trade. By default the
// pickup is appended and the dropoff follows it directly.
func (s *Schedule) AddTransportation(trade *model.Trade, opts ...PlacementOption) error {
	if trade == nil {
		return ErrNilTrade
	}
	if err := trade.Validate(); err != nil {
		return fmt.Errorf("add transportation: %w", err)
	}

	n := s.net.Len()
	p := placement{pickup: n + 1}
	for _, opt := range opts {
		opt(&p)
	}
	if !p.hasDropoff {
		p.dropoff = p.pickup
	}

	if err := s.checkIndex("pickup", p.pickup, n+1); err != nil {
		return err
	}
	if p.dropoff < p.pickup || p.dropoff > n+1 {
		return &IndexError{Op: "dropoff", Index: p.dropoff, Min: p.pickup, Max: n + 1, Err: ErrIndexRange}
	}

	if err := s.insert(p.pickup, trade, model.Pickup); err != nil {
		return err
	}
	return s.insert(p.dropoff+1, trade, model.Dropoff)
}

// InsertTask places a single phase of trade at index i. Most callers want
// AddTransportation, which keeps pickup and dropoff paired.
func (s *Schedule) InsertTask(i int, trade *model.Trade, phase model.Phase) error {
	if trade == nil {
		return ErrNilTrade
	}
	if err := s.checkIndex("task", i, s.net.Len()+1); err != nil {
		return err
	}
	return s.insert(i, trade, phase)
}

func (s *Schedule) checkIndex(op string, i, max int) error {
	first := s.firstFree()
	switch {
	case i < 1 || i > max:
		return &IndexError{Op: op, Index: i, Min: first, Max: max, Err: ErrIndexRange}
	case i < first:
		return &IndexError{Op: op, Index: i, Min: first, Max: max, Err: ErrConsumedSlot}
	}
	return nil
}

// insert shifts indices >= i up by one and wires the new task in.
func (s *Schedule) insert(i int, trade *model.Trade, phase model.Phase) error {
	t := Task{
		Trade:    trade,
		Phase:    phase,
		Location: trade.LocationFor(phase),
		Duration: s.vessel.ServiceTime(trade.CargoType, trade.Amount),
	}

	s.unlink(i - 1)
	if err := s.net.ShiftPush(i, 1); err != nil {
		return fmt.Errorf("insert %s of %s at %d: %w", phase, trade.ID, i, err)
	}
	if err := s.net.AddTask(i, t); err != nil {
		return fmt.Errorf("insert %s of %s at %d: %w", phase, trade.ID, i, err)
	}

	start, finish := stn.StartOf(i), stn.FinishOf(i)
	edges := []stn.Edge{
		{From: start, To: finish, Weight: t.Duration, Kind: stn.Service},
		{From: finish, To: start, Weight: -t.Duration, Kind: stn.Service},
	}
	if b := trade.Window.Earliest(phase); b.Set {
		edges = append(edges, stn.Edge{From: start, To: stn.Ref, Weight: -b.Value, Kind: stn.Earliest})
	}
	if b := trade.Window.Latest(phase); b.Set {
		edges = append(edges, stn.Edge{From: stn.Ref, To: start, Weight: b.Value, Kind: stn.Latest})
	}
	for _, e := range edges {
		if err := s.net.SetEdge(e.From, e.To, e.Weight, e.Kind); err != nil {
			return fmt.Errorf("insert %s of %s at %d: %w", phase, trade.ID, i, err)
		}
	}

	if err := s.link(i - 1); err != nil {
		return err
	}
	return s.link(i)
}

// unlink drops the travel leg between i and i+1.
func (s *Schedule) unlink(i int) {
	s.net.RemoveEdge(stn.FinishOf(i), stn.StartOf(i+1))
	s.net.RemoveEdge(stn.StartOf(i+1), stn.FinishOf(i))
}

// link adds the travel leg between i and i+1 when both exist. The leg is an
// equality unless task i+1 may be idled for, in which case only the lower
// bound is kept.
func (s *Schedule) link(i int) error {
	cur, ok := s.net.Task(i)
	if !ok {
		return nil
	}
	next, ok := s.net.Task(i + 1)
	if !ok {
		return nil
	}
	tt := s.travelTime(cur.Location, next.Location)
	if err := s.net.SetEdge(stn.StartOf(i+1), stn.FinishOf(i), -tt, stn.Travel); err != nil {
		return fmt.Errorf("link %d->%d: %w", i, i+1, err)
	}
	if idleAllowed(next) {
		return nil
	}
	if err := s.net.SetEdge(stn.FinishOf(i), stn.StartOf(i+1), tt, stn.Travel); err != nil {
		return fmt.Errorf("link %d->%d: %w", i, i+1, err)
	}
	return nil
}
