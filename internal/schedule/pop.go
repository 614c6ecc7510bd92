package schedule

import (
	"fmt"

	"github.com/roach88/tidewater/internal/event"
	"github.com/roach88/tidewater/internal/model"
	"github.com/roach88/tidewater/internal/stn"
)

// Pop advances the plan by one step and returns the event that completes
// it:
//
//   - travel, when the vessel is not yet where task 1 happens;
//   - idle, when it is there but the window of task 1 has not opened;
//   - arrival, when service on task 1 can start;
//   - cargo_transfer, when service on task 1 ends. The task is removed.
//
// Pop returns ErrEmptySchedule when nothing is left.
func (s *Schedule) Pop() (event.Event, error) {
	if s.net.Len() == 0 {
		return event.Event{}, ErrEmptySchedule
	}
	s.voyage = nil
	first := s.task(1)

	if s.arrived {
		return s.transfer(first)
	}

	t0, loc := s.baseline()
	if loc != first.Location {
		t := t0 + s.travelTime(loc, first.Location)
		s.voyage = &voyage{from: loc, to: first.Location, departs: t0, arrives: t}
		s.cursor = &cursor{time: t, location: first.Location}
		return s.emit(t, event.KindTravel, first), nil
	}

	sol, err := s.timing()
	if err != nil {
		return event.Event{}, err
	}
	if start := sol.Earliest(stn.StartOf(1)); start > t0+epsilon {
		s.cursor = &cursor{time: start, location: loc}
		return s.emit(start, event.KindIdle, first), nil
	}

	s.arrived = true
	s.arrivedAt = t0
	s.cursor = &cursor{time: t0, location: loc}
	return s.emit(t0, event.KindArrival, first), nil
}

// transfer ends service on task 1 and removes it.
func (s *Schedule) transfer(first Task) (event.Event, error) {
	finish := s.arrivedAt + first.Duration
	if _, err := s.net.RemoveTask(1); err != nil {
		return event.Event{}, fmt.Errorf("pop: %w", err)
	}
	if err := s.net.ShiftPull(2, 1); err != nil {
		return event.Event{}, fmt.Errorf("pop: %w", err)
	}

	cargo := first.Trade.CargoType
	switch first.Phase {
	case model.Pickup:
		s.ledger[cargo] += first.Trade.Amount
	case model.Dropoff:
		if left := s.ledger[cargo] - first.Trade.Amount; left > epsilon {
			s.ledger[cargo] = left
		} else {
			delete(s.ledger, cargo)
		}
	}

	s.arrived = false
	s.arrivedAt = 0
	s.cursor = &cursor{time: finish, location: first.Location}
	return s.emit(finish, event.KindCargoTransfer, first), nil
}

// timing solves the anchored network. If deadlines cannot all be met they
// are dropped so the vessel runs late instead of stalling.
func (s *Schedule) timing() (*stn.Solution, error) {
	sol := s.solve()
	if sol.Consistent {
		return sol, nil
	}
	sol = s.solve(stn.Ignoring(stn.Latest))
	if !sol.Consistent {
		return nil, ErrInfeasible
	}
	return sol, nil
}

func (s *Schedule) emit(t float64, kind event.Kind, task Task) event.Event {
	return event.Event{
		Time: t,
		Kind: kind,
		Payload: event.Payload{
			Vessel:   s.vessel.Name,
			Trade:    task.Trade,
			Location: task.Location,
			Phase:    task.Phase,
		},
	}
}

// Apply realizes an event emitted by Pop on the vessel.
func (s *Schedule) Apply(ev event.Event) {
	switch ev.Kind {
	case event.KindTravel, event.KindArrival, event.KindIdle:
		s.vessel.MoveTo(ev.Payload.Location)
	case event.KindCargoTransfer:
		s.vessel.MoveTo(ev.Payload.Location)
		if ev.Payload.Trade == nil {
			return
		}
		switch ev.Payload.Phase {
		case model.Pickup:
			s.vessel.Load(ev.Payload.Trade.CargoType, ev.Payload.Trade.Amount)
		case model.Dropoff:
			s.vessel.Unload(ev.Payload.Trade.CargoType, ev.Payload.Trade.Amount)
		}
	}
}

// Whereabouts describes a vessel's position at a point in time.
type Whereabouts struct {
	// AtSea is true while a voyage is under way.
	AtSea bool

	// Location is the current port, or the destination while at sea.
	Location model.Location

	// From is the port of departure while at sea.
	From model.Location

	// Progress is the completed fraction of the voyage, in [0, 1].
	Progress float64
}

// Whereabouts derives the vessel position at time now from the last emitted
// event.
func (s *Schedule) Whereabouts(now float64) Whereabouts {
	v := s.voyage
	if v == nil || now < v.departs {
		return Whereabouts{Location: s.vessel.Location}
	}
	if now >= v.arrives {
		return Whereabouts{Location: v.to}
	}
	progress := 0.0
	if span := v.arrives - v.departs; span > 0 {
		progress = (now - v.departs) / span
	}
	return Whereabouts{AtSea: true, Location: v.to, From: v.from, Progress: progress}
}
