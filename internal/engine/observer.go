package engine

import (
	"context"

	"github.com/roach88/tidewater/internal/event"
	"github.com/roach88/tidewater/internal/model"
)

// ObserverID identifies a registered observer.
type ObserverID int

// VesselReport is the vessel state attached to notifications of vessel
// events. It is taken after the event has been applied.
type VesselReport struct {
	Vessel    string
	Location  model.Location
	Hold      map[string]float64
	Remaining int

	// Completion is the earliest time the remaining plan can finish.
	Completion float64
}

// Notification is what observers receive for every processed event.
type Notification struct {
	// Seq numbers processed events from 1 within a run.
	Seq   int64
	RunID string
	Event event.Event

	// Report is nil for events that did not advance a schedule.
	Report *VesselReport
}

// Observer is notified of every processed event.
//
// Observers run inside the engine loop and may call back into the engine,
// typically to Commit a new schedule. A returned error is logged; it does
// not stop the simulation.
type Observer interface {
	Notify(ctx context.Context, n Notification) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, n Notification) error

// Notify calls f.
func (f ObserverFunc) Notify(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

type registration struct {
	id  ObserverID
	obs Observer
}

// RegisterObserver adds o to the end of the notification order.
func (e *Engine) RegisterObserver(o Observer) ObserverID {
	e.nextObserver++
	e.observers = append(e.observers, registration{id: e.nextObserver, obs: o})
	return e.nextObserver
}

// UnregisterObserver removes an observer and reports whether it was
// registered. A notification cycle already in progress still reaches it.
func (e *Engine) UnregisterObserver(id ObserverID) bool {
	for i, r := range e.observers {
		if r.id == id {
			e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
			return true
		}
	}
	return false
}

// notify delivers n to a snapshot of the observers taken before the first
// call, so registrations made during the cycle take effect from the next
// event on.
func (e *Engine) notify(ctx context.Context, n Notification) {
	snapshot := make([]registration, len(e.observers))
	copy(snapshot, e.observers)
	for _, r := range snapshot {
		if err := r.obs.Notify(ctx, n); err != nil {
			e.log.Warnf("observer %d failed on %s: %v", r.id, n.Event, err)
		}
	}
}
