// Package event defines simulation events and the time-ordered queue that
// feeds the engine.
package event

import (
	"strconv"

	"github.com/roach88/tidewater/internal/model"
)

// Kind names what happened. Applications may define their own kinds.
type Kind string

const (
	// KindTravel marks the end of a voyage between two locations.
	KindTravel Kind = "travel"
	// KindArrival marks a vessel being ready to start service.
	KindArrival Kind = "arrival"
	// KindCargoTransfer marks the end of loading or unloading.
	KindCargoTransfer Kind = "cargo_transfer"
	// KindIdle marks the end of a wait for a time window to open.
	KindIdle Kind = "idle"
)

// IsBuiltin reports whether k is one of the schedule-generated kinds.
func (k Kind) IsBuiltin() bool {
	switch k {
	case KindTravel, KindArrival, KindCargoTransfer, KindIdle:
		return true
	}
	return false
}

// Payload carries what an event refers to. Vessel is empty for
// application events that no vessel owns.
type Payload struct {
	Vessel   string
	Trade    *model.Trade
	Location model.Location
	Phase    model.Phase
	Info     string
}

// Event is a timestamped occurrence. Events are passed by value and are not
// modified once created.
type Event struct {
	Time    float64
	Kind    Kind
	Payload Payload
}

// New creates an application event.
func New(t float64, kind Kind, info string) Event {
	return Event{Time: t, Kind: kind, Payload: Payload{Info: info}}
}

// String renders "<time> <kind> <vessel>@<location>" for logs.
func (e Event) String() string {
	s := strconv.FormatFloat(e.Time, 'f', -1, 64) + " " + string(e.Kind)
	if e.Payload.Vessel != "" {
		s += " " + e.Payload.Vessel
		if e.Payload.Location != "" {
			s += "@" + string(e.Payload.Location)
		}
	}
	if e.Payload.Info != "" {
		s += " " + e.Payload.Info
	}
	return s
}
