package model

import "fmt"

// Phase distinguishes the pickup and the dropoff half of a trade.
type Phase int

const (
	// Pickup loads cargo at the trade origin.
	Pickup Phase = iota + 1
	// Dropoff unloads cargo at the trade destination.
	Dropoff
)

// String returns the reporting name used in simple schedules and traces.
func (p Phase) String() string {
	switch p {
	case Pickup:
		return "PICK_UP"
	case Dropoff:
		return "DROP_OFF"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ParsePhase accepts the reporting names plus the short forms "pickup" and
// "dropoff".
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "PICK_UP", "pickup":
		return Pickup, nil
	case "DROP_OFF", "dropoff":
		return Dropoff, nil
	default:
		return 0, fmt.Errorf("unknown phase %q", s)
	}
}
