package model

import "strconv"

// Bound is an optional time limit. The zero value is unbounded.
type Bound struct {
	Value float64
	Set   bool
}

// At returns a bound fixed at t.
func At(t float64) Bound {
	return Bound{Value: t, Set: true}
}

// Unbounded is the absent bound.
var Unbounded = Bound{}

// String renders the bound, or "-" when unset.
func (b Bound) String() string {
	if !b.Set {
		return "-"
	}
	return strconv.FormatFloat(b.Value, 'f', -1, 64)
}

// TimeWindow holds the four optional bounds of a trade.
type TimeWindow struct {
	EarliestPickup  Bound
	LatestPickup    Bound
	EarliestDropoff Bound
	LatestDropoff   Bound
}

// NewTimeWindow builds a window from four optional values, mirroring the
// [earliest pickup, latest pickup, earliest dropoff, latest dropoff] order
// used in scenario files. Nil entries are unbounded.
func NewTimeWindow(bounds ...*float64) TimeWindow {
	var w TimeWindow
	slots := []*Bound{&w.EarliestPickup, &w.LatestPickup, &w.EarliestDropoff, &w.LatestDropoff}
	for i, b := range bounds {
		if i >= len(slots) {
			break
		}
		if b != nil {
			*slots[i] = At(*b)
		}
	}
	return w
}

// Earliest returns the lower bound for the given phase.
func (w TimeWindow) Earliest(p Phase) Bound {
	if p == Dropoff {
		return w.EarliestDropoff
	}
	return w.EarliestPickup
}

// Latest returns the upper bound for the given phase.
func (w TimeWindow) Latest(p Phase) Bound {
	if p == Dropoff {
		return w.LatestDropoff
	}
	return w.LatestPickup
}

// IsZero reports whether no bound is set.
func (w TimeWindow) IsZero() bool {
	return !w.EarliestPickup.Set && !w.LatestPickup.Set && !w.EarliestDropoff.Set && !w.LatestDropoff.Set
}
