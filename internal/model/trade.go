package model

import (
	"errors"
	"fmt"
)

// Trade is a request to move an amount of one cargo type from an origin to a
// destination, optionally within a time window.
//
// A Trade must not be modified after it has been handed to a schedule.
type Trade struct {
	ID          string
	CargoType   string
	Amount      float64
	Origin      Location
	Destination Location
	Window      TimeWindow
}

// ErrInvalidTrade is returned by Validate for malformed trades.
var ErrInvalidTrade = errors.New("invalid trade")

// LocationFor returns where the given phase takes place.
func (t *Trade) LocationFor(p Phase) Location {
	if p == Dropoff {
		return t.Destination
	}
	return t.Origin
}

// Validate checks the fields a schedule relies on.
func (t *Trade) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTrade)
	}
	if t.CargoType == "" {
		return fmt.Errorf("%w: trade %s: cargo type is required", ErrInvalidTrade, t.ID)
	}
	if t.Amount < 0 {
		return fmt.Errorf("%w: trade %s: negative amount %v", ErrInvalidTrade, t.ID, t.Amount)
	}
	if t.Origin == "" || t.Destination == "" {
		return fmt.Errorf("%w: trade %s: origin and destination are required", ErrInvalidTrade, t.ID)
	}
	return nil
}

// String returns a compact description for logs.
func (t *Trade) String() string {
	return fmt.Sprintf("%s[%s %v %s->%s]", t.ID, t.CargoType, t.Amount, t.Origin, t.Destination)
}
