package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySchedule is returned by Pop when no task remains.
	ErrEmptySchedule = errors.New("schedule has no remaining tasks")

	// ErrConsumedSlot is returned when an insertion targets a slot whose
	// time has already passed.
	ErrConsumedSlot = errors.New("task slot already consumed")

	// ErrIndexRange is returned for insertion indices outside the schedule.
	ErrIndexRange = errors.New("task index out of range")

	// ErrInfeasible is returned by Pop when no time assignment exists even
	// with deadlines relaxed.
	ErrInfeasible = errors.New("schedule is temporally infeasible")

	// ErrNilTrade is returned when a nil trade is inserted.
	ErrNilTrade = errors.New("nil trade")
)

// IndexError describes a rejected insertion index.
type IndexError struct {
	// Op is the rejected operation, e.g. "pickup" or "dropoff".
	Op string

	// Index is the requested position.
	Index int

	// Min and Max bound the positions that were acceptable.
	Min int
	Max int

	// Err is ErrConsumedSlot or ErrIndexRange.
	Err error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d not in [%d, %d]: %v", e.Op, e.Index, e.Min, e.Max, e.Err)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *IndexError) Unwrap() error {
	return e.Err
}
