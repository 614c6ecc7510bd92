package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected during engine execution.
//
// Runtime errors include:
//   - Clock regression: an event is older than the simulation clock
//   - Unknown vessel: an event or commit names a vessel not in the fleet
//   - Duplicate vessel: a vessel name is registered twice
//   - Schedule failure: a schedule could not produce its next event
//
// Clock regressions and schedule failures halt the engine.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Vessel identifies the affected vessel, if any.
	Vessel string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeClockRegression indicates an event older than the clock.
	ErrCodeClockRegression RuntimeErrorCode = "CLOCK_REGRESSION"

	// ErrCodeUnknownVessel indicates a vessel that is not in the fleet.
	ErrCodeUnknownVessel RuntimeErrorCode = "UNKNOWN_VESSEL"

	// ErrCodeDuplicateVessel indicates a vessel name registered twice.
	ErrCodeDuplicateVessel RuntimeErrorCode = "DUPLICATE_VESSEL"

	// ErrCodeScheduleFailure indicates a schedule that could not advance.
	ErrCodeScheduleFailure RuntimeErrorCode = "SCHEDULE_FAILURE"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Vessel != "" {
		msg += fmt.Sprintf(" (vessel=%s)", e.Vessel)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsClockRegression returns true if the error is a clock regression.
// Uses errors.As to handle wrapped errors.
func IsClockRegression(err error) bool {
	return hasCode(err, ErrCodeClockRegression)
}

// IsUnknownVessel returns true if the error names a vessel not in the fleet.
func IsUnknownVessel(err error) bool {
	return hasCode(err, ErrCodeUnknownVessel)
}

// IsScheduleFailure returns true if a schedule failed to produce an event.
func IsScheduleFailure(err error) bool {
	return hasCode(err, ErrCodeScheduleFailure)
}

// NewClockRegressionError creates a RuntimeError for an event older than now.
func NewClockRegressionError(now, eventTime float64) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeClockRegression,
		Message: "event time is earlier than the simulation clock",
		Details: map[string]string{
			"now":        formatTime(now),
			"event_time": formatTime(eventTime),
		},
	}
}

// NewUnknownVesselError creates a RuntimeError for a missing vessel.
func NewUnknownVesselError(name string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeUnknownVessel,
		Message: "vessel is not part of the fleet",
		Vessel:  name,
	}
}

// NewDuplicateVesselError creates a RuntimeError for a repeated vessel name.
func NewDuplicateVesselError(name string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeDuplicateVessel,
		Message: "vessel is already part of the fleet",
		Vessel:  name,
	}
}

// NewScheduleFailureError wraps an error returned by a schedule.
func NewScheduleFailureError(name string, err error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeScheduleFailure,
		Message: "schedule could not produce the next event",
		Vessel:  name,
		Err:     err,
	}
}
