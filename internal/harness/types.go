package harness

import (
	"github.com/roach88/tidewater/internal/trace"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool

	RunID string

	// Trace is every processed event, read back from the run log.
	Trace []trace.Record

	// Digest is the SHA-256 digest of the canonical trace.
	Digest string

	// Feasible and Planned are each vessel's verdict and completion time
	// for the plan committed before the run.
	Feasible map[string]bool
	Planned  map[string]float64

	// Completion is the time of each vessel's last event. Vessels that
	// never moved are absent.
	Completion map[string]float64

	// Locations and Holds describe the fleet once the run stops.
	Locations map[string]string
	Holds     map[string]map[string]float64

	// Rejected lists late trades that would have made a plan infeasible.
	Rejected []string

	// Errors contains failed expectations. Empty if Pass is true.
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:       true,
		Trace:      []trace.Record{},
		Feasible:   make(map[string]bool),
		Planned:    make(map[string]float64),
		Completion: make(map[string]float64),
		Locations:  make(map[string]string),
		Holds:      make(map[string]map[string]float64),
		Rejected:   []string{},
		Errors:     []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Events renders the trace in "<time> <kind> <vessel>@<location>" form.
func (r *Result) Events() []string {
	out := make([]string, len(r.Trace))
	for i, rec := range r.Trace {
		out[i] = rec.String()
	}
	return out
}
