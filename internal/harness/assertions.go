package harness

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/tidewater/internal/trace"
)

// timeTolerance absorbs floating point noise in expected times.
const timeTolerance = 1e-6

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string         // Expectation that failed
	Expected string         // Human-readable expected outcome
	Actual   string         // Human-readable actual outcome
	Trace    []trace.Record // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, rec := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", rec.Seq, rec)
		}
	}

	return buf.String()
}

// EvaluateExpect checks every expectation and returns one message per
// failure, in a stable order.
func EvaluateExpect(r *Result, exp *Expect) []string {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	for _, name := range sortedKeys(exp.Feasible) {
		add(assertFeasible(r, name, exp.Feasible[name]))
	}
	for _, name := range sortedKeys(exp.Completion) {
		add(assertCompletion(r, name, exp.Completion[name]))
	}
	if len(exp.Events) > 0 {
		add(assertEventOrder(r.Trace, exp.Events))
	}
	for _, kind := range sortedKeys(exp.Counts) {
		add(assertEventCount(r.Trace, kind, exp.Counts[kind]))
	}
	for _, name := range sortedKeys(exp.Locations) {
		add(assertLocation(r, name, exp.Locations[name]))
	}
	if exp.Rejected != nil {
		add(assertRejected(r, exp.Rejected))
	}
	return errs
}

func assertFeasible(r *Result, vessel string, want bool) error {
	got, ok := r.Feasible[vessel]
	if !ok {
		return &AssertionError{Type: "feasible", Expected: "vessel " + vessel, Actual: "unknown vessel"}
	}
	if got != want {
		return &AssertionError{
			Type:     "feasible",
			Expected: fmt.Sprintf("%s feasible=%t", vessel, want),
			Actual:   fmt.Sprintf("feasible=%t", got),
		}
	}
	return nil
}

func assertCompletion(r *Result, vessel string, want float64) error {
	got, ok := r.Completion[vessel]
	if !ok {
		return &AssertionError{
			Type:     "completion",
			Expected: fmt.Sprintf("%s completes at %s", vessel, trace.FormatTime(want)),
			Actual:   "vessel has no events",
			Trace:    r.Trace,
		}
	}
	if math.Abs(got-want) > timeTolerance {
		return &AssertionError{
			Type:     "completion",
			Expected: fmt.Sprintf("%s completes at %s", vessel, trace.FormatTime(want)),
			Actual:   trace.FormatTime(got),
			Trace:    r.Trace,
		}
	}
	return nil
}

// assertEventOrder checks that the expected events appear in order.
// Intervening events are allowed.
func assertEventOrder(records []trace.Record, want []string) error {
	next := 0
	for _, rec := range records {
		if next < len(want) && rec.String() == want[next] {
			next++
		}
	}
	if next == len(want) {
		return nil
	}
	return &AssertionError{
		Type:     "events",
		Expected: fmt.Sprintf("events in order: %v", want),
		Actual:   fmt.Sprintf("missing %q after %d matched", want[next], next),
		Trace:    records,
	}
}

// assertEventCount checks that a kind appears exactly the given number of times.
func assertEventCount(records []trace.Record, kind string, want int) error {
	count := 0
	for _, rec := range records {
		if rec.Kind == kind {
			count++
		}
	}
	if count != want {
		return &AssertionError{
			Type:     "counts",
			Expected: fmt.Sprintf("%s appears %d times", kind, want),
			Actual:   fmt.Sprintf("%d times", count),
			Trace:    records,
		}
	}
	return nil
}

func assertLocation(r *Result, vessel, want string) error {
	got, ok := r.Locations[vessel]
	if !ok || got != want {
		return &AssertionError{
			Type:     "locations",
			Expected: fmt.Sprintf("%s at %s", vessel, want),
			Actual:   fmt.Sprintf("at %q", got),
		}
	}
	return nil
}

func assertRejected(r *Result, want []string) error {
	if len(want) == 0 && len(r.Rejected) == 0 {
		return nil
	}
	if !reflect.DeepEqual(r.Rejected, want) {
		return &AssertionError{
			Type:     "rejected",
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", r.Rejected),
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
