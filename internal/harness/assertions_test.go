package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/tidewater/internal/trace"
)

func records() []trace.Record {
	return []trace.Record{
		{Seq: 1, Time: 0, Kind: "arrival", Vessel: "terror", Location: "A"},
		{Seq: 2, Time: 2, Kind: "cargo_transfer", Vessel: "terror", Location: "A"},
		{Seq: 3, Time: 5, Kind: "trade_commit", Info: "t9"},
		{Seq: 4, Time: 12, Kind: "travel", Vessel: "terror", Location: "B"},
	}
}

func TestAssertEventOrder(t *testing.T) {
	recs := records()

	assert.NoError(t, assertEventOrder(recs, []string{"0 arrival terror@A", "12 travel terror@B"}))
	assert.NoError(t, assertEventOrder(recs, []string{"5 trade_commit t9"}))
	assert.Error(t, assertEventOrder(recs, []string{"12 travel terror@B", "0 arrival terror@A"}))
	assert.Error(t, assertEventOrder(recs, []string{"3 idle terror@A"}))
}

func TestAssertEventCount(t *testing.T) {
	recs := records()

	assert.NoError(t, assertEventCount(recs, "arrival", 1))
	assert.NoError(t, assertEventCount(recs, "idle", 0))
	err := assertEventCount(recs, "travel", 2)
	assert.ErrorContains(t, err, "travel appears 2 times")
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     "counts",
		Expected: "idle appears 1 times",
		Actual:   "0 times",
		Trace:    records()[:1],
	}
	assert.Equal(t,
		"Assertion failed: counts\n  Expected: idle appears 1 times\n  Actual: 0 times\n\nFull trace:\n  [1] 0 arrival terror@A\n",
		err.Error())

	err.Trace = nil
	assert.NotContains(t, err.Error(), "Full trace")
}

func TestEvaluateExpect(t *testing.T) {
	r := NewResult()
	r.Trace = records()
	r.Feasible["terror"] = true
	r.Completion["terror"] = 12.0000001
	r.Locations["terror"] = "B"

	errs := EvaluateExpect(r, &Expect{
		Feasible:   map[string]bool{"terror": true},
		Completion: map[string]float64{"terror": 12},
		Counts:     map[string]int{"trade_commit": 1},
		Locations:  map[string]string{"terror": "B"},
		Rejected:   []string{},
	})
	assert.Empty(t, errs, "completion is compared with a tolerance")

	errs = EvaluateExpect(r, &Expect{
		Completion: map[string]float64{"erebus": 3},
		Locations:  map[string]string{"erebus": "A"},
	})
	assert.Len(t, errs, 2)
	assert.Contains(t, errs[0], "vessel has no events")
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)
	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}
