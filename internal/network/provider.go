// Package network supplies distances between locations.
//
// The simulation core only depends on the Provider interface. Table serves
// hand-written distance sets (scenario files, tests); Ports and GreatCircle
// serve port registries loaded from CSV.
package network

import (
	"github.com/roach88/tidewater/internal/model"
)

// Provider returns the distance between two locations. Implementations must
// be deterministic and return non-negative values. Asymmetry is allowed.
type Provider interface {
	Distance(a, b model.Location) float64
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(a, b model.Location) float64

// Distance calls f.
func (f ProviderFunc) Distance(a, b model.Location) float64 {
	return f(a, b)
}

type pair struct {
	from, to model.Location
}

// Table is an explicit distance list.
//
// Lookups try (a, b) first and then (b, a), so a symmetric network only
// needs one entry per pair. Identical locations are zero apart. Unknown
// pairs fall back to Fallback.
type Table struct {
	pairs    map[pair]float64
	Fallback float64
}

// NewTable creates an empty table with a zero fallback.
func NewTable() *Table {
	return &Table{pairs: make(map[pair]float64)}
}

// Set records the distance from a to b and returns the table for chaining.
func (t *Table) Set(a, b model.Location, d float64) *Table {
	t.pairs[pair{a, b}] = d
	return t
}

// Len returns the number of stored pairs.
func (t *Table) Len() int {
	return len(t.pairs)
}

// Distance implements Provider.
func (t *Table) Distance(a, b model.Location) float64 {
	if a == b {
		return 0
	}
	if d, ok := t.pairs[pair{a, b}]; ok {
		return d
	}
	if d, ok := t.pairs[pair{b, a}]; ok {
		return d
	}
	return t.Fallback
}
