package testutil

import (
	"sync"

	"github.com/roach88/tidewater/internal/model"
	"github.com/roach88/tidewater/internal/network"
)

// Env is a hand-driven environment for schedule tests.
//
// Unlike engine.Engine, Env never advances on its own. Tests move the clock
// explicitly with Set or Advance, which makes stale-clock situations easy
// to reproduce.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Env struct {
	mu       sync.Mutex
	now      float64
	distance network.Provider
}

// NewEnv creates an environment at time 0. A nil provider places every
// location at distance zero.
func NewEnv(distance network.Provider) *Env {
	if distance == nil {
		distance = network.NewTable()
	}
	return &Env{distance: distance}
}

// Now returns the current simulation time.
func (e *Env) Now() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

// Set moves the clock to t. Going backwards is allowed so tests can rewind.
func (e *Env) Set(t float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = t
}

// Advance moves the clock forward by d and returns the new time.
func (e *Env) Advance(d float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now += d
	return e.now
}

// Distance delegates to the configured provider.
func (e *Env) Distance(a, b model.Location) float64 {
	return e.distance.Distance(a, b)
}
