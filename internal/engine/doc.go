// Package engine implements the tidewater discrete-event simulation loop.
//
// The engine owns the simulation clock, the event queue and the fleet. Each
// vessel has exactly one committed schedule; the engine keeps at most one
// event per vessel in flight and asks the schedule for the next one once the
// current event has been realized.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// All events are processed by Step, one at a time, in time order. Events
// with equal times are processed in insertion order. This ensures:
//   - Reproducible traces across runs
//   - Schedules are only mutated inside the loop
//   - Observers see a consistent world
//
// Event Processing Flow:
//  1. Step takes the earliest event from the queue
//  2. The clock advances to the event time (never backwards)
//  3. Vessel events are applied to the vessel by its schedule
//  4. If tasks remain, the schedule's Pop yields the next event
//  5. Observers are notified in registration order
//
// Application events carry no vessel. They only reach observers, which is
// how callers commit new plans while the simulation runs.
//
// The engine is designed for correctness and determinism, not throughput.
// Nothing in this package starts goroutines.
package engine
