// Package model defines the shared vocabulary of the simulation: locations,
// trades with their time windows, and vessels with per-cargo capacities.
//
// Trades are immutable once built and are shared by pointer between
// schedules, the engine and reporting code. Vessels are owned by the engine
// and mutated only while an event is being realized.
package model
