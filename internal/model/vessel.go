package model

import (
	"math"
	"sort"
)

// CargoCapacity describes how much of one cargo type a vessel can carry and
// how fast it loads and unloads it.
type CargoCapacity struct {
	CargoType   string
	Capacity    float64
	LoadingRate float64
}

// Vessel is a ship with a position, a constant speed and a cargo hold.
//
// Travel and service durations are derived from the vessel; schedules never
// compute them any other way.
type Vessel struct {
	Name     string
	Location Location
	Speed    float64

	capacities map[string]CargoCapacity
	hold       map[string]float64
}

// NewVessel creates an empty vessel at loc.
func NewVessel(name string, loc Location, speed float64, capacities ...CargoCapacity) *Vessel {
	v := &Vessel{
		Name:       name,
		Location:   loc,
		Speed:      speed,
		capacities: make(map[string]CargoCapacity, len(capacities)),
		hold:       make(map[string]float64),
	}
	for _, c := range capacities {
		v.capacities[c.CargoType] = c
	}
	return v
}

// Capacity returns the capacity for a cargo type. Unknown types have zero
// capacity.
func (v *Vessel) Capacity(cargoType string) float64 {
	return v.capacities[cargoType].Capacity
}

// LoadingRate returns the (un)loading rate for a cargo type, zero if unknown.
func (v *Vessel) LoadingRate(cargoType string) float64 {
	return v.capacities[cargoType].LoadingRate
}

// CargoTypes lists the configured cargo types in sorted order.
func (v *Vessel) CargoTypes() []string {
	types := make([]string, 0, len(v.capacities))
	for t := range v.capacities {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// TravelTime converts a distance into a sailing duration.
// A stationary vessel can never cover a positive distance.
func (v *Vessel) TravelTime(distance float64) float64 {
	if distance <= 0 {
		return 0
	}
	if v.Speed <= 0 {
		return math.Inf(1)
	}
	return distance / v.Speed
}

// ServiceTime is the time spent loading or unloading amount of cargoType.
// Cargo types without a loading rate transfer instantly.
func (v *Vessel) ServiceTime(cargoType string, amount float64) float64 {
	rate := v.LoadingRate(cargoType)
	if rate <= 0 {
		return 0
	}
	return amount / rate
}

// Hold returns the quantity of cargoType currently aboard.
func (v *Vessel) Hold(cargoType string) float64 {
	return v.hold[cargoType]
}

// HoldSnapshot returns a copy of the whole hold.
func (v *Vessel) HoldSnapshot() map[string]float64 {
	out := make(map[string]float64, len(v.hold))
	for k, q := range v.hold {
		out[k] = q
	}
	return out
}

// Load adds cargo to the hold.
func (v *Vessel) Load(cargoType string, amount float64) {
	v.hold[cargoType] += amount
}

// Unload removes cargo from the hold. The quantity never drops below zero.
func (v *Vessel) Unload(cargoType string, amount float64) {
	left := v.hold[cargoType] - amount
	if left <= 0 {
		delete(v.hold, cargoType)
		return
	}
	v.hold[cargoType] = left
}

// MoveTo relocates the vessel.
func (v *Vessel) MoveTo(loc Location) {
	v.Location = loc
}
