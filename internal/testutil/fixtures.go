package testutil

import (
	"github.com/roach88/tidewater/internal/model"
	"github.com/roach88/tidewater/internal/network"
)

// F returns a pointer to v, for building time windows inline.
func F(v float64) *float64 {
	return &v
}

// Window builds a time window from up to four optional bounds in
// [earliest pickup, latest pickup, earliest dropoff, latest dropoff] order.
func Window(bounds ...*float64) model.TimeWindow {
	return model.NewTimeWindow(bounds...)
}

// Trade builds an Oil trade of the given amount.
func Trade(id string, origin, destination model.Location, amount float64, w model.TimeWindow) *model.Trade {
	return &model.Trade{
		ID:          id,
		CargoType:   "Oil",
		Amount:      amount,
		Origin:      origin,
		Destination: destination,
		Window:      w,
	}
}

// Tanker is a speed 1 vessel carrying Oil at a loading rate of 5.
func Tanker(name string, loc model.Location) *model.Vessel {
	return model.NewVessel(name, loc, 1, model.CargoCapacity{
		CargoType:   "Oil",
		Capacity:    300000,
		LoadingRate: 5,
	})
}

// LineNetwork is the seven-port network used by the event sequence tests.
func LineNetwork() *network.Table {
	return network.NewTable().
		Set("A", "B", 10).
		Set("B", "C", 10).
		Set("C", "D", 10).
		Set("D", "E", 10).
		Set("D", "F", 20).
		Set("E", "F", 10).
		Set("F", "G", 10)
}

// LoopNetwork is the four-port network used by the feasibility tests.
func LoopNetwork() *network.Table {
	return network.NewTable().
		Set("A", "B", 10).
		Set("A", "C", 25).
		Set("B", "C", 20).
		Set("C", "D", 15).
		Set("D", "A", 20).
		Set("D", "B", 30)
}
