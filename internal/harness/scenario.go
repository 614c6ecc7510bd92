package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tidewater/internal/model"
	"github.com/roach88/tidewater/internal/network"
	"github.com/roach88/tidewater/internal/schedule"
)

// Scenario describes a fleet, a distance network and the trades handed to
// it, plus what the run is expected to produce.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// RunID is a fixed run identifier for deterministic traces.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Horizon stops the run before the first event later than it.
	// Zero means no horizon.
	Horizon float64 `yaml:"horizon,omitempty"`

	Network NetworkSpec  `yaml:"network"`
	Vessels []VesselSpec `yaml:"vessels"`
	Trades  []TradeSpec  `yaml:"trades"`

	// Expect is checked after the run. Nil expects nothing.
	Expect *Expect `yaml:"expect,omitempty"`
}

// NetworkSpec lists distances between locations.
type NetworkSpec struct {
	// Distances are symmetric unless both directions are listed.
	Distances []DistanceSpec `yaml:"distances"`

	// Fallback is the distance between locations not listed.
	Fallback float64 `yaml:"fallback,omitempty"`

	// Ports is an optional CSV of port coordinates (name,latitude,longitude).
	// Listed ports are measured by great-circle distance in nautical miles;
	// the path is relative to the scenario file.
	Ports string `yaml:"ports,omitempty"`
}

// DistanceSpec is one entry of the distance table.
type DistanceSpec struct {
	From     string  `yaml:"from"`
	To       string  `yaml:"to"`
	Distance float64 `yaml:"distance"`
}

// VesselSpec describes one vessel of the fleet.
type VesselSpec struct {
	Name       string         `yaml:"name"`
	Location   string         `yaml:"location"`
	Speed      float64        `yaml:"speed"`
	Capacities []CapacitySpec `yaml:"capacities"`
}

// CapacitySpec is what a vessel can carry of one cargo type.
type CapacitySpec struct {
	Cargo       string  `yaml:"cargo"`
	Capacity    float64 `yaml:"capacity"`
	LoadingRate float64 `yaml:"loading_rate"`
}

// TradeSpec is a trade assigned to a vessel.
type TradeSpec struct {
	ID          string  `yaml:"id"`
	Vessel      string  `yaml:"vessel"`
	Origin      string  `yaml:"origin"`
	Destination string  `yaml:"destination"`
	Cargo       string  `yaml:"cargo"`
	Amount      float64 `yaml:"amount"`

	// Window is [earliest pickup, latest pickup, earliest dropoff,
	// latest dropoff]; null or missing entries are unbounded.
	Window []*float64 `yaml:"window,omitempty"`

	// Pickup and Dropoff are optional insertion indices. Zero appends.
	Pickup  int `yaml:"pickup,omitempty"`
	Dropoff int `yaml:"dropoff,omitempty"`

	// At is the simulation time the trade is handed to the vessel. Trades
	// at zero are planned before the run starts; later ones arrive through
	// a trade_commit event and are rejected if they make the plan
	// infeasible.
	At float64 `yaml:"at,omitempty"`
}

// Expect lists the checks run against a finished scenario.
type Expect struct {
	// Feasible is the per-vessel verdict on the initial plan.
	Feasible map[string]bool `yaml:"feasible,omitempty"`

	// Completion is the time of each vessel's last event.
	Completion map[string]float64 `yaml:"completion,omitempty"`

	// Events must appear in the trace in this order, not necessarily
	// consecutively. Entries use the "<time> <kind> <vessel>@<location>"
	// form.
	Events []string `yaml:"events,omitempty"`

	// Counts is the exact number of events per kind.
	Counts map[string]int `yaml:"counts,omitempty"`

	// Locations is where each vessel ends up.
	Locations map[string]string `yaml:"locations,omitempty"`

	// Rejected lists trade IDs whose late commit was refused, in order.
	Rejected []string `yaml:"rejected,omitempty"`
}

// Trade builds the model trade.
func (t TradeSpec) Trade() *model.Trade {
	return &model.Trade{
		ID:          t.ID,
		CargoType:   t.Cargo,
		Amount:      t.Amount,
		Origin:      model.Location(t.Origin),
		Destination: model.Location(t.Destination),
		Window:      model.NewTimeWindow(t.Window...),
	}
}

// Placement returns the insertion options of the trade.
func (t TradeSpec) Placement() []schedule.PlacementOption {
	var opts []schedule.PlacementOption
	if t.Pickup > 0 {
		opts = append(opts, schedule.AtPickup(t.Pickup))
	}
	if t.Dropoff > 0 {
		opts = append(opts, schedule.AtDropoff(t.Dropoff))
	}
	return opts
}

// Vessel builds the model vessel.
func (v VesselSpec) Vessel() *model.Vessel {
	caps := make([]model.CargoCapacity, 0, len(v.Capacities))
	for _, c := range v.Capacities {
		caps = append(caps, model.CargoCapacity{
			CargoType:   c.Cargo,
			Capacity:    c.Capacity,
			LoadingRate: c.LoadingRate,
		})
	}
	return model.NewVessel(v.Name, model.Location(v.Location), v.Speed, caps...)
}

// Provider builds the distance provider.
func (n NetworkSpec) Provider() (network.Provider, error) {
	table := network.NewTable()
	table.Fallback = n.Fallback
	for _, d := range n.Distances {
		table.Set(model.Location(d.From), model.Location(d.To), d.Distance)
	}
	if n.Ports == "" {
		return table, nil
	}
	ports, err := network.LoadPorts(n.Ports)
	if err != nil {
		return nil, err
	}
	return network.GreatCircle{Ports: ports, Fallback: table}, nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// A relative ports path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if p := scenario.Network.Ports; p != "" && !filepath.IsAbs(p) {
		scenario.Network.Ports = filepath.Join(filepath.Dir(path), p)
	}
	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "trade:" vs "trades:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Horizon < 0 {
		return fmt.Errorf("horizon must be non-negative")
	}

	if len(s.Vessels) == 0 {
		return fmt.Errorf("vessels list is required and must be non-empty")
	}

	for i, d := range s.Network.Distances {
		if d.From == "" || d.To == "" {
			return fmt.Errorf("network.distances[%d]: from and to are required", i)
		}
		if d.Distance < 0 {
			return fmt.Errorf("network.distances[%d]: distance must be non-negative", i)
		}
	}

	vessels := make(map[string]bool, len(s.Vessels))
	for i, v := range s.Vessels {
		if v.Name == "" {
			return fmt.Errorf("vessels[%d]: name is required", i)
		}
		if vessels[v.Name] {
			return fmt.Errorf("vessels[%d]: duplicate vessel %q", i, v.Name)
		}
		vessels[v.Name] = true
		if v.Location == "" {
			return fmt.Errorf("vessels[%d]: location is required", i)
		}
		if v.Speed < 0 {
			return fmt.Errorf("vessels[%d]: speed must be non-negative", i)
		}
		for j, c := range v.Capacities {
			if c.Cargo == "" {
				return fmt.Errorf("vessels[%d].capacities[%d]: cargo is required", i, j)
			}
		}
	}

	trades := make(map[string]bool, len(s.Trades))
	for i, t := range s.Trades {
		if t.ID == "" {
			return fmt.Errorf("trades[%d]: id is required", i)
		}
		if trades[t.ID] {
			return fmt.Errorf("trades[%d]: duplicate trade %q", i, t.ID)
		}
		trades[t.ID] = true
		if !vessels[t.Vessel] {
			return fmt.Errorf("trades[%d]: unknown vessel %q", i, t.Vessel)
		}
		if t.Origin == "" || t.Destination == "" {
			return fmt.Errorf("trades[%d]: origin and destination are required", i)
		}
		if len(t.Window) > 4 {
			return fmt.Errorf("trades[%d]: window has at most four bounds", i)
		}
		if t.At < 0 {
			return fmt.Errorf("trades[%d]: at must be non-negative", i)
		}
		if err := t.Trade().Validate(); err != nil {
			return fmt.Errorf("trades[%d]: %w", i, err)
		}
	}

	return nil
}
