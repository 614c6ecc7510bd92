package network

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/roach88/tidewater/internal/model"
)

// earthRadiusNM is the mean Earth radius in nautical miles.
const earthRadiusNM = 3440.065

// Port is a named location with coordinates in degrees.
type Port struct {
	Name      model.Location
	Latitude  float64
	Longitude float64
}

// Ports is a registry of ports by name.
type Ports struct {
	byName map[model.Location]Port
	order  []model.Location
}

// NewPorts builds a registry. Later duplicates replace earlier ones.
func NewPorts(ports ...Port) *Ports {
	p := &Ports{byName: make(map[model.Location]Port, len(ports))}
	for _, port := range ports {
		if _, seen := p.byName[port.Name]; !seen {
			p.order = append(p.order, port.Name)
		}
		p.byName[port.Name] = port
	}
	return p
}

// LoadPorts reads a registry from a CSV file with a header row followed by
// name,latitude,longitude records.
func LoadPorts(path string) (*Ports, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ports file: %w", err)
	}
	defer f.Close()
	return ReadPorts(f)
}

// ReadPorts parses name,latitude,longitude CSV records. The first row is a
// header. Surrounding whitespace in every field is ignored.
func ReadPorts(r io.Reader) (*Ports, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return NewPorts(), nil
		}
		return nil, fmt.Errorf("read ports header: %w", err)
	}

	var ports []Port
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ports: %w", err)
		}
		port, err := parsePort(rec)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("ports line %d: %w", line, err)
		}
		ports = append(ports, port)
	}
	return NewPorts(ports...), nil
}

func parsePort(rec []string) (Port, error) {
	name := strings.TrimSpace(rec[0])
	if name == "" {
		return Port{}, errors.New("empty port name")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
	if err != nil {
		return Port{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
	if err != nil {
		return Port{}, fmt.Errorf("longitude: %w", err)
	}
	return Port{Name: model.Location(name), Latitude: lat, Longitude: lon}, nil
}

// Len returns the number of ports.
func (p *Ports) Len() int {
	return len(p.order)
}

// All returns the ports in file order.
func (p *Ports) All() []Port {
	out := make([]Port, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.byName[name])
	}
	return out
}

// Get looks up a port by name.
func (p *Ports) Get(name model.Location) (Port, bool) {
	port, ok := p.byName[name]
	return port, ok
}

// GreatCircle measures haversine distances in nautical miles between
// registered ports. Unknown ports are resolved by Fallback when set, and
// are otherwise zero apart.
type GreatCircle struct {
	Ports    *Ports
	Fallback Provider
}

// Distance implements Provider.
func (g GreatCircle) Distance(a, b model.Location) float64 {
	if a == b {
		return 0
	}
	pa, okA := g.Ports.Get(a)
	pb, okB := g.Ports.Get(b)
	if !okA || !okB {
		if g.Fallback != nil {
			return g.Fallback.Distance(a, b)
		}
		return 0
	}
	return Haversine(pa.Latitude, pa.Longitude, pb.Latitude, pb.Longitude)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine returns the great-circle distance in nautical miles between two
// coordinates given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := toRadians(lat1), toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusNM * c
}
