// Package metrics exposes simulation progress as Prometheus metrics.
package metrics

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/roach88/tidewater/internal/engine"
	"github.com/roach88/tidewater/internal/event"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "tidewater"

// Collector is an engine observer that updates Prometheus metrics for every
// processed event.
type Collector struct {
	events    *prometheus.CounterVec
	cargo     *prometheus.CounterVec
	clock     prometheus.Gauge
	remaining *prometheus.GaugeVec
}

// NewCollector registers the simulation metrics on reg. If reg is nil, the
// default registerer is used. If the collectors are already registered, the
// existing ones are reused. An empty namespace means DefaultNamespace.
func NewCollector(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Total number of processed simulation events",
	}, []string{"kind"})
	cargo := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cargo_moved_total",
		Help:      "Cargo quantity loaded or unloaded",
	}, []string{"cargo", "phase"})
	clock := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "simulation_clock",
		Help:      "Current simulation time",
	})
	remaining := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "vessel_remaining_tasks",
		Help:      "Tasks left in each vessel's schedule",
	}, []string{"vessel"})

	var err error
	if events, err = register(reg, events); err != nil {
		return nil, err
	}
	if cargo, err = register(reg, cargo); err != nil {
		return nil, err
	}
	if clock, err = register(reg, clock); err != nil {
		return nil, err
	}
	if remaining, err = register(reg, remaining); err != nil {
		return nil, err
	}

	return &Collector{events: events, cargo: cargo, clock: clock, remaining: remaining}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

// Notify implements engine.Observer.
func (c *Collector) Notify(_ context.Context, n engine.Notification) error {
	ev := n.Event
	c.events.WithLabelValues(string(ev.Kind)).Inc()
	c.clock.Set(ev.Time)

	if ev.Kind == event.KindCargoTransfer && ev.Payload.Trade != nil {
		c.cargo.WithLabelValues(ev.Payload.Trade.CargoType, ev.Payload.Phase.String()).Add(ev.Payload.Trade.Amount)
	}
	if n.Report != nil {
		c.remaining.WithLabelValues(n.Report.Vessel).Set(float64(n.Report.Remaining))
	}
	return nil
}

// WriteText writes everything g gathers in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
