package engine

import (
	"context"
	"errors"
	"math"

	"github.com/roach88/tidewater/internal/event"
	"github.com/roach88/tidewater/internal/logger"
	"github.com/roach88/tidewater/internal/model"
	"github.com/roach88/tidewater/internal/network"
	"github.com/roach88/tidewater/internal/schedule"
)

// RunIDGenerator generates run identifiers.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type RunIDGenerator interface {
	Generate() string
}

// member is one vessel of the fleet together with its committed schedule.
type member struct {
	vessel *model.Vessel
	sched  *schedule.Schedule
	log    logger.Logger

	// inFlight is set while pending, the event the schedule last popped,
	// sits in the queue. Only that event advances the schedule.
	inFlight bool
	pending  event.Event
}

// owns reports whether ev is the schedule event m is waiting for.
func (m *member) owns(ev event.Event) bool {
	return m.inFlight && ev.Kind.IsBuiltin() && ev == m.pending
}

// Engine is the single-writer simulation loop.
//
// Thread-safety model: none. An Engine and the schedules it owns must be
// used from one goroutine. Observers run inside Step.
type Engine struct {
	provider network.Provider
	clock    *Clock
	queue    *event.Queue
	log      logger.Logger
	horizon  float64
	runID    string
	idGen    RunIDGenerator

	fleet map[string]*member
	order []string

	observers    []registration
	nextObserver ObserverID

	processed int64

	// halted is the fatal error that stopped the loop, if any.
	halted error
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithLogger sets the logger. Default: logger.NopLogger.
func WithLogger(l logger.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithHorizon stops Run before the first event later than t.
//
// Default: no horizon. Step ignores the horizon.
func WithHorizon(t float64) EngineOption {
	return func(e *Engine) {
		e.horizon = t
	}
}

// WithRunID sets the run id generator. Default: UUIDv7Generator.
func WithRunID(gen RunIDGenerator) EngineOption {
	return func(e *Engine) {
		e.idGen = gen
	}
}

// WithClock starts the engine on a pre-configured clock.
func WithClock(c *Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// New creates an Engine measuring distances with provider.
func New(provider network.Provider, opts ...EngineOption) *Engine {
	e := &Engine{
		provider: provider,
		clock:    NewClock(),
		queue:    event.NewQueue(),
		log:      logger.NopLogger{},
		horizon:  math.Inf(1),
		idGen:    UUIDv7Generator{},
		fleet:    make(map[string]*member),
	}

	for _, opt := range opts {
		opt(e)
	}
	e.runID = e.idGen.Generate()
	e.log = e.log.With("run_id", e.runID)

	return e
}

// Now returns the simulation time. Implements schedule.Environment.
func (e *Engine) Now() float64 {
	return e.clock.Now()
}

// Distance implements schedule.Environment.
func (e *Engine) Distance(a, b model.Location) float64 {
	return e.provider.Distance(a, b)
}

// RunID identifies this simulation run.
func (e *Engine) RunID() string {
	return e.runID
}

// Processed returns the number of events processed so far.
func (e *Engine) Processed() int64 {
	return e.processed
}

// Pending returns the number of queued events.
func (e *Engine) Pending() int {
	return e.queue.Len()
}

// Halted returns the fatal error that stopped the engine, or nil.
func (e *Engine) Halted() error {
	return e.halted
}

// AddVessel registers v with an empty schedule and returns the schedule.
func (e *Engine) AddVessel(v *model.Vessel) (*schedule.Schedule, error) {
	if _, ok := e.fleet[v.Name]; ok {
		return nil, NewDuplicateVesselError(v.Name)
	}
	m := &member{vessel: v, sched: schedule.New(v, e), log: e.log.With("vessel", v.Name)}
	e.fleet[v.Name] = m
	e.order = append(e.order, v.Name)
	return m.sched, nil
}

// Vessels lists vessel names in registration order.
func (e *Engine) Vessels() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Vessel looks up a vessel by name.
func (e *Engine) Vessel(name string) (*model.Vessel, bool) {
	m, ok := e.fleet[name]
	if !ok {
		return nil, false
	}
	return m.vessel, true
}

// Schedule returns the committed schedule of a vessel.
func (e *Engine) Schedule(name string) (*schedule.Schedule, bool) {
	m, ok := e.fleet[name]
	if !ok {
		return nil, false
	}
	return m.sched, true
}

// Commit replaces the schedule of a vessel, typically with a Copy the caller
// extended speculatively. When the vessel has no event in flight and the
// new schedule has work, its first event is queued right away.
func (e *Engine) Commit(name string, s *schedule.Schedule) error {
	m, ok := e.fleet[name]
	if !ok {
		return NewUnknownVesselError(name)
	}
	if s.Vessel() != m.vessel {
		return &RuntimeError{
			Code:    ErrCodeUnknownVessel,
			Message: "schedule belongs to a different vessel",
			Vessel:  name,
		}
	}
	m.sched = s
	if m.inFlight || s.Len() == 0 {
		return nil
	}
	return e.advance(m)
}

// Enqueue submits an application event. Application events only reach
// observers, even when their payload names a vessel.
func (e *Engine) Enqueue(ev event.Event) {
	e.queue.Put(ev)
}

// VesselLocation reports where a vessel is at the current simulation time.
func (e *Engine) VesselLocation(name string) (schedule.Whereabouts, error) {
	m, ok := e.fleet[name]
	if !ok {
		return schedule.Whereabouts{}, NewUnknownVesselError(name)
	}
	return m.sched.Whereabouts(e.Now()), nil
}

// advance pops the next event of m and queues it.
func (e *Engine) advance(m *member) error {
	ev, err := m.sched.Pop()
	if err != nil {
		return NewScheduleFailureError(m.vessel.Name, err)
	}
	e.queue.Put(ev)
	m.inFlight = true
	m.pending = ev
	return nil
}

// Step processes the earliest queued event and returns it.
//
// It returns event.ErrEmptyQueue when nothing is queued. A clock regression
// or a schedule failure halts the engine: the error is returned by this and
// every later call.
func (e *Engine) Step(ctx context.Context) (event.Event, error) {
	if e.halted != nil {
		return event.Event{}, e.halted
	}
	ev, err := e.queue.Get()
	if err != nil {
		return event.Event{}, err
	}
	if err := e.clock.Advance(ev.Time); err != nil {
		return ev, e.halt(ev, err)
	}
	e.processed++

	m, err := e.owner(ev)
	if err != nil {
		return ev, e.halt(ev, err)
	}
	var report *VesselReport
	if m != nil {
		m.inFlight = false
		m.pending = event.Event{}
		m.sched.Apply(ev)
		if m.sched.Len() > 0 {
			if err := e.advance(m); err != nil {
				return ev, e.halt(ev, err)
			}
		}
		report = e.report(m)
	}

	log := e.log
	fields := map[string]any{"seq": e.processed, "time": ev.Time, "kind": string(ev.Kind)}
	if m != nil {
		log = m.log
		fields["remaining"] = report.Remaining
	} else if ev.Payload.Vessel != "" {
		fields["vessel"] = ev.Payload.Vessel
	}
	log.Debugw("event processed", fields)

	e.notify(ctx, Notification{Seq: e.processed, RunID: e.runID, Event: ev, Report: report})
	return ev, nil
}

// owner returns the member whose schedule ev advances, or nil when ev only
// goes to observers. A schedule kind naming an unregistered vessel is an
// UNKNOWN_VESSEL error.
func (e *Engine) owner(ev event.Event) (*member, error) {
	name := ev.Payload.Vessel
	if name == "" {
		return nil, nil
	}
	m, ok := e.fleet[name]
	if !ok {
		if ev.Kind.IsBuiltin() {
			return nil, NewUnknownVesselError(name)
		}
		return nil, nil
	}
	if !m.owns(ev) {
		m.log.Debugf("event %s does not advance the schedule", ev)
		return nil, nil
	}
	return m, nil
}

func (e *Engine) halt(ev event.Event, err error) error {
	e.halted = err
	e.log.Errorf("engine halted at %s: %v", ev, err)
	return err
}

func (e *Engine) report(m *member) *VesselReport {
	return &VesselReport{
		Vessel:     m.vessel.Name,
		Location:   m.vessel.Location,
		Hold:       m.vessel.HoldSnapshot(),
		Remaining:  m.sched.Len(),
		Completion: m.sched.CompletionTime(),
	}
}

// Run processes events until the queue drains, the next event lies beyond
// the horizon, or ctx is cancelled. The context is checked between events.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Infof("engine starting run %s with %d vessels", e.runID, len(e.fleet))

	for {
		if err := ctx.Err(); err != nil {
			e.log.Infof("engine stopping: %v", err)
			return err
		}
		next, err := e.queue.Peek()
		if errors.Is(err, event.ErrEmptyQueue) {
			e.log.Infof("engine stopping: queue drained at %g after %d events", e.Now(), e.processed)
			return nil
		}
		if next.Time > e.horizon {
			e.log.Infof("engine stopping: horizon %g reached", e.horizon)
			return nil
		}
		if _, err := e.Step(ctx); err != nil {
			return err
		}
	}
}
