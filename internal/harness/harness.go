package harness

import (
	"context"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/tidewater/internal/engine"
	"github.com/roach88/tidewater/internal/event"
	"github.com/roach88/tidewater/internal/logger"
	"github.com/roach88/tidewater/internal/metrics"
	"github.com/roach88/tidewater/internal/schedule"
	"github.com/roach88/tidewater/internal/store"
	"github.com/roach88/tidewater/internal/testutil"
)

// KindTradeCommit is the application event that hands a late trade to its
// vessel. Its info is the trade ID.
const KindTradeCommit event.Kind = "trade_commit"

// Option configures a run.
type Option func(*options)

type options struct {
	store     *store.Store
	registry  prometheus.Registerer
	namespace string
	log       logger.Logger
	runIDs    engine.RunIDGenerator
}

// WithStore records the run into st instead of a private in-memory log.
func WithStore(st *store.Store) Option {
	return func(o *options) { o.store = st }
}

// WithMetrics registers a metrics collector on reg for the run.
func WithMetrics(reg prometheus.Registerer, namespace string) Option {
	return func(o *options) {
		o.registry = reg
		o.namespace = namespace
	}
}

// WithLogger sets the engine logger. Runs are silent by default.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRunIDGenerator overrides the scenario's fixed run ID.
func WithRunIDGenerator(gen engine.RunIDGenerator) Option {
	return func(o *options) { o.runIDs = gen }
}

// Harness drives one scenario through the engine.
type Harness struct {
	scenario *Scenario
	engine   *engine.Engine
	trades   map[string]TradeSpec
	result   *Result
	log      logger.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Build the distance network and the fleet
//  2. Plan every trade due at time zero and record its feasibility
//  3. Queue a trade_commit event for every later trade
//  4. Run the engine to completion, logging each event to the store
//  5. Read the trace back and evaluate expectations
//
// Without WithStore each run uses a fresh in-memory database.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{log: logger.NopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runIDs == nil {
		o.runIDs = testutil.NewFixedRunIDGenerator(scenario.RunID)
	}

	st := o.store
	if st == nil {
		mem, err := store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer mem.Close()
		st = mem
	}

	provider, err := scenario.Network.Provider()
	if err != nil {
		return nil, fmt.Errorf("failed to build network: %w", err)
	}

	engineOpts := []engine.EngineOption{
		engine.WithRunID(o.runIDs),
		engine.WithLogger(o.log),
	}
	if scenario.Horizon > 0 {
		engineOpts = append(engineOpts, engine.WithHorizon(scenario.Horizon))
	}
	eng := engine.New(provider, engineOpts...)

	h := &Harness{
		scenario: scenario,
		engine:   eng,
		trades:   make(map[string]TradeSpec, len(scenario.Trades)),
		result:   NewResult(),
		log:      o.log,
	}
	h.result.RunID = eng.RunID()

	rec, err := store.NewRecorder(ctx, st, eng.RunID(), scenario.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to start run log: %w", err)
	}
	eng.RegisterObserver(rec)

	if o.registry != nil {
		coll, err := metrics.NewCollector(o.registry, o.namespace)
		if err != nil {
			return nil, err
		}
		eng.RegisterObserver(coll)
	}

	if err := h.plan(); err != nil {
		return nil, err
	}
	eng.RegisterObserver(engine.ObserverFunc(h.onTradeCommit))

	if err := eng.Run(ctx); err != nil {
		return nil, fmt.Errorf("run %s: %w", eng.RunID(), err)
	}

	digest, err := rec.Finish(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to finish run log: %w", err)
	}
	h.result.Digest = digest

	records, err := st.Events(ctx, eng.RunID())
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	h.result.Trace = records
	h.collect()

	if scenario.Expect != nil {
		for _, msg := range EvaluateExpect(h.result, scenario.Expect) {
			h.result.AddError(msg)
		}
	}

	return h.result, nil
}

// plan adds the fleet, commits the initial trades and queues late ones.
func (h *Harness) plan() error {
	for _, vs := range h.scenario.Vessels {
		if _, err := h.engine.AddVessel(vs.Vessel()); err != nil {
			return err
		}
	}

	var late []TradeSpec
	for _, ts := range h.scenario.Trades {
		h.trades[ts.ID] = ts
		if ts.At > 0 {
			late = append(late, ts)
			continue
		}
		sched, _ := h.engine.Schedule(ts.Vessel)
		if err := sched.AddTransportation(ts.Trade(), ts.Placement()...); err != nil {
			return fmt.Errorf("trade %s: %w", ts.ID, err)
		}
	}

	for _, vs := range h.scenario.Vessels {
		sched, _ := h.engine.Schedule(vs.Name)
		h.result.Feasible[vs.Name] = sched.Verify()
		h.result.Planned[vs.Name] = sched.CompletionTime()
		if err := h.engine.Commit(vs.Name, sched); err != nil {
			return fmt.Errorf("commit vessel %s: %w", vs.Name, err)
		}
	}

	sort.SliceStable(late, func(i, j int) bool { return late[i].At < late[j].At })
	for _, ts := range late {
		h.engine.Enqueue(event.New(ts.At, KindTradeCommit, ts.ID))
	}
	return nil
}

// onTradeCommit extends a copy of the vessel's plan with the trade and
// commits it when it stays feasible.
func (h *Harness) onTradeCommit(_ context.Context, n engine.Notification) error {
	if n.Event.Kind != KindTradeCommit {
		return nil
	}
	ts, ok := h.trades[n.Event.Payload.Info]
	if !ok {
		return fmt.Errorf("unknown trade %q", n.Event.Payload.Info)
	}
	sched, ok := h.engine.Schedule(ts.Vessel)
	if !ok {
		return engine.NewUnknownVesselError(ts.Vessel)
	}

	candidate := sched.Copy()
	if err := candidate.AddTransportation(ts.Trade(), ts.Placement()...); err != nil {
		h.reject(ts, err.Error())
		return nil
	}
	if !candidate.Verify() {
		h.reject(ts, "plan would become infeasible")
		return nil
	}
	return h.engine.Commit(ts.Vessel, candidate)
}

func (h *Harness) reject(ts TradeSpec, reason string) {
	h.log.Infof("trade %s rejected for %s: %s", ts.ID, ts.Vessel, reason)
	h.result.Rejected = append(h.result.Rejected, ts.ID)
}

// collect fills the fleet summary of the result.
func (h *Harness) collect() {
	for _, rec := range h.result.Trace {
		if rec.Vessel != "" {
			h.result.Completion[rec.Vessel] = rec.Time
		}
	}
	for _, name := range h.engine.Vessels() {
		v, _ := h.engine.Vessel(name)
		h.result.Locations[name] = string(v.Location)
		h.result.Holds[name] = v.HoldSnapshot()
	}
}

// VesselPlan is the static analysis of one vessel's trades.
type VesselPlan struct {
	Vessel     string
	Feasible   bool
	Completion float64
	Tasks      []schedule.PlannedTask
}

// Plan schedules every trade of the scenario at time zero, late ones
// included, without running the engine.
func Plan(scenario *Scenario) ([]VesselPlan, error) {
	provider, err := scenario.Network.Provider()
	if err != nil {
		return nil, fmt.Errorf("failed to build network: %w", err)
	}
	env := testutil.NewEnv(provider)

	plans := make([]VesselPlan, 0, len(scenario.Vessels))
	for _, vs := range scenario.Vessels {
		sched := schedule.New(vs.Vessel(), env)
		for _, ts := range scenario.Trades {
			if ts.Vessel != vs.Name {
				continue
			}
			if err := sched.AddTransportation(ts.Trade(), ts.Placement()...); err != nil {
				return nil, fmt.Errorf("trade %s: %w", ts.ID, err)
			}
		}
		plans = append(plans, VesselPlan{
			Vessel:     vs.Name,
			Feasible:   sched.Verify(),
			Completion: sched.CompletionTime(),
			Tasks:      sched.Tasks(),
		})
	}
	return plans, nil
}
