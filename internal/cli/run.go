package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/tidewater/internal/config"
	"github.com/roach88/tidewater/internal/engine"
	"github.com/roach88/tidewater/internal/harness"
	"github.com/roach88/tidewater/internal/logger"
	"github.com/roach88/tidewater/internal/metrics"
	"github.com/roach88/tidewater/internal/store"
	"github.com/roach88/tidewater/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Config   string
	Metrics  bool

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, runs logged to a database get a UUIDv7 and other runs keep
	// the scenario's run id.
	RunIDs engine.RunIDGenerator
}

// RunResult is the outcome of one simulated scenario.
type RunResult struct {
	Scenario   string            `json:"scenario"`
	RunID      string            `json:"run_id"`
	Pass       bool              `json:"pass"`
	Digest     string            `json:"digest"`
	Events     []string          `json:"events"`
	Planned    map[string]string `json:"planned"`
	Completion map[string]string `json:"completion"`
	Locations  map[string]string `json:"locations"`
	Rejected   []string          `json:"rejected"`
	Errors     []string          `json:"errors,omitempty"`
	Metrics    string            `json:"metrics,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Simulate a scenario",
		Long: `Simulate a scenario file and print its event trace.

Trades due at time zero are planned up front; later trades are offered
to their vessel when their commit time comes and rejected if they would
make the plan infeasible. With --db every event is appended to a SQLite
run log under a fresh run id.

Example:
  tidewater run ./scenarios/two_trades.yaml
  tidewater run --db ./runs.db --metrics ./scenarios/late_commit.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log")
	cmd.Flags().StringVar(&opts.Config, "config", "", "path to YAML or JSON config file")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print Prometheus metrics after the run")

	return cmd
}

func runScenario(opts *RunOptions, path string, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return out.Fail(ExitCommandError, CodeConfig, "failed to load config", err)
	}
	log, err := newLogger(opts.RootOptions, cfg, cmd)
	if err != nil {
		return out.Fail(ExitCommandError, CodeConfig, "failed to create logger", err)
	}

	sc, err := harness.LoadScenario(path)
	if err != nil {
		return out.Fail(ExitCommandError, CodeScenario, "failed to load scenario", err)
	}
	if sc.Horizon == 0 {
		sc.Horizon = cfg.Engine.Horizon
	}

	runOpts := []harness.Option{harness.WithLogger(log)}
	ids := opts.RunIDs

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}
	if dbPath != "" {
		log.Debugf("opening run log %s", dbPath)
		st, err := store.Open(dbPath)
		if err != nil {
			return out.Fail(ExitCommandError, CodeStore, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				log.Errorf("error closing database: %v", closeErr)
			}
		}()
		runOpts = append(runOpts, harness.WithStore(st))
		if ids == nil {
			ids = engine.UUIDv7Generator{}
		}
	}
	if ids != nil {
		runOpts = append(runOpts, harness.WithRunIDGenerator(ids))
	}

	var reg *prometheus.Registry
	if opts.Metrics || cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		runOpts = append(runOpts, harness.WithMetrics(reg, cfg.Metrics.Namespace))
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("running scenario %s", sc.Name)
	res, err := harness.Run(ctx, sc, runOpts...)
	if err != nil {
		return out.Fail(ExitFailure, CodeRun, "run failed", err)
	}
	log.Infof("run %s finished after %d events", res.RunID, len(res.Trace))

	result := newRunResult(sc, res)
	if reg != nil {
		var buf strings.Builder
		if err := metrics.WriteText(&buf, reg); err != nil {
			return out.Fail(ExitFailure, CodeRun, "failed to render metrics", err)
		}
		result.Metrics = buf.String()
	}
	return out.Success(result)
}

func newRunResult(sc *harness.Scenario, res *harness.Result) RunResult {
	return RunResult{
		Scenario:   sc.Name,
		RunID:      res.RunID,
		Pass:       res.Pass,
		Digest:     res.Digest,
		Events:     res.Events(),
		Planned:    formatTimes(res.Planned),
		Completion: formatTimes(res.Completion),
		Locations:  res.Locations,
		Rejected:   res.Rejected,
		Errors:     res.Errors,
	}
}

// WriteText prints the trace followed by the fleet summary.
func (r RunResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Scenario %s (run %s)\n", r.Scenario, r.RunID)
	for _, ev := range r.Events {
		fmt.Fprintf(w, "  %s\n", ev)
	}
	fmt.Fprintln(w, "Fleet:")
	for _, name := range sortedNames(r.Locations) {
		done, ok := r.Completion[name]
		if !ok {
			done = "-"
		}
		fmt.Fprintf(w, "  %-12s at %-12s done %-8s planned %s\n", name, r.Locations[name], done, r.Planned[name])
	}
	if len(r.Rejected) > 0 {
		fmt.Fprintf(w, "Rejected: %s\n", strings.Join(r.Rejected, ", "))
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Expectations failed:")
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
	fmt.Fprintf(w, "Digest: %s\n", r.Digest)
	if r.Metrics != "" {
		fmt.Fprintln(w, "Metrics:")
		_, err := io.WriteString(w, r.Metrics)
		return err
	}
	return nil
}

// newLogger builds the command logger on stderr. --verbose forces debug.
func newLogger(opts *RootOptions, cfg *config.Config, cmd *cobra.Command) (logger.Logger, error) {
	level := cfg.Logging.Level
	if opts.Verbose {
		level = "debug"
	}
	return logger.NewFormatted("tidewater", cmd.ErrOrStderr(), level, cfg.Logging.Format)
}

// commandContext returns the command's context, or Background when the
// command runs outside ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// formatTimes renders simulation times with trace.FormatTime so +Inf
// survives JSON encoding.
func formatTimes(m map[string]float64) map[string]string {
	out := make(map[string]string, len(m))
	for k, t := range m {
		out[k] = trace.FormatTime(t)
	}
	return out
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
