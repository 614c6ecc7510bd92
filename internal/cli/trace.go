package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tidewater/internal/store"
	"github.com/roach88/tidewater/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
	Filter   store.Filter
}

// RunSummary is one stored run.
type RunSummary struct {
	RunID    string `json:"run_id"`
	Scenario string `json:"scenario"`
	Events   int64  `json:"events"`
	Finished bool   `json:"finished"`
	Digest   string `json:"digest,omitempty"`
}

// RunList lists every stored run.
type RunList struct {
	Runs []RunSummary `json:"runs"`
}

// TraceResult holds the recorded events of one run.
type TraceResult struct {
	Run    RunSummary       `json:"run"`
	Kind   string           `json:"kind,omitempty"`
	Vessel string           `json:"vessel,omitempty"`
	Events []map[string]any `json:"events"`

	records []trace.Record
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded runs and their events",
		Long: `Read the SQLite run log written by "tidewater run --db".

Without --run every stored run is listed. With --run the events of that
run are printed in processing order, optionally filtered by kind, vessel
or trade and paged with --after and --limit.

Examples:
  tidewater trace --db ./runs.db
  tidewater trace --db ./runs.db --run 0190...
  tidewater trace --db ./runs.db --run 0190... --kind cargo_transfer --format json
  tidewater trace --db ./runs.db --run 0190... --vessel terror --after 20 --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to show")
	cmd.Flags().StringVar(&opts.Filter.Kind, "kind", "", "filter to one event kind")
	cmd.Flags().StringVar(&opts.Filter.Vessel, "vessel", "", "filter to one vessel")
	cmd.Flags().StringVar(&opts.Filter.Trade, "trade", "", "filter to one trade")
	cmd.Flags().Int64Var(&opts.Filter.AfterSeq, "after", 0, "skip events up to this seq")
	cmd.Flags().IntVar(&opts.Filter.Limit, "limit", 0, "maximum number of events")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	// Opening a missing path would create an empty database.
	if _, err := os.Stat(opts.Database); err != nil {
		return out.Fail(ExitCommandError, CodeStore, "database not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return out.Fail(ExitCommandError, CodeStore, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID == "" {
		runs, err := st.Runs(ctx)
		if err != nil {
			return out.Fail(ExitCommandError, CodeStore, "failed to list runs", err)
		}
		list := RunList{Runs: make([]RunSummary, 0, len(runs))}
		for _, r := range runs {
			list.Runs = append(list.Runs, summarize(r))
		}
		return out.Success(list)
	}

	info, err := st.Run(ctx, opts.RunID)
	if errors.Is(err, store.ErrRunNotFound) {
		return out.Fail(ExitCommandError, CodeStore, fmt.Sprintf("run not found: %s", opts.RunID), err)
	}
	if err != nil {
		return out.Fail(ExitCommandError, CodeStore, "failed to read run", err)
	}

	records, err := st.Find(ctx, opts.RunID, opts.Filter)
	if err != nil {
		return out.Fail(ExitCommandError, CodeStore, "failed to read events", err)
	}
	out.VerboseLog("read %d events of run %s", len(records), opts.RunID)

	result := TraceResult{
		Run:     summarize(info),
		Kind:    opts.Filter.Kind,
		Vessel:  opts.Filter.Vessel,
		Events:  make([]map[string]any, 0, len(records)),
		records: records,
	}
	for _, r := range records {
		result.Events = append(result.Events, r.Object())
	}
	return out.Success(result)
}

func summarize(r store.RunInfo) RunSummary {
	return RunSummary{
		RunID:    r.ID,
		Scenario: r.Scenario,
		Events:   r.Events,
		Finished: r.Finished,
		Digest:   r.Digest,
	}
}

// WriteText prints one line per run.
func (l RunList) WriteText(w io.Writer) error {
	if len(l.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range l.Runs {
		status := "finished"
		if !r.Finished {
			status = "incomplete"
		}
		fmt.Fprintf(w, "%s  %-20s %4d events  %s\n", r.RunID, r.Scenario, r.Events, status)
	}
	return nil
}

// WriteText prints the run header and its timeline.
func (t TraceResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Trace for run: %s (%s)\n", t.Run.RunID, t.Run.Scenario)
	if t.Run.Digest != "" {
		fmt.Fprintf(w, "Digest: %s\n", t.Run.Digest)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Timeline ===")
	if len(t.records) == 0 {
		fmt.Fprintln(w, "  (no events)")
		return nil
	}
	for _, r := range t.records {
		fmt.Fprintf(w, "  [%d] %s\n", r.Seq, r)
	}
	return nil
}
