package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tidewater/internal/harness"
	"github.com/roach88/tidewater/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Runs     int
	Database string
	RunID    string // optional - compare against a recorded run
}

// RecordedRun is the stored run a replay was compared against.
type RecordedRun struct {
	RunID      string `json:"run_id"`
	Digest     string `json:"digest"`
	Recomputed string `json:"recomputed"`
	Events     int64  `json:"events"`
	Intact     bool   `json:"intact"`
}

// ReplayResult holds the digests of every replay.
type ReplayResult struct {
	Scenario      string       `json:"scenario"`
	Digests       []string     `json:"digests"`
	Recorded      *RecordedRun `json:"recorded,omitempty"`
	Deterministic bool         `json:"deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scenario>",
		Short: "Re-run a scenario and verify determinism",
		Long: `Run a scenario several times and compare the trace digests.

With --db and --run the digest is also compared against a run recorded
by "tidewater run --db", and the recorded events are checked against the
digest stored with them.

Exit codes:
  0 - Every digest matches
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  tidewater replay ./scenarios/two_trades.yaml --runs 5
  tidewater replay ./scenarios/two_trades.yaml --db ./runs.db --run 0190...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Runs, "runs", 2, "number of fresh runs to compare")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "recorded run id to compare against (requires --db)")
	cmd.MarkFlagsRequiredTogether("db", "run")

	return cmd
}

func runReplay(opts *ReplayOptions, path string, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)

	if opts.Runs < 1 {
		return out.Fail(ExitCommandError, CodeScenario, fmt.Sprintf("--runs must be at least 1, got %d", opts.Runs), nil)
	}
	sc, err := harness.LoadScenario(path)
	if err != nil {
		return out.Fail(ExitCommandError, CodeScenario, "failed to load scenario", err)
	}

	result := ReplayResult{Scenario: sc.Name, Digests: make([]string, 0, opts.Runs), Deterministic: true}
	for i := 0; i < opts.Runs; i++ {
		res, err := harness.Run(ctx, sc)
		if err != nil {
			return out.Fail(ExitFailure, CodeRun, fmt.Sprintf("replay %d failed", i+1), err)
		}
		out.VerboseLog("replay %d: %s", i+1, res.Digest)
		if i > 0 && res.Digest != result.Digests[0] {
			result.Deterministic = false
		}
		result.Digests = append(result.Digests, res.Digest)
	}

	if opts.Database != "" {
		recorded, err := checkRecorded(cmd, opts.Database, opts.RunID)
		if err != nil {
			return out.Fail(ExitCommandError, CodeStore, "failed to check recorded run", err)
		}
		result.Recorded = recorded
		if !recorded.Intact || recorded.Digest != result.Digests[0] {
			result.Deterministic = false
		}
	}

	if err := out.Success(result); err != nil {
		return err
	}
	if !result.Deterministic {
		return NewExitError(ExitFailure, "replay is not deterministic")
	}
	return nil
}

func checkRecorded(cmd *cobra.Command, dbPath, runID string) (*RecordedRun, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("database not found: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	check, err := st.CheckRun(commandContext(cmd), runID)
	if err != nil {
		return nil, err
	}
	return &RecordedRun{
		RunID:      check.Run.ID,
		Digest:     check.Run.Digest,
		Recomputed: check.Recomputed,
		Events:     check.Run.Events,
		Intact:     check.Intact,
	}, nil
}

// WriteText prints every digest and the verdict.
func (r ReplayResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Scenario %s\n", r.Scenario)
	for i, d := range r.Digests {
		fmt.Fprintf(w, "  run %d: %s\n", i+1, d)
	}
	if rec := r.Recorded; rec != nil {
		integrity := "intact"
		if !rec.Intact {
			integrity = "TAMPERED"
		}
		fmt.Fprintf(w, "  recorded %s: %s (%d events, %s)\n", rec.RunID, rec.Digest, rec.Events, integrity)
	}
	if r.Deterministic {
		fmt.Fprintln(w, "✓ deterministic")
	} else {
		fmt.Fprintln(w, "✗ digests differ")
	}
	return nil
}
