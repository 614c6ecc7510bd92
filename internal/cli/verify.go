package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/tidewater/internal/harness"
	"github.com/roach88/tidewater/internal/trace"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
}

// TaskWindow is one planned task with its solved start window.
type TaskWindow struct {
	Index         int    `json:"index"`
	Trade         string `json:"trade"`
	Phase         string `json:"phase"`
	Location      string `json:"location"`
	EarliestStart string `json:"earliest_start"`
	LatestStart   string `json:"latest_start"`
}

// VesselVerdict is the static feasibility of one vessel's plan.
type VesselVerdict struct {
	Vessel     string       `json:"vessel"`
	Feasible   bool         `json:"feasible"`
	Completion string       `json:"completion"`
	Tasks      []TaskWindow `json:"tasks"`
}

// VerifyResult holds the verdict of every vessel.
type VerifyResult struct {
	Scenario string          `json:"scenario"`
	Feasible bool            `json:"feasible"`
	Vessels  []VesselVerdict `json:"vessels"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <scenario>",
		Short: "Check plan feasibility without simulating",
		Long: `Plan every trade of a scenario at time zero, late trades included,
and report whether each vessel's plan is feasible together with the
solved start window of every task.

Exit codes:
  0 - Every plan is feasible
  1 - At least one plan is infeasible
  2 - Command error (unreadable scenario, etc.)

Examples:
  tidewater verify ./scenarios/two_trades.yaml
  tidewater verify ./scenarios/two_trades.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	return cmd
}

func runVerify(opts *VerifyOptions, path string, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)

	sc, err := harness.LoadScenario(path)
	if err != nil {
		return out.Fail(ExitCommandError, CodeScenario, "failed to load scenario", err)
	}
	plans, err := harness.Plan(sc)
	if err != nil {
		return out.Fail(ExitCommandError, CodeScenario, "failed to plan scenario", err)
	}

	result := VerifyResult{Scenario: sc.Name, Feasible: true, Vessels: make([]VesselVerdict, 0, len(plans))}
	for _, p := range plans {
		out.VerboseLog("planned %d tasks for %s", len(p.Tasks), p.Vessel)
		v := VesselVerdict{
			Vessel:     p.Vessel,
			Feasible:   p.Feasible,
			Completion: trace.FormatTime(p.Completion),
			Tasks:      make([]TaskWindow, 0, len(p.Tasks)),
		}
		for _, t := range p.Tasks {
			v.Tasks = append(v.Tasks, TaskWindow{
				Index:         t.Index,
				Trade:         t.Task.Trade.ID,
				Phase:         t.Task.Phase.String(),
				Location:      string(t.Task.Location),
				EarliestStart: trace.FormatTime(t.EarliestStart),
				LatestStart:   trace.FormatTime(t.LatestStart),
			})
		}
		result.Feasible = result.Feasible && p.Feasible
		result.Vessels = append(result.Vessels, v)
	}

	if err := out.Success(result); err != nil {
		return err
	}
	if !result.Feasible {
		return NewExitError(ExitFailure, "infeasible plan")
	}
	return nil
}

// WriteText prints one block per vessel.
func (r VerifyResult) WriteText(w io.Writer) error {
	for _, v := range r.Vessels {
		verdict := "feasible"
		if !v.Feasible {
			verdict = "INFEASIBLE"
		}
		fmt.Fprintf(w, "%s: %s, completes at %s\n", v.Vessel, verdict, v.Completion)
		for _, t := range v.Tasks {
			fmt.Fprintf(w, "  %d. %-8s %-4s at %-12s start [%s, %s]\n",
				t.Index, t.Phase, t.Trade, t.Location, t.EarliestStart, t.LatestStart)
		}
	}
	return nil
}
