package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tidewater/internal/engine"
	"github.com/roach88/tidewater/internal/harness"
	"github.com/roach88/tidewater/internal/store"
	"github.com/roach88/tidewater/internal/trace"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Golden   string // directory of <scenario>.golden traces
	Update   bool   // regenerate golden files
	Filter   string // scenario file filter (glob pattern)
	Database string // archive every trace into this run log
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Digest string   `json:"digest,omitempty"`
	RunID  string   `json:"run_id,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario|dir>...",
		Short: "Run scenarios and check their expectations",
		Long: `Run scenario files and evaluate their expect blocks.

Directories are searched recursively for .yaml and .yml files. With
--golden each trace is also compared byte for byte against
<golden>/<scenario name>.golden; --update rewrites those files instead.
With --db every trace is archived into a SQLite run log under a fresh
run id, whether the scenario passed or not.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  tidewater test ./scenarios
  tidewater test ./scenarios --filter "late_*"
  tidewater test ./scenarios --golden ./golden --update
  tidewater test ./scenarios --db ./runs.db
  tidewater test ./scenarios --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Golden, "golden", "", "directory of golden trace files")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files (requires --golden)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenario files by glob pattern")
	cmd.Flags().StringVar(&opts.Database, "db", "", "archive traces into this SQLite run log")

	return cmd
}

func runTests(opts *TestOptions, paths []string, cmd *cobra.Command) error {
	out := formatter(opts.RootOptions, cmd)

	if opts.Update && opts.Golden == "" {
		return out.Fail(ExitCommandError, CodeScenario, "--update requires --golden", nil)
	}
	if _, err := filepath.Match(opts.Filter, ""); err != nil {
		return out.Fail(ExitCommandError, CodeScenario, "invalid filter pattern", err)
	}

	var files []string
	for _, p := range paths {
		found, err := findScenarioFiles(p, opts.Filter)
		if err != nil {
			return out.Fail(ExitCommandError, CodeScenario, "failed to find scenarios", err)
		}
		files = append(files, found...)
	}

	var archive *store.Store
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return out.Fail(ExitCommandError, CodeStore, "failed to open database", err)
		}
		defer st.Close()
		archive = st
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files)), Total: len(files)}
	for _, f := range files {
		out.VerboseLog("running %s", f)
		sr := runTestScenario(opts, f, archive, cmd)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, sr)
	}

	if err := out.Success(result); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// findScenarioFiles returns path itself when it is a file, otherwise every
// YAML file below it whose base name matches filter.
func findScenarioFiles(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scenario path not found: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(p)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(p), ext)
			if ok, _ := filepath.Match(filter, name); !ok {
				return nil
			}
		}
		files = append(files, p)
		return nil
	})
	return files, err
}

// runTestScenario executes a single scenario and returns the result.
func runTestScenario(opts *TestOptions, file string, archive *store.Store, cmd *cobra.Command) ScenarioResult {
	sr := ScenarioResult{Name: filepath.Base(file), File: file}

	sc, err := harness.LoadScenario(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return sr
	}
	sr.Name = sc.Name

	ctx := commandContext(cmd)
	res, err := harness.Run(ctx, sc)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return sr
	}
	sr.Digest = res.Digest
	sr.Errors = res.Errors
	sr.Pass = res.Pass

	if archive != nil {
		runID := engine.UUIDv7Generator{}.Generate()
		if _, err := archive.WriteRun(ctx, runID, sc.Name, res.Trace); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to archive trace: %v", err))
		} else {
			sr.RunID = runID
		}
	}

	if opts.Golden == "" {
		return sr
	}
	if err := checkGolden(opts, sc.Name, res); err != nil {
		sr.Pass = false
		sr.Errors = append(sr.Errors, err.Error())
	}
	return sr
}

// checkGolden compares the canonical trace with the golden file, or
// rewrites it under --update.
func checkGolden(opts *TestOptions, name string, res *harness.Result) error {
	data, err := trace.Encode(res.Trace)
	if err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}
	path := filepath.Join(opts.Golden, name+".golden")

	if opts.Update {
		if err := os.MkdirAll(opts.Golden, 0o755); err != nil {
			return fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write golden file: %w", err)
		}
		return nil
	}

	want, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read golden file: %w", err)
	}
	if !bytes.Equal(want, data) {
		return fmt.Errorf("trace does not match %s (run with --update to regenerate)", path)
	}
	return nil
}

// WriteText prints one line per scenario and a summary.
func (r TestResult) WriteText(w io.Writer) error {
	if r.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}
	for _, s := range r.Scenarios {
		if s.Pass {
			fmt.Fprintf(w, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
	return nil
}
