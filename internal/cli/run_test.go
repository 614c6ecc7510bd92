package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tidewater/internal/engine"
	"github.com/roach88/tidewater/internal/harness"
	"github.com/roach88/tidewater/internal/store"
)

func TestRun_TextOutput(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "text"})

	stdout, stderr, err := execute(t, cmd, twoTrades)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Scenario two-trades (run run-two-trades)")
	assert.Contains(t, stdout, "  0 arrival terror@A\n")
	assert.Contains(t, stdout, "  38 cargo_transfer terror@D\n")
	assert.Contains(t, stdout, "Fleet:")
	assert.Contains(t, stdout, "Digest: ")
	assert.NotContains(t, stdout, "Expectations failed")
	assert.Contains(t, stderr, "running scenario two-trades", "logs go to stderr")
}

func TestRun_JSONOutput(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "json"})

	stdout, _, err := execute(t, cmd, lateCommit)
	require.NoError(t, err)

	var result RunResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "late-commit", result.Scenario)
	assert.True(t, result.Pass)
	assert.Len(t, result.Events, 13)
	assert.Equal(t, map[string]string{"terror": "19", "erebus": "34"}, result.Completion)
	assert.Equal(t, []string{"t2"}, result.Rejected)
	assert.Len(t, result.Digest, 64)

	sc, err := harness.LoadScenario(lateCommit)
	require.NoError(t, err)
	res, err := harness.Run(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, res.Digest, result.Digest, "the CLI runs the same simulation as the harness")
}

func TestRun_DatabaseAndMetrics(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	cmd := newRunCommand(&RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		RunIDs:      engine.NewFixedGenerator("run-a"),
	})

	stdout, _, err := execute(t, cmd, "--db", dbPath, "--metrics", twoTrades)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(run run-a)")
	assert.Contains(t, stdout, `tidewater_events_total{kind="arrival"} 4`)
	assert.Contains(t, stdout, "tidewater_simulation_clock 38")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-a", runs[0].ID)
	assert.Equal(t, "two-trades", runs[0].Scenario)
	assert.EqualValues(t, 11, runs[0].Events)
	assert.True(t, runs[0].Finished)
}

func TestRun_DatabaseUsesFreshRunIDs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	for i := 0; i < 2; i++ {
		_, _, err := execute(t, NewRunCommand(&RootOptions{Format: "text"}), "--db", dbPath, twoTrades)
		require.NoError(t, err)
	}

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.NotEqual(t, runs[0].ID, runs[1].ID)
	assert.Equal(t, runs[0].Digest, runs[1].Digest)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeScenario(t, dir, "tidewater.yaml", "engine:\n  horizon: 13\nlogging:\n  level: error\n")

	stdout, stderr, err := execute(t, NewRunCommand(&RootOptions{Format: "json"}), "--config", cfg, twoTrades)
	require.NoError(t, err)
	assert.Empty(t, stderr, "info logs are below the configured level")

	var result RunResult
	decodeResponse(t, stdout, &result)
	assert.Len(t, result.Events, 4, "the configured horizon stops the run")
	assert.False(t, result.Pass)
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing scenario", func(t *testing.T) {
		stdout, _, err := execute(t, NewRunCommand(&RootOptions{Format: "json"}), "does-not-exist.yaml")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))

		resp := decodeResponse(t, stdout, nil)
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, CodeScenario, resp.Error.Code)
	})

	t.Run("bad config", func(t *testing.T) {
		cfg := writeScenario(t, t.TempDir(), "tidewater.toml", "")
		_, _, err := execute(t, NewRunCommand(&RootOptions{Format: "text"}), "--config", cfg, twoTrades)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, err.Error(), "failed to load config")
	})

	t.Run("no args", func(t *testing.T) {
		_, _, err := execute(t, NewRunCommand(&RootOptions{Format: "text"}))
		assert.Error(t, err)
	})
}
