package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tidewater/internal/store"
)

func TestTrace_ListRuns(t *testing.T) {
	dbPath := recordRun(t, "run-a")

	stdout, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "json"}), "--db", dbPath)
	require.NoError(t, err)

	var list RunList
	decodeResponse(t, stdout, &list)
	require.Len(t, list.Runs, 1)
	assert.Equal(t, "run-a", list.Runs[0].RunID)
	assert.Equal(t, "two-trades", list.Runs[0].Scenario)
	assert.EqualValues(t, 11, list.Runs[0].Events)
	assert.True(t, list.Runs[0].Finished)
	assert.Len(t, list.Runs[0].Digest, 64)

	stdout, _, err = execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "run-a")
	assert.Contains(t, stdout, "11 events  finished")
}

func TestTrace_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	stdout, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded.")
}

func TestTrace_RunTimeline(t *testing.T) {
	dbPath := recordRun(t, "run-a")

	stdout, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--run", "run-a")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Trace for run: run-a (two-trades)")
	assert.Contains(t, stdout, "=== Timeline ===")
	assert.Contains(t, stdout, "  [1] 0 arrival terror@A\n")
	assert.Contains(t, stdout, "  [11] 38 cargo_transfer terror@D\n")
}

func TestTrace_KindFilterJSON(t *testing.T) {
	dbPath := recordRun(t, "run-a")

	stdout, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "json"}),
		"--db", dbPath, "--run", "run-a", "--kind", "travel")
	require.NoError(t, err)

	var result TraceResult
	decodeResponse(t, stdout, &result)
	assert.Equal(t, "travel", result.Kind)
	require.Len(t, result.Events, 3)
	assert.Equal(t, "12", result.Events[0]["time"])
	assert.Equal(t, "B", result.Events[0]["location"])
	assert.EqualValues(t, 3, result.Events[0]["seq"])
}

func TestTrace_VesselPaging(t *testing.T) {
	dbPath := recordRun(t, "run-a")

	stdout, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}),
		"--db", dbPath, "--run", "run-a", "--vessel", "terror", "--after", "8", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "  [9] 36 travel terror@D\n")
	assert.Contains(t, stdout, "  [10] 36 arrival terror@D\n")
	assert.NotContains(t, stdout, "[11]")

	stdout, _, err = execute(t, NewTraceCommand(&RootOptions{Format: "text"}),
		"--db", dbPath, "--run", "run-a", "--vessel", "erebus")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(no events)")
}

func TestTrace_Errors(t *testing.T) {
	t.Run("missing db flag", func(t *testing.T) {
		_, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required flag")
	})

	t.Run("database not found", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.db")
		_, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "text"}), "--db", missing)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.NoFileExists(t, missing)
	})

	t.Run("unknown run", func(t *testing.T) {
		dbPath := recordRun(t, "run-a")
		stdout, _, err := execute(t, NewTraceCommand(&RootOptions{Format: "json"}), "--db", dbPath, "--run", "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrRunNotFound)

		resp := decodeResponse(t, stdout, nil)
		assert.Equal(t, CodeStore, resp.Error.Code)
		assert.Equal(t, "run not found: nope", resp.Error.Message)
	})
}
