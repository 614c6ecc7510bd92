package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_Feasible(t *testing.T) {
	stdout, _, err := execute(t, NewVerifyCommand(&RootOptions{Format: "json"}), twoTrades)
	require.NoError(t, err)

	var result VerifyResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Feasible)
	require.Len(t, result.Vessels, 1)

	v := result.Vessels[0]
	assert.Equal(t, "terror", v.Vessel)
	assert.Equal(t, "38", v.Completion)
	require.Len(t, v.Tasks, 4)

	var starts, phases []string
	for _, task := range v.Tasks {
		starts = append(starts, task.EarliestStart)
		phases = append(phases, task.Phase+" "+task.Trade+"@"+task.Location)
	}
	assert.Equal(t, []string{"0", "12", "24", "36"}, starts)
	assert.Equal(t, []string{"PICK_UP t1@A", "DROP_OFF t1@B", "PICK_UP t2@C", "DROP_OFF t2@D"}, phases)
}

func TestVerify_InfeasibleText(t *testing.T) {
	stdout, _, err := execute(t, NewVerifyCommand(&RootOptions{Format: "text"}), lateCommit)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, stdout, "terror: INFEASIBLE, completes at inf")
	assert.Contains(t, stdout, "erebus: feasible, completes at 34")
	assert.Contains(t, stdout, "1. PICK_UP  t3   at C")
}

func TestVerify_MissingScenario(t *testing.T) {
	_, _, err := execute(t, NewVerifyCommand(&RootOptions{Format: "text"}), "missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
