package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const (
	twoTrades   = "../harness/testdata/scenarios/two_trades.yaml"
	lateCommit  = "../harness/testdata/scenarios/late_commit.yaml"
	scenarioDir = "../harness/testdata/scenarios"
	goldenDir   = "../harness/testdata/golden"
)

// execute runs cmd with args and returns stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// decodeResponse unmarshals a JSON CLI response and its payload into data.
func decodeResponse(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), out)
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}
}

// writeScenario writes a scenario file into a temporary directory.
func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// failingScenario expects a completion time the run never reaches.
const failingScenario = `name: wrong-completion
description: expects terror to finish earlier than it can
network:
  distances:
    - {from: A, to: B, distance: 10}
vessels:
  - name: terror
    location: A
    speed: 1
    capacities:
      - {cargo: Oil, capacity: 100, loading_rate: 5}
trades:
  - {id: t1, vessel: terror, origin: A, destination: B, cargo: Oil, amount: 10}
expect:
  completion: {terror: 3}
`
