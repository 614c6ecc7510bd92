package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_Success(t *testing.T) {
	verdict := VerifyResult{Scenario: "two-trades", Feasible: true}

	t.Run("json wraps data", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "json", Writer: buf}
		require.NoError(t, f.Success(verdict))

		var got VerifyResult
		resp := decodeResponse(t, buf.String(), &got)
		assert.Equal(t, "ok", resp.Status)
		assert.Nil(t, resp.Error)
		assert.Equal(t, verdict.Scenario, got.Scenario)
		assert.True(t, got.Feasible)
	})

	t.Run("text prints plain values", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "text", Writer: buf}
		require.NoError(t, f.Success("All scenarios passed"))
		assert.Equal(t, "All scenarios passed\n", buf.String())
	})
}

func TestOutputFormatter_Error(t *testing.T) {
	details := map[string]string{"file": "late_commit.yaml"}

	tests := []struct {
		name    string
		format  string
		verbose bool
		want    []string
		absent  []string
	}{
		{
			name:   "json",
			format: "json",
			want:   []string{`"status":"error"`, `"code":"E001"`, `"file":"late_commit.yaml"`},
		},
		{
			name:   "text hides details",
			format: "text",
			want:   []string{"Error [E001]: failed to load scenario"},
			absent: []string{"Details:"},
		},
		{
			name:    "text verbose shows details",
			format:  "text",
			verbose: true,
			want:    []string{"Error [E001]: failed to load scenario", "Details: map[file:late_commit.yaml]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			f := &OutputFormatter{Format: tt.format, Writer: buf, Verbose: tt.verbose}

			require.NoError(t, f.Error(CodeScenario, "failed to load scenario", details))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, buf.String(), a)
			}
		})
	}
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	for _, verbose := range []bool{true, false} {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "text", Writer: buf, Verbose: verbose}

		f.VerboseLog("running %s", "two_trades.yaml")
		if verbose {
			assert.Equal(t, "running two_trades.yaml\n", buf.String())
		} else {
			assert.Empty(t, buf.String())
		}
	}
}

type textResult struct{ n int }

func (r textResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d vessels\n", r.n)
	return err
}

func TestOutputFormatter_TextWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success(textResult{n: 2}))
	assert.Equal(t, "2 vessels\n", buf.String())
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	err := f.Fail(ExitCommandError, CodeStore, "database not found", errors.New("stat runs.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "database not found: stat runs.db", err.Error())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, CodeStore, resp.Error.Code)
	assert.Equal(t, "stat runs.db", resp.Error.Details)
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out, diag := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag, Verbose: true}

	f.VerboseLog("planned %d tasks", 4)
	assert.Empty(t, out.String())
	assert.Equal(t, "planned 4 tasks\n", diag.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "replay", errors.New("digest")))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.ErrorContains(t, wrapped, "replay: digest")
}
