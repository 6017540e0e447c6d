package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replace-by-rule/internal/rule"
	"github.com/roach88/replace-by-rule/internal/store"
)

// seedHistory writes one run with two steps and returns the database path.
func seedHistory(t *testing.T) string {
	t.Helper()

	db := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	run := rule.Run{
		ID:            "run-1",
		Source:        "/tmp/rules.txt",
		RuleSetHash:   "hash-rules",
		InputHash:     "hash-in",
		OutputHash:    "hash-out",
		RuleCount:     2,
		MatchedCount:  1,
		Verbosity:     1,
		EngineVersion: rule.EngineVersion,
	}
	steps := []rule.Step{
		{RunID: "run-1", Index: 0, Seq: 1, Comment: "@all", Find: "a", Replace: "b", Outcome: rule.OutcomeFound},
		{RunID: "run-1", Index: 1, Seq: 2, Find: "z", Replace: "y", Outcome: rule.OutcomeNotFound},
	}
	_, err = st.WriteRun(context.Background(), run, steps)
	require.NoError(t, err)
	return db
}

func TestHistoryRequiresDatabase(t *testing.T) {
	_, _, err := execute(t, "", "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no database configured")
}

func TestHistoryNonExistentDatabase(t *testing.T) {
	_, _, err := execute(t, "", "history", "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestHistoryList(t *testing.T) {
	db := seedHistory(t)

	out, _, err := execute(t, "", "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "1/2 matched")
	assert.Contains(t, out, "/tmp/rules.txt")
}

func TestHistoryListEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(db)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, _, err := execute(t, "", "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistoryShowRun(t *testing.T) {
	db := seedHistory(t)

	out, _, err := execute(t, "", "history", "--db", db, "--run", "run-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Run run-1 (seq 1)")
	assert.Contains(t, out, "ruleset: hash-rules")
	assert.Contains(t, out, "[0] found     'a' -> 'b'  //@all")
	assert.Contains(t, out, "[1] not_found 'z' -> 'y'")
}

func TestHistoryShowRunJSON(t *testing.T) {
	db := seedHistory(t)

	out, _, err := execute(t, "", "history", "--db", db, "--run", "run-1", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-1", resp.Data.Run.ID)
	assert.Equal(t, int64(1), resp.Data.Run.Seq)
	require.Len(t, resp.Data.Steps, 2)
	assert.Equal(t, rule.OutcomeNotFound, resp.Data.Steps[1].Outcome)
}

func TestHistoryUnknownRun(t *testing.T) {
	db := seedHistory(t)

	out, _, err := execute(t, "", "history", "--db", db, "--run", "nope", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeRunNotFound, resp.Error.Code)
}
