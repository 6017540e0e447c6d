package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/roach88/replace-by-rule/internal/rule"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id string) rule.Run {
	return rule.Run{
		ID:            id,
		Source:        "rules.txt",
		RuleSetHash:   "ruleset-hash",
		InputHash:     rule.TextHash("in"),
		OutputHash:    rule.TextHash("out"),
		RuleCount:     2,
		MatchedCount:  1,
		Verbosity:     1,
		EngineVersion: rule.EngineVersion,
	}
}

func createTestSteps(runID string) []rule.Step {
	return []rule.Step{
		{RunID: runID, Index: 0, Seq: 1, Comment: "#1", Find: "a", Replace: "b", Outcome: rule.OutcomeFound},
		{RunID: runID, Index: 1, Seq: 2, Find: "zzz", Replace: "y", Outcome: rule.OutcomeNotFound},
	}
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("table_info(%s) failed: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid, notnull, pk int
		var name, typ string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("scan column: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
