package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replace-by-rule/internal/rule"
)

func loadAndRun(t *testing.T, file string) *Result {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", file))
	require.NoError(t, err)
	result, err := Run(s)
	require.NoError(t, err)
	return result
}

func TestRun_Scenarios(t *testing.T) {
	files := []string{
		"shipped.yaml",
		"text_file.yaml",
		"not_found.yaml",
		"invalid_rule.yaml",
		"invalid_mode.yaml",
	}

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			result := loadAndRun(t, file)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_StepsFromStore(t *testing.T) {
	result := loadAndRun(t, "not_found.yaml")

	assert.Equal(t, DefaultRunID, result.RunID)
	assert.Equal(t, []rule.Step{
		{RunID: DefaultRunID, Index: 0, Seq: 1, Comment: "#1", Find: "a", Replace: "A", Outcome: rule.OutcomeFound},
		{RunID: DefaultRunID, Index: 1, Seq: 2, Comment: "#2", Find: "zzz", Replace: "y", Outcome: rule.OutcomeNotFound},
		{RunID: DefaultRunID, Index: 2, Seq: 3, Comment: "#3", Find: "", Replace: "never", Outcome: rule.OutcomeSkipped},
	}, result.Steps)
}

func TestRun_ReportsMismatches(t *testing.T) {
	want := "wrong"
	s := &Scenario{
		Name:        "mismatch",
		Description: "expectations that do not hold",
		Input:       "abc",
		Rules:       []any{"", "a", "b"},
		Verbosity:   1,
		Expect: Expect{
			Output: &want,
			Log:    []string{"Found 'a', replace: 'x'"},
		},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, "bbc", result.Output)
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "output mismatch")
	assert.Contains(t, result.Errors[1], "log line 0")
}

func TestRun_UnexpectedError(t *testing.T) {
	out := "abc"
	s := &Scenario{
		Name:        "unexpected",
		Description: "rules fail to normalize",
		Input:       "abc",
		Rules:       "not a list",
		Expect:      Expect{Output: &out},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Err, "invalid rule list")
}

func TestRun_ExpectedErrorButSucceeded(t *testing.T) {
	s := &Scenario{
		Name:        "no_error",
		Description: "expects an error that never happens",
		Input:       "abc",
		Rules:       []any{},
		Expect:      Expect{Error: "boom"},
	}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "got success")
}

func TestRunWithGolden_Shipped(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "shipped.yaml"))
	require.NoError(t, err)

	// Regenerate with: go test ./internal/harness -run TestRunWithGolden_Shipped -update
	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestSnapshot_IncludesError(t *testing.T) {
	result := NewResult("run-1")
	result.Err = "invalid mode \"js\""

	data, err := Snapshot("failing", result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"error":"invalid mode \"js\"","log":[],"output":"","run_id":"run-1","scenario_name":"failing","steps":[]}`,
		string(data))
}
