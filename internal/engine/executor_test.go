package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replace-by-rule/internal/compiler"
	"github.com/roach88/replace-by-rule/internal/rule"
)

// shippedRules mirrors the example rule file distributed with the tool.
func shippedRules(t *testing.T) []rule.Rule {
	t.Helper()
	rules, err := compiler.Normalize([]any{
		"", "a", "b",
		"@all", "c", "d",
		"@reg", "e", "f",
		"@all @reg(flags=i)", "g", "h",
		"", "**", "-**-",
	})
	require.NoError(t, err)
	return rules
}

func TestExecuteEndToEnd(t *testing.T) {
	out, err := Execute("aceg aceg ACEG **", shippedRules(t), Silent, nil)
	require.NoError(t, err)
	assert.Equal(t, "bdfh adeh ACEh -**-", out)
}

func TestExecuteDeterministic(t *testing.T) {
	rules := shippedRules(t)
	first, err := Execute("aceg aceg ACEG **", rules, Silent, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Execute("aceg aceg ACEG **", rules, Silent, nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExecuteLogging(t *testing.T) {
	rules, err := compiler.Normalize([]any{
		"#1", "a", "b",
		"", "zzz", "y",
		"#3", "", "never",
		"@all", "c", "d",
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		verbosity Verbosity
		want      []string
	}{
		{"silent", Silent, nil},
		{"matched only", MatchedOnly, []string{
			"Found 'a', replace: 'b'  //#1",
			"Found 'c', replace: 'd'  //@all",
		}},
		{"all", All, []string{
			"Found 'a', replace: 'b'  //#1",
			"Not found 'zzz'",
			"Found 'c', replace: 'd'  //@all",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lines []string
			out, err := Execute("acac", rules, tt.verbosity, func(line string) {
				lines = append(lines, line)
			})
			require.NoError(t, err)
			assert.Equal(t, "bdad", out)
			assert.Equal(t, tt.want, lines)
		})
	}
}

func TestExecuteComparesWithLastChange(t *testing.T) {
	// The second rule undoes the first; the third sees no change relative
	// to the text after rule two.
	rules, err := compiler.Normalize([]any{
		"", "a", "b",
		"", "b", "a",
		"", "q", "q",
	})
	require.NoError(t, err)

	var lines []string
	out, err := Execute("a", rules, All, func(line string) { lines = append(lines, line) })
	require.NoError(t, err)

	assert.Equal(t, "a", out)
	assert.Equal(t, []string{
		"Found 'a', replace: 'b'",
		"Found 'b', replace: 'a'",
		"Not found 'q'",
	}, lines)
}

func TestExecuteInertRuleNeverLogs(t *testing.T) {
	rules := []rule.Rule{
		{Comment: "empty", Find: rule.Text(""), Replace: rule.Text("x")},
		{Comment: "nil", Replace: rule.Text("x")},
	}

	var lines []string
	out, err := Execute("abc", rules, All, func(line string) { lines = append(lines, line) })
	require.NoError(t, err)
	assert.Equal(t, "abc", out)
	assert.Empty(t, lines)
}

func TestExecuteCallables(t *testing.T) {
	rules, err := compiler.Normalize([]any{
		compiler.Record{
			Comment: "upper",
			Find: func(s string, r rule.Replace) (string, error) {
				return strings.ToUpper(s), nil
			},
		},
		compiler.Record{
			Find: rule.MustCompile(`\d`, "g"),
			Replace: func(m rule.Match) (string, error) {
				return "<" + m.Text + ">", nil
			},
		},
		compiler.Record{
			Find:    "B",
			Replace: func(m rule.Match) (string, error) { return strings.Repeat("b", m.Offset), nil },
		},
	})
	require.NoError(t, err)

	var lines []string
	out, err := Execute("ab1", rules, MatchedOnly, func(line string) { lines = append(lines, line) })
	require.NoError(t, err)

	assert.Equal(t, "Ab<1>", out)
	assert.Equal(t, []string{
		"Found '<func>', replace: ''  //upper",
		"Found '/\\d/g', replace: '<func>'",
		"Found 'B', replace: '<func>'",
	}, lines)
}

func TestExecuteCallableErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	rules := []rule.Rule{
		{Find: rule.FindFunc(func(string, rule.Replace) (string, error) { return "", boom }), Replace: rule.Text("")},
	}

	out, err := Execute("abc", rules, Silent, nil)
	assert.Same(t, boom, err)
	assert.Empty(t, out)

	rules = []rule.Rule{
		{Find: rule.Text("b"), Replace: rule.ReplaceFunc(func(rule.Match) (string, error) { return "", boom })},
	}
	_, err = Execute("abc", rules, Silent, nil)
	assert.Same(t, boom, err)
}

func TestRunSteps(t *testing.T) {
	rules, err := compiler.Normalize([]any{
		"#1", "a", "b",
		"", "", "",
		"", "zzz", "y",
	})
	require.NoError(t, err)

	res, err := Run("aa", rules, Options{
		Verbosity: Silent,
		Clock:     NewClockAt(10),
		RunIDs:    NewFixedGenerator("run-1"),
	})
	require.NoError(t, err)

	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, "ba", res.Output)
	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, []rule.Step{
		{RunID: "run-1", Index: 0, Seq: 11, Comment: "#1", Find: "a", Replace: "b", Outcome: rule.OutcomeFound},
		{RunID: "run-1", Index: 1, Seq: 12, Find: "", Replace: "", Outcome: rule.OutcomeSkipped},
		{RunID: "run-1", Index: 2, Seq: 13, Find: "zzz", Replace: "y", Outcome: rule.OutcomeNotFound},
	}, res.Steps)
}

func TestResultRecord(t *testing.T) {
	rules := shippedRules(t)
	res, err := Run("aceg aceg ACEG **", rules, Options{RunIDs: NewFixedGenerator("run-1")})
	require.NoError(t, err)

	run, err := res.Record("rules.txt", "aceg aceg ACEG **", rules, MatchedOnly)
	require.NoError(t, err)

	hash, err := rule.RuleSetHash(rules)
	require.NoError(t, err)

	assert.Equal(t, rule.Run{
		ID:            "run-1",
		Source:        "rules.txt",
		RuleSetHash:   hash,
		InputHash:     rule.TextHash("aceg aceg ACEG **"),
		OutputHash:    rule.TextHash("bdfh adeh ACEh -**-"),
		RuleCount:     5,
		MatchedCount:  5,
		Verbosity:     1,
		EngineVersion: rule.EngineVersion,
	}, run)
}
