package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replace-by-rule/internal/rule"
)

func TestCompileTextRules(t *testing.T) {
	out, _, err := execute(t, "", "compile", "testdata/rules.txt")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Compiled 5 rule(s), 0 inert")
	assert.Contains(t, out, "ruleset: ")
	assert.Contains(t, out, "  0: 'a' -> 'b'\n")
	assert.Contains(t, out, "  1: 'c' -> 'd' (all)  //@all\n")
	assert.Contains(t, out, "  2: /e/ -> 'f'  //@reg\n")
	assert.Contains(t, out, "  3: /g/gi -> 'h'  //@all @reg(flags=i)\n")
	assert.Contains(t, out, "  4: '**' -> '-**-'\n")
}

func compileJSON(t *testing.T, path string) CompilationResult {
	t.Helper()

	out, _, err := execute(t, "", "compile", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestCompileJSONParity(t *testing.T) {
	fromText := compileJSON(t, "testdata/rules.txt")
	fromJSON := compileJSON(t, "testdata/rules.json")
	fromTOML := compileJSON(t, "testdata/rules.toml")

	require.Len(t, fromText.Rules, 5)
	assert.NotEmpty(t, fromText.RuleSetHash)
	assert.Equal(t, fromText.RuleSetHash, fromJSON.RuleSetHash)
	assert.Equal(t, fromText.Rules, fromJSON.Rules)
	assert.Equal(t, fromText.RuleSetHash, fromTOML.RuleSetHash)

	assert.Equal(t, rule.KindPattern, fromText.Rules[3].FindKind)
	assert.Equal(t, "gi", fromText.Rules[3].Flags)
	assert.False(t, fromText.Rules[3].ForAll)
	assert.True(t, fromText.Rules[1].ForAll)
}

func TestCompileCountsInertRules(t *testing.T) {
	// trailing newline adds an empty comment line, i.e. one inert rule
	rules := writeFile(t, t.TempDir(), "rules.txt", "\na\nb\n")

	result := compileJSON(t, rules)
	require.Len(t, result.Rules, 2)
	assert.Equal(t, 1, result.Inert)
	assert.Equal(t, rule.KindNone, result.Rules[1].FindKind)
}

func TestCompileOutputToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "rules.canonical.json")

	out, _, err := execute(t, "", "compile", "testdata/rules.txt", "--output", outputFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote canonical rules to "+outputFile)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var rules []rule.Description
	require.NoError(t, json.Unmarshal(data, &rules))
	require.Len(t, rules, 5)
	assert.Equal(t, "a", rules[0].Find)

	// canonical bytes are what the ruleset hash covers
	canonical, err := rule.MarshalCanonical(rules)
	require.NoError(t, err)
	assert.Equal(t, string(canonical), string(data))
}

func TestCompileNonExistentFile(t *testing.T) {
	_, _, err := execute(t, "", "compile", "testdata/missing.txt")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCompileInvalidRules(t *testing.T) {
	rules := writeFile(t, t.TempDir(), "rules.yaml", "find: a\n")

	out, _, err := execute(t, "", "compile", rules, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidList, resp.Error.Code)
}

func TestDescribeLine(t *testing.T) {
	tests := []struct {
		name string
		desc rule.Description
		want string
	}{
		{"inert", rule.Description{FindKind: rule.KindNone}, "(inert)"},
		{"text", rule.Description{FindKind: rule.KindText, Find: "a", Replace: "b"}, "'a' -> 'b'"},
		{"all with comment", rule.Description{FindKind: rule.KindText, Find: "a", Replace: "b", ForAll: true, Comment: "@all"}, "'a' -> 'b' (all)  //@all"},
		{"pattern", rule.Description{FindKind: rule.KindPattern, Find: "x+", Flags: "gi", Replace: "y"}, "/x+/gi -> 'y'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeLine(tt.desc))
		})
	}
}
