package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/replace-by-rule/internal/rule"
)

// Snapshot serializes a scenario result as canonical JSON for golden files.
// Only deterministic fields are included.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	steps := make([]any, len(result.Steps))
	for i, s := range result.Steps {
		steps[i] = map[string]any{
			"index":   s.Index,
			"seq":     s.Seq,
			"comment": s.Comment,
			"find":    s.Find,
			"replace": s.Replace,
			"outcome": string(s.Outcome),
		}
	}

	snapshot := map[string]any{
		"scenario_name": scenarioName,
		"run_id":        result.RunID,
		"output":        result.Output,
		"log":           result.Log,
		"steps":         steps,
	}
	if result.Err != "" {
		snapshot["error"] = result.Err
	}
	return rule.MarshalCanonical(snapshot)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
