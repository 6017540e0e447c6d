package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/replace-by-rule/internal/engine"
	"github.com/roach88/replace-by-rule/internal/rule"
	"github.com/roach88/replace-by-rule/internal/source"
	"github.com/roach88/replace-by-rule/internal/store"
)

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Load rules (inline or from rules_file)
//  2. Apply them with a fixed run ID and a fresh logical clock
//  3. Record the run in a fresh in-memory store and read the steps back
//  4. Compare output, log and error with the expectations
//
// Load and execution errors are scenario outcomes, not Run errors: they
// are matched against expect.error. Run only fails on store problems.
func Run(scenario *Scenario) (*Result, error) {
	runID := scenario.RunID
	if runID == "" {
		runID = DefaultRunID
	}
	result := NewResult(runID)

	rules, err := loadRules(scenario)
	if err != nil {
		checkError(scenario, result, err)
		return result, nil
	}

	verbosity := engine.ClampVerbosity(scenario.Verbosity)
	res, err := engine.Run(scenario.Input, rules, engine.Options{
		Verbosity: verbosity,
		Log:       func(line string) { result.Log = append(result.Log, line) },
		Clock:     engine.NewClock(),
		RunIDs:    engine.NewFixedGenerator(runID),
	})
	if err != nil {
		checkError(scenario, result, err)
		return result, nil
	}
	result.Output = res.Output

	steps, err := record(scenario, rules, res, verbosity)
	if err != nil {
		return nil, err
	}
	result.Steps = steps

	if scenario.Expect.Error != "" {
		result.AddError(fmt.Sprintf("expected error containing %q, got success", scenario.Expect.Error))
	}
	if want := scenario.Expect.Output; want != nil && *want != result.Output {
		result.AddError(fmt.Sprintf("output mismatch: expected %q, got %q", *want, result.Output))
	}
	checkLog(scenario, result)

	return result, nil
}

func loadRules(s *Scenario) ([]rule.Rule, error) {
	if s.RulesFile == "" {
		return source.FromValue(s.Rules)
	}
	mode, err := source.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}
	return source.FromFile(s.RulesFile, mode)
}

// record writes the run to a fresh in-memory store and returns the steps
// as stored, so the trace reflects what history would show.
func record(s *Scenario, rules []rule.Rule, res *engine.Result, verbosity engine.Verbosity) ([]rule.Step, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	sourceName := s.RulesFile
	if sourceName == "" {
		sourceName = "inline:" + s.Name
	}
	run, err := res.Record(sourceName, s.Input, rules, verbosity)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if _, err := st.WriteRun(ctx, run, res.Steps); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	_, steps, err := st.ReadRun(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read run: %w", err)
	}
	return steps, nil
}

func checkError(s *Scenario, result *Result, err error) {
	result.Err = err.Error()
	if s.Expect.Error == "" {
		result.AddError(fmt.Sprintf("unexpected error: %v", err))
		return
	}
	if !strings.Contains(result.Err, s.Expect.Error) {
		result.AddError(fmt.Sprintf("error mismatch: expected %q in %q", s.Expect.Error, result.Err))
	}
}

func checkLog(s *Scenario, result *Result) {
	want := s.Expect.Log
	if want == nil {
		return
	}
	if len(want) != len(result.Log) {
		result.AddError(fmt.Sprintf("log mismatch: expected %d lines, got %d", len(want), len(result.Log)))
		return
	}
	for i := range want {
		if want[i] != result.Log[i] {
			result.AddError(fmt.Sprintf("log line %d: expected %q, got %q", i, want[i], result.Log[i]))
		}
	}
}
