package engine

import (
	"fmt"

	"github.com/roach88/replace-by-rule/internal/rule"
)

// Options configure a Run.
type Options struct {
	// Verbosity selects which outcomes reach Log.
	Verbosity Verbosity

	// Log receives rule log lines. Nil discards them.
	Log LogFunc

	// Clock stamps steps. Nil starts a fresh clock at 0.
	Clock *Clock

	// RunIDs names the run. Nil uses UUIDv7Generator.
	RunIDs RunIDGenerator
}

// Result is the outcome of a Run.
type Result struct {
	RunID   string
	Output  string
	Steps   []rule.Step
	Matched int
}

// Execute applies rules to input and returns the transformed text.
// Errors from callables are returned unchanged.
func Execute(input string, rules []rule.Rule, verbosity Verbosity, log LogFunc) (string, error) {
	res, err := Run(input, rules, Options{Verbosity: verbosity, Log: log, RunIDs: noRunID{}})
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// Run applies rules to input in order and records one Step per rule.
//
// The first callable error stops the run; it is returned unchanged with
// no partial result.
func Run(input string, rules []rule.Rule, opts Options) (*Result, error) {
	clock := opts.Clock
	if clock == nil {
		clock = NewClock()
	}
	ids := opts.RunIDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	log := opts.Log
	if log == nil {
		log = func(string) {}
	}

	res := &Result{
		RunID: ids.Generate(),
		Steps: make([]rule.Step, 0, len(rules)),
	}

	current := input
	previous := input
	for i, r := range rules {
		step := rule.Step{
			RunID:   res.RunID,
			Index:   i,
			Seq:     clock.Next(),
			Comment: r.Comment,
			Find:    rule.FindString(r.Find),
			Replace: rule.ReplaceString(r.Replace),
			Outcome: rule.OutcomeSkipped,
		}

		if r.IsInert() {
			res.Steps = append(res.Steps, step)
			continue
		}

		next, err := apply(current, r)
		if err != nil {
			return nil, err
		}
		current = next

		if current != previous {
			step.Outcome = rule.OutcomeFound
			res.Matched++
			if opts.Verbosity >= MatchedOnly {
				log(FoundLine(r))
			}
			previous = current
		} else {
			step.Outcome = rule.OutcomeNotFound
			if opts.Verbosity >= All {
				log(NotFoundLine(r))
			}
		}
		res.Steps = append(res.Steps, step)
	}

	res.Output = current
	return res, nil
}

// apply dispatches on the find type.
func apply(text string, r rule.Rule) (string, error) {
	switch f := r.Find.(type) {
	case *rule.Pattern:
		return f.Replace(text, r.Replace)
	case rule.FindFunc:
		return f(text, r.Replace)
	case rule.Text:
		return rule.ReplaceText(text, string(f), r.Replace, r.ForAll)
	default:
		return "", fmt.Errorf("unsupported find type %T", r.Find)
	}
}

// Record summarizes a result as a run-history record.
func (r *Result) Record(source, input string, rules []rule.Rule, verbosity Verbosity) (rule.Run, error) {
	hash, err := rule.RuleSetHash(rules)
	if err != nil {
		return rule.Run{}, fmt.Errorf("hash rules: %w", err)
	}
	return rule.Run{
		ID:            r.RunID,
		Source:        source,
		RuleSetHash:   hash,
		InputHash:     rule.TextHash(input),
		OutputHash:    rule.TextHash(r.Output),
		RuleCount:     len(rules),
		MatchedCount:  r.Matched,
		Verbosity:     int(verbosity),
		EngineVersion: rule.EngineVersion,
	}, nil
}

// noRunID skips UUID generation for Execute, which never exposes the ID.
type noRunID struct{}

func (noRunID) Generate() string { return "" }
