package harness

import "github.com/roach88/replace-by-rule/internal/rule"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates all expectations matched.
	Pass bool `json:"pass"`

	// RunID is the fixed run ID the scenario ran under.
	RunID string `json:"run_id"`

	// Output is the transformed text. Empty when the run failed.
	Output string `json:"output"`

	// Log holds the engine log lines in emission order.
	Log []string `json:"log"`

	// Steps is the per-rule trace as read back from the store.
	Steps []rule.Step `json:"steps"`

	// Err is the load or execution error message, if any.
	Err string `json:"error,omitempty"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(runID string) *Result {
	return &Result{
		Pass:   true,
		RunID:  runID,
		Log:    []string{},
		Steps:  []rule.Step{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
