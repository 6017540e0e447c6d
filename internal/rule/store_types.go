package rule

// Outcome of applying one rule during a run.
type Outcome string

const (
	OutcomeFound    Outcome = "found"
	OutcomeNotFound Outcome = "not_found"
	OutcomeSkipped  Outcome = "skipped"
)

// Run is a recorded execution of a rule set against one input.
type Run struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"` // Assigned by the store
	Source        string `json:"source"`
	RuleSetHash   string `json:"ruleset_hash"`
	InputHash     string `json:"input_hash"`
	OutputHash    string `json:"output_hash"`
	RuleCount     int    `json:"rule_count"`
	MatchedCount  int    `json:"matched_count"`
	Verbosity     int    `json:"verbosity"`
	EngineVersion string `json:"engine_version"`
}

// Step is the trace of a single rule within a run.
type Step struct {
	RunID   string  `json:"run_id,omitempty"`
	Index   int     `json:"index"`
	Seq     int64   `json:"seq"` // Logical clock, not wall time
	Comment string  `json:"comment"`
	Find    string  `json:"find"`
	Replace string  `json:"replace"`
	Outcome Outcome `json:"outcome"`
}
