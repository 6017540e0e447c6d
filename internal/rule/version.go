package rule

// Version constants for the rule model and engine.
const (
	// ModelVersion is the canonical rule model version.
	ModelVersion = "1"

	// EngineVersion is the replace-by-rule engine version.
	EngineVersion = "0.2.0"
)
