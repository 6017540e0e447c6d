package engine

import "fmt"

// Verbosity controls which rule outcomes are logged.
type Verbosity int

const (
	// Silent logs nothing.
	Silent Verbosity = 0

	// MatchedOnly logs rules that changed the text.
	MatchedOnly Verbosity = 1

	// All also logs rules that did not match.
	All Verbosity = 2
)

// ClampVerbosity maps any integer onto a valid level.
// Negative values are silent; values above 2 log everything.
func ClampVerbosity(n int) Verbosity {
	switch {
	case n <= 0:
		return Silent
	case n >= 2:
		return All
	default:
		return MatchedOnly
	}
}

func (v Verbosity) String() string {
	switch v {
	case Silent:
		return "silent"
	case MatchedOnly:
		return "matched-only"
	case All:
		return "all"
	default:
		return fmt.Sprintf("Verbosity(%d)", int(v))
	}
}
