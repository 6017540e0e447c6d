package rule

// Find is a sealed interface over the accepted find values.
// Only Text, *Pattern and FindFunc implement it.
type Find interface {
	find() // Sealed
}

// Replace is a sealed interface over the accepted replace values.
// Only Text and ReplaceFunc implement it.
type Replace interface {
	replace() // Sealed
}

// Text is a literal find or replace value.
type Text string

func (Text) find()    {}
func (Text) replace() {}

// FindFunc is a programmatic rule. It receives the current text and the
// rule's replace value and returns the new text. It alone decides how the
// substitution happens.
type FindFunc func(text string, replace Replace) (string, error)

func (FindFunc) find() {}

// ReplaceFunc computes the replacement for a single match.
type ReplaceFunc func(m Match) (string, error)

func (ReplaceFunc) replace() {}

// Rule is a canonical find/replace rule.
type Rule struct {
	// Comment is free text. For text finds it may carry @all / @reg options,
	// which have already been applied by the time a Rule exists.
	Comment string

	// Find is nil or empty Text for an inert rule.
	Find Find

	// Replace is never nil once normalized; falsy input becomes Text("").
	Replace Replace

	// ForAll replaces every occurrence of a Text find instead of the first.
	// It is never set for a *Pattern find; the pattern's g flag plays that role.
	ForAll bool
}

// IsInert reports whether the rule has nothing to find.
// Inert rules stay in the sequence but the executor skips them.
func (r Rule) IsInert() bool {
	switch f := r.Find.(type) {
	case nil:
		return true
	case Text:
		return f == ""
	case *Pattern:
		return f == nil
	case FindFunc:
		return f == nil
	default:
		return true
	}
}
