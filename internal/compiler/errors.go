package compiler

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// InvalidRuleListError is returned when the top-level rule input is not a
// sequence. No partial result accompanies it.
type InvalidRuleListError struct {
	Value any
}

func (e *InvalidRuleListError) Error() string {
	return fmt.Sprintf("invalid rule list: expected a sequence, got %T", e.Value)
}

// InvalidRuleItemError is returned when one entry cannot be normalized.
// Normalization fails fast: the first bad entry aborts the whole call.
type InvalidRuleItemError struct {
	// Item is the offending raw entry.
	Item any

	// Context is the sequence containing Item, for diagnostics.
	Context []any

	// Index is the position of Item within Context.
	Index int

	// Reason describes what is wrong with Item.
	Reason string

	// Err is the underlying cause, if any (pattern compile failures).
	Err error
}

func (e *InvalidRuleItemError) Error() string {
	msg := fmt.Sprintf("invalid rule at index %d: %s", e.Index, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidRuleItemError) Unwrap() error {
	return e.Err
}

// IsInvalidRuleList checks if err is an InvalidRuleListError.
func IsInvalidRuleList(err error) bool {
	var target *InvalidRuleListError
	return errors.As(err, &target)
}

// IsInvalidRuleItem checks if err is an InvalidRuleItemError.
func IsInvalidRuleItem(err error) bool {
	var target *InvalidRuleItemError
	return errors.As(err, &target)
}

// CompileError reports a problem in a CUE rule source with its position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
