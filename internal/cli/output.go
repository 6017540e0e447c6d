package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/roach88/replace-by-rule/internal/compiler"
	"github.com/roach88/replace-by-rule/internal/source"
	"github.com/roach88/replace-by-rule/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failures, callable errors
	ExitCommandError = 2 // Command error (bad mode, unreadable files, invalid rules, etc.)
)

// Error codes reported in JSON output.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeInvalidMode  = "E002" // Unknown rule file mode
	ErrCodeInvalidList  = "E003" // Rules are not a sequence
	ErrCodeInvalidItem  = "E004" // A rule item cannot be normalized
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeDecodeFailed = "E006" // Rule file could not be decoded
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeRunNotFound  = "E008" // No such run in history
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// classifyError maps a rule loading or history error to an error code and
// exit code.
func classifyError(err error) (string, int) {
	var modeErr *source.InvalidModeError
	var decodeErr *source.DecodeError
	switch {
	case errors.As(err, &modeErr):
		return ErrCodeInvalidMode, ExitCommandError
	case compiler.IsInvalidRuleList(err):
		return ErrCodeInvalidList, ExitCommandError
	case compiler.IsInvalidRuleItem(err):
		return ErrCodeInvalidItem, ExitCommandError
	case errors.As(err, &decodeErr):
		return ErrCodeDecodeFailed, ExitCommandError
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound, ExitCommandError
	case errors.Is(err, store.ErrRunNotFound):
		return ErrCodeRunNotFound, ExitCommandError
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
	RunID  string      `json:"run_id,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err through the formatter and returns the matching ExitError.
// In text mode nothing is written; the caller's error printer handles it.
func (f *OutputFormatter) Fail(message string, err error) error {
	code, exit := classifyError(err)
	if f.Format == "json" {
		_ = f.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	}
	return WrapExitError(exit, message, err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
