package source

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/roach88/replace-by-rule/internal/compiler"
	"github.com/roach88/replace-by-rule/internal/rule"
)

// DecodeError wraps a malformed structured payload.
type DecodeError struct {
	Mode Mode
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s rules: %v", e.Mode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// SplitLines splits text on CRLF, LF or CR line endings.
// A trailing line ending yields a final empty line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// FromText decodes rule text in the given mode and normalizes it.
// ModeAuto is rejected since there is no file name to detect from.
func FromText(text string, mode Mode) ([]rule.Rule, error) {
	raw, err := decode(text, mode, "")
	if err != nil {
		return nil, err
	}
	return compiler.Normalize(raw)
}

// FromFile reads and normalizes a rule file. ModeAuto detects the mode
// from the file extension.
func FromFile(path string, mode Mode) ([]rule.Rule, error) {
	if mode == ModeAuto || mode == "" {
		mode = DetectMode(path)
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}

	raw, err := decode(string(data), mode, path)
	if err != nil {
		return nil, err
	}
	return compiler.Normalize(raw)
}

// FromValue normalizes an in-memory rule tree. This is the only source
// that can carry compiled patterns and callables.
func FromValue(raw any) ([]rule.Rule, error) {
	return compiler.Normalize(raw)
}

func decode(text string, mode Mode, filename string) (any, error) {
	switch mode {
	case ModeText:
		lines := SplitLines(text)
		raw := make([]any, len(lines))
		for i, l := range lines {
			raw[i] = l
		}
		return raw, nil

	case ModeJSON:
		var raw any
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return nil, &DecodeError{Mode: mode, Err: err}
		}
		return raw, nil

	case ModeYAML:
		var raw any
		if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
			return nil, &DecodeError{Mode: mode, Err: err}
		}
		return raw, nil

	case ModeCUE:
		var opts []cue.BuildOption
		if filename != "" {
			opts = append(opts, cue.Filename(filename))
		}
		v := cuecontext.New().CompileString(text, opts...)
		if err := v.Err(); err != nil {
			return nil, &DecodeError{Mode: mode, Err: err}
		}
		return compiler.CompileCUE(v.LookupPath(cue.ParsePath("rules")))

	case ModeTOML:
		// TOML documents are tables, so the sequence lives under rules.
		var doc map[string]any
		if err := toml.Unmarshal([]byte(text), &doc); err != nil {
			return nil, &DecodeError{Mode: mode, Err: err}
		}
		return doc["rules"], nil

	default:
		return nil, &InvalidModeError{Mode: string(mode)}
	}
}
