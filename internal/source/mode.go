package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects how a rule source is decoded.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeText Mode = "text"
	ModeJSON Mode = "json"
	ModeYAML Mode = "yaml"
	ModeCUE  Mode = "cue"
	ModeTOML Mode = "toml"
)

// Modes lists every accepted mode, in help-text order.
var Modes = []Mode{ModeAuto, ModeText, ModeJSON, ModeYAML, ModeCUE, ModeTOML}

// InvalidModeError is returned for an unrecognized decoding mode.
// It is raised before any rule parsing happens.
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return fmt.Sprintf("invalid mode %q (expected one of %s)", e.Mode, strings.Join(names, ", "))
}

// ParseMode converts a mode name. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeAuto, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", &InvalidModeError{Mode: s}
}

// DetectMode picks a mode from a file extension. Unknown extensions are text.
func DetectMode(path string) Mode {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ModeJSON
	case ".yaml", ".yml":
		return ModeYAML
	case ".cue":
		return ModeCUE
	case ".toml":
		return ModeTOML
	default:
		return ModeText
	}
}
