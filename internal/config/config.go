// Package config loads replace-by-rule settings from defaults, an optional
// YAML file, REPLACE_BY_RULE_* environment variables and explicitly set flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Defaults.
const (
	DefaultMode    = "auto"
	DefaultVerbose = 1
	DefaultFormat  = "text"

	// EnvPrefix prefixes every environment override, e.g. REPLACE_BY_RULE_VERBOSE.
	EnvPrefix = "REPLACE_BY_RULE_"
)

// FileNames are searched in the working directory when no --config is given.
var FileNames = []string{".replace-by-rule.yaml", ".replace-by-rule.yml"}

// AppDirName is the per-user directory under XDG_CONFIG_HOME.
const AppDirName = "replace-by-rule"

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Config is the resolved configuration.
type Config struct {
	Mode    string `koanf:"mode"`
	Verbose int    `koanf:"verbose"`
	DB      string `koanf:"db"`
	Format  string `koanf:"format"`

	// File is the config file that was loaded, empty if none.
	File string `koanf:"-"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Mode:    DefaultMode,
		Verbose: DefaultVerbose,
		Format:  DefaultFormat,
	}
}

// UserFile returns the per-user config path, which may not exist.
func UserFile() string {
	return filepath.Join(xdg.ConfigHome, AppDirName, "config.yaml")
}

// findConfigFile finds the config file to use.
// Priority: explicit path > .replace-by-rule.yaml > .replace-by-rule.yml > UserFile
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range FileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	if user := UserFile(); fileExists(user) {
		return user
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Load resolves configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Only flags marked as changed take part; a nil flag set is allowed.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"mode":    DefaultMode,
		"verbose": DefaultVerbose,
		"db":      "",
		"format":  DefaultFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// REPLACE_BY_RULE_VERBOSE -> verbose
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be checked by the consumers themselves.
// Mode is left to the rule loader so its error type reaches the caller.
func (c *Config) Validate() error {
	if !IsValidFormat(c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, ValidFormats)
	}
	return nil
}

// IsValidFormat checks if the format is one of the allowed values.
func IsValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
