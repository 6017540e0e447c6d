package cli

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/replace-by-rule/internal/config"
	"github.com/roach88/replace-by-rule/internal/engine"
	"github.com/roach88/replace-by-rule/internal/rule"
)

// RootOptions holds global flags and the configuration resolved from them.
type RootOptions struct {
	ConfigFile string

	// Config is filled in by the root command before any command runs.
	// Commands constructed on their own fall back to config.Default().
	Config *config.Config

	// Logger carries progress messages. Nil discards them.
	Logger *slog.Logger
}

func (o *RootOptions) config() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	cfg := o.config()
	return &OutputFormatter{
		Format:    cfg.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   engine.ClampVerbosity(cfg.Verbose) == engine.All,
	}
}

// NewRootCommand creates the replace-by-rule command. Invoked without a
// subcommand it applies a rule file to the input.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	apply := &ApplyOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "replace-by-rule",
		Short: "Replace text by rule",
		Long: `Apply an ordered list of find/replace rules to a text.

Rules come from a text file (find, replace and comment on consecutive
lines), a JSON or YAML array, or a CUE file exporting "rules". A comment
containing @all replaces every occurrence; @reg treats the find text as a
regular expression, optionally with @reg(flags=i).`,
		Example: `  replace-by-rule -i input.txt -r rules.txt -o output.txt
  cat input.txt | replace-by-rule -r rules.json --verbose 2
  replace-by-rule -i input.txt -r rules.yaml --db history.db`,
		Version:       rule.EngineVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigFile, cmd.Root().PersistentFlags())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Config = cfg
			opts.Logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.File != "" {
				opts.Logger.Debug("using config file", "path", cfg.File)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(apply, cmd)
		},
	}

	// Global flags. Defaults mirror config.Default; only flags set on the
	// command line override the config file and environment.
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ConfigFile, "config", "", "config file (default: ./.replace-by-rule.yaml)")
	pf.String("mode", config.DefaultMode, "rule file mode (auto|text|json|yaml|cue|toml)")
	pf.Int("verbose", config.DefaultVerbose, "0: silent, 1: matched rules, 2: all rules")
	pf.String("db", "", "record runs in this SQLite database")
	pf.String("format", config.DefaultFormat, "output format (json|text)")

	cmd.Flags().StringVarP(&apply.Input, "input", "i", "", "input file; read from stdin when omitted")
	cmd.Flags().StringVarP(&apply.Rules, "rules", "r", "", "rule file")
	cmd.Flags().StringVarP(&apply.Output, "output", "o", "", "output file (default: stdout)")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// newLogger builds the progress logger. Verbosity 0 keeps warnings only,
// 1 adds progress messages and 2 adds debug detail.
func newLogger(w io.Writer, verbose int) *slog.Logger {
	level := slog.LevelInfo
	switch engine.ClampVerbosity(verbose) {
	case engine.Silent:
		level = slog.LevelWarn
	case engine.All:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command with the given arguments and returns the
// process exit code. Errors are printed to stderr.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// cobra argument errors
		err = WrapExitError(ExitCommandError, "invalid arguments", err)
	}
	cmd.PrintErrln("Error:", err)
	return GetExitCode(err)
}
