package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/replace-by-rule/internal/engine"
	"github.com/roach88/replace-by-rule/internal/rule"
	"github.com/roach88/replace-by-rule/internal/source"
	"github.com/roach88/replace-by-rule/internal/store"
)

// ApplyOptions holds flags for applying a rule file.
type ApplyOptions struct {
	*RootOptions
	Input  string
	Rules  string
	Output string

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// ApplyResult is the JSON payload of an apply.
type ApplyResult struct {
	RunID      string `json:"run_id"`
	RuleCount  int    `json:"rule_count"`
	Matched    int    `json:"matched"`
	Output     string `json:"output,omitempty"`
	OutputFile string `json:"output_file,omitempty"`
}

func runApply(opts *ApplyOptions, cmd *cobra.Command) error {
	cfg := opts.config()
	log := opts.logger()
	formatter := opts.formatter(cmd)

	if opts.Rules == "" {
		return cmd.Help()
	}

	input, ok, err := readInput(opts, cmd)
	if err != nil {
		return formatter.Fail("failed to read input file", err)
	}
	if !ok {
		return cmd.Help()
	}

	mode, err := source.ParseMode(cfg.Mode)
	if err != nil {
		return formatter.Fail("invalid mode", err)
	}

	rulesPath := absPath(opts.Rules)
	log.Info("Loading rule file", "path", rulesPath)
	rules, err := source.FromFile(rulesPath, mode)
	if err != nil {
		return formatter.Fail("failed to load rules", err)
	}

	ruleLog := cmd.ErrOrStderr()
	res, err := engine.Run(input, rules, engine.Options{
		Verbosity: engine.ClampVerbosity(cfg.Verbose),
		Log: func(line string) {
			fmt.Fprintf(ruleLog, "  %s\n", line)
		},
		RunIDs: opts.RunIDs,
	})
	if err != nil {
		return formatter.Fail("failed to apply rules", err)
	}

	if cfg.DB != "" {
		if err := recordRun(cmd.Context(), opts, rulesPath, input, rules, res); err != nil {
			return formatter.Fail("failed to record run", err)
		}
	}

	result := ApplyResult{
		RunID:     res.RunID,
		RuleCount: len(rules),
		Matched:   res.Matched,
	}

	if opts.Output != "" {
		outPath := absPath(opts.Output)
		if err := writeOutput(outPath, res.Output); err != nil {
			if formatter.Format == "json" {
				_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			}
			return WrapExitError(ExitCommandError, "failed to write output file", err)
		}
		log.Info("Writing output file", "path", outPath)
		result.OutputFile = outPath
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		return nil
	}

	if formatter.Format == "json" {
		result.Output = res.Output
		return formatter.Success(result)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), res.Output)
	return err
}

// readInput returns the input text. ok is false when there is no input file
// and stdin is an interactive terminal.
func readInput(opts *ApplyOptions, cmd *cobra.Command) (string, bool, error) {
	if opts.Input != "" {
		path := absPath(opts.Input)
		opts.logger().Info("Loading input file", "path", path)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	}

	in := cmd.InOrStdin()
	if isTerminal(in) {
		return "", false, nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writeOutput(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return os.WriteFile(path, []byte(text), 0644)
}

func recordRun(ctx context.Context, opts *ApplyOptions, rulesPath, input string, rules []rule.Rule, res *engine.Result) error {
	cfg := opts.config()
	if ctx == nil {
		ctx = context.Background()
	}

	run, err := res.Record(rulesPath, input, rules, engine.ClampVerbosity(cfg.Verbose))
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer st.Close()

	stored, err := st.WriteRun(ctx, run, res.Steps)
	if err != nil {
		return err
	}
	opts.logger().Info("run recorded", "run_id", stored.ID, "seq", stored.Seq, "db", cfg.DB)
	return nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
