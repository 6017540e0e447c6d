package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/replace-by-rule/internal/rule"
	"github.com/roach88/replace-by-rule/internal/source"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult holds the normalized rules of a rule file.
type CompilationResult struct {
	RuleSetHash string             `json:"ruleset_hash"`
	Rules       []rule.Description `json:"rules"`
	Inert       int                `json:"inert"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <rules-file>",
		Short: "Normalize a rule file and print the canonical rules",
		Long: `Load a rule file, resolve @all and @reg annotations, and print the
canonical rule list with its ruleset hash.

With --output the rules are also written as canonical JSON, the same bytes
that are hashed for run history.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write canonical JSON to this file")

	return cmd
}

func runCompile(opts *CompileOptions, rulesFile string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	mode, err := source.ParseMode(opts.config().Mode)
	if err != nil {
		return formatter.Fail("invalid mode", err)
	}

	formatter.VerboseLog("Loading rule file %s (mode %s)", rulesFile, mode)
	rules, err := source.FromFile(rulesFile, mode)
	if err != nil {
		return formatter.Fail("failed to load rules", err)
	}

	hash, err := rule.RuleSetHash(rules)
	if err != nil {
		return formatter.Fail("failed to hash rules", err)
	}

	result := &CompilationResult{
		RuleSetHash: hash,
		Rules:       make([]rule.Description, len(rules)),
	}
	for i, r := range rules {
		result.Rules[i] = rule.Describe(r)
		if r.IsInert() {
			result.Inert++
		}
	}

	if opts.Output != "" {
		if err := writeRulesToFile(result.Rules, opts.Output); err != nil {
			if formatter.Format == "json" {
				_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			}
			return WrapExitError(ExitCommandError, "failed to write output file", err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	outputCompileText(formatter.Writer, result, opts.Output)
	return nil
}

func outputCompileText(w io.Writer, result *CompilationResult, outputFile string) {
	fmt.Fprintf(w, "✓ Compiled %d rule(s), %d inert\n", len(result.Rules), result.Inert)
	fmt.Fprintf(w, "ruleset: %s\n\n", result.RuleSetHash)

	for i, d := range result.Rules {
		fmt.Fprintf(w, "  %d: %s\n", i, describeLine(d))
	}

	if outputFile != "" {
		fmt.Fprintf(w, "\nWrote canonical rules to %s\n", outputFile)
	}
}

// describeLine renders one rule for text output.
func describeLine(d rule.Description) string {
	var line string
	switch d.FindKind {
	case rule.KindNone:
		line = "(inert)"
	case rule.KindPattern:
		line = fmt.Sprintf("/%s/%s -> '%s'", d.Find, d.Flags, d.Replace)
	default:
		line = fmt.Sprintf("'%s' -> '%s'", d.Find, d.Replace)
	}
	if d.ForAll {
		line += " (all)"
	}
	if d.Comment != "" {
		line += "  //" + d.Comment
	}
	return line
}

// writeRulesToFile writes rule descriptions as canonical JSON.
func writeRulesToFile(rules []rule.Description, filename string) error {
	data, err := rule.MarshalCanonical(rules)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
