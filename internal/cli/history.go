package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/replace-by-rule/internal/rule"
	"github.com/roach88/replace-by-rule/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	RunID string
	Limit int
}

// RunDetail is a run with its per-rule steps.
type RunDetail struct {
	Run   rule.Run    `json:"run"`
	Steps []rule.Step `json:"steps"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Long: `List runs recorded with --db, newest first, or show the per-rule
steps of one run.

Examples:
  replace-by-rule history --db ./runs.db
  replace-by-rule history --db ./runs.db --run 0190f3b2-...
  replace-by-rule history --db ./runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the steps of this run")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	dbPath := opts.config().DB

	if dbPath == "" {
		return NewExitError(ExitCommandError, "no database configured (use --db or REPLACE_BY_RULE_DB)")
	}
	// store.Open would create a missing file.
	if _, err := os.Stat(dbPath); err != nil {
		return formatter.Fail("database not found", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.RunID != "" {
		run, steps, err := st.ReadRun(ctx, opts.RunID)
		if err != nil {
			if errors.Is(err, store.ErrRunNotFound) {
				return formatter.Fail("run not found", err)
			}
			return formatter.Fail("failed to read run", err)
		}
		detail := RunDetail{Run: run, Steps: steps}
		if formatter.Format == "json" {
			return formatter.Success(detail)
		}
		outputRunText(formatter.Writer, detail)
		return nil
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return formatter.Fail("failed to list runs", err)
	}
	if formatter.Format == "json" {
		return formatter.Success(runs)
	}
	outputRunsText(formatter.Writer, runs)
	return nil
}

func outputRunsText(w io.Writer, runs []rule.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%4d  %s  %d/%d matched  %s\n", r.Seq, r.ID, r.MatchedCount, r.RuleCount, r.Source)
	}
}

func outputRunText(w io.Writer, d RunDetail) {
	r := d.Run
	fmt.Fprintf(w, "Run %s (seq %d)\n", r.ID, r.Seq)
	fmt.Fprintf(w, "  source:  %s\n", r.Source)
	fmt.Fprintf(w, "  ruleset: %s\n", r.RuleSetHash)
	fmt.Fprintf(w, "  input:   %s\n", r.InputHash)
	fmt.Fprintf(w, "  output:  %s\n", r.OutputHash)
	fmt.Fprintf(w, "  matched: %d/%d (engine %s)\n", r.MatchedCount, r.RuleCount, r.EngineVersion)
	fmt.Fprintln(w)

	for _, s := range d.Steps {
		line := fmt.Sprintf("  [%d] %-9s '%s' -> '%s'", s.Index, s.Outcome, s.Find, s.Replace)
		if s.Comment != "" {
			line += "  //" + s.Comment
		}
		fmt.Fprintln(w, line)
	}
}
