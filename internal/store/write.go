package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/replace-by-rule/internal/rule"
)

// WriteRun records a run and its steps in a single transaction and returns
// the run with its assigned seq.
//
// Writing a run ID that already exists is a no-op: the stored run is
// returned unchanged and steps are not rewritten.
func (s *Store) WriteRun(ctx context.Context, run rule.Run, steps []rule.Step) (rule.Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return rule.Run{}, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&existing)
	switch {
	case err == nil:
		run.Seq = existing
		return run, nil
	case !errors.Is(err, sql.ErrNoRows):
		return rule.Run{}, fmt.Errorf("write run: lookup: %w", err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return rule.Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, rule_source, ruleset_hash, input_hash, output_hash, rule_count, matched_count, verbosity, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.Source,
		run.RuleSetHash,
		run.InputHash,
		run.OutputHash,
		run.RuleCount,
		run.MatchedCount,
		run.Verbosity,
		run.EngineVersion,
	)
	if err != nil {
		return rule.Run{}, fmt.Errorf("write run: %w", err)
	}

	for _, step := range steps {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO steps (run_id, idx, seq, comment, find, replace, outcome)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			step.Index,
			step.Seq,
			step.Comment,
			step.Find,
			step.Replace,
			string(step.Outcome),
		)
		if err != nil {
			return rule.Run{}, fmt.Errorf("write step %d: %w", step.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return rule.Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}
