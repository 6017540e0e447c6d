package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/replace-by-rule/internal/rule"
)

const runColumns = `id, seq, rule_source, ruleset_hash, input_hash, output_hash,
	rule_count, matched_count, verbosity, engine_version`

// ListRuns returns recorded runs, newest first. A limit of 0 or less
// returns every run.
//
// Returns an empty slice (not nil) when no runs exist.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]rule.Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []rule.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns a run and its steps ordered by index.
// Returns ErrRunNotFound if the ID is unknown.
func (s *Store) ReadRun(ctx context.Context, id string) (rule.Run, []rule.Step, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rule.Run{}, nil, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return rule.Run{}, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, idx, seq, comment, find, replace, outcome
		FROM steps
		WHERE run_id = ?
		ORDER BY idx ASC
	`, id)
	if err != nil {
		return rule.Run{}, nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []rule.Step{}
	for rows.Next() {
		var step rule.Step
		var outcome string
		if err := rows.Scan(&step.RunID, &step.Index, &step.Seq, &step.Comment, &step.Find, &step.Replace, &outcome); err != nil {
			return rule.Run{}, nil, fmt.Errorf("scan step: %w", err)
		}
		step.Outcome = rule.Outcome(outcome)
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return rule.Run{}, nil, fmt.Errorf("iterate steps: %w", err)
	}
	return run, steps, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (rule.Run, error) {
	var run rule.Run
	err := sc.Scan(
		&run.ID,
		&run.Seq,
		&run.Source,
		&run.RuleSetHash,
		&run.InputHash,
		&run.OutputHash,
		&run.RuleCount,
		&run.MatchedCount,
		&run.Verbosity,
		&run.EngineVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return rule.Run{}, err
	}
	if err != nil {
		return rule.Run{}, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}
