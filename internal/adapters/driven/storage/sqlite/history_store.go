package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

const runColumns = `id, variant, source_label, upload_id, stage, message, result, does_match, started_at, finished_at`

// Save stores or updates a run.
func (s *historyStore) Save(ctx context.Context, run domain.RunRecord) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}

	var match sql.NullBool
	if run.DoesMatch != nil {
		match = sql.NullBool{Bool: *run.DoesMatch, Valid: true}
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			variant = excluded.variant,
			source_label = excluded.source_label,
			upload_id = excluded.upload_id,
			stage = excluded.stage,
			message = excluded.message,
			result = excluded.result,
			does_match = excluded.does_match,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, run.ID, string(run.Variant), run.SourceLabel, run.UploadID, string(run.Stage),
		run.Message, run.Result, match, run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *historyStore) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns runs newest first. A limit of zero or less returns all.
func (s *historyStore) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Clear removes all runs.
func (s *historyStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return fmt.Errorf("clearing runs: %w", err)
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*domain.RunRecord, error) {
	var (
		run               domain.RunRecord
		variant, stage    string
		match             sql.NullBool
		started, finished time.Time
	)
	err := sc.Scan(&run.ID, &variant, &run.SourceLabel, &run.UploadID, &stage,
		&run.Message, &run.Result, &match, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	run.Variant = domain.Variant(variant)
	run.Stage = domain.Stage(stage)
	if match.Valid {
		b := match.Bool
		run.DoesMatch = &b
	}
	run.StartedAt = started
	run.FinishedAt = finished
	return &run, nil
}
