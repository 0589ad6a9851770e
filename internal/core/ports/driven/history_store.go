package driven

import (
	"context"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// HistoryStore persists finished pipeline runs.
type HistoryStore interface {
	// Save stores a run. Creates if new, updates if exists.
	Save(ctx context.Context, run domain.RunRecord) error

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// Clear removes all runs.
	Clear(ctx context.Context) error
}
