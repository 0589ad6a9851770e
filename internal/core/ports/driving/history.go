package driving

import (
	"context"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// HistoryService exposes the local run log.
type HistoryService interface {
	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)

	// Clear removes all recorded runs.
	Clear(ctx context.Context) error
}
