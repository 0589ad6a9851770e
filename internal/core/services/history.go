package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
	"github.com/custodia-labs/descheck/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// defaultHistoryLimit caps listings when no limit is given.
const defaultHistoryLimit = 50

// HistoryService reads the local run log.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// List returns the most recent runs.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.store.List(ctx, limit)
}

// Get retrieves a run by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.Get(ctx, id)
}

// Clear removes all runs.
func (s *HistoryService) Clear(ctx context.Context) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.Clear(ctx)
}

// HistoryRecorder writes a RunRecord for every run that reaches a
// terminal state. Subscribe its Handle method to a pipeline.
type HistoryRecorder struct {
	store   driven.HistoryStore
	timeout time.Duration

	mu      sync.Mutex
	started map[string]time.Time
}

// NewHistoryRecorder creates a recorder writing to store.
func NewHistoryRecorder(store driven.HistoryStore) *HistoryRecorder {
	return &HistoryRecorder{
		store:   store,
		timeout: 5 * time.Second,
		started: make(map[string]time.Time),
	}
}

// Handle consumes one transition.
func (r *HistoryRecorder) Handle(change domain.StateChange) {
	if change.RunID == "" {
		return
	}

	r.mu.Lock()
	if change.From.Stage == domain.StageIdle && change.To.Stage.IsBusy() {
		r.started[change.RunID] = change.At
	}
	if !change.To.Stage.IsTerminal() {
		r.mu.Unlock()
		return
	}
	startedAt, ok := r.started[change.RunID]
	if !ok {
		startedAt = change.At
	}
	delete(r.started, change.RunID)
	r.mu.Unlock()

	record := domain.RunRecord{
		ID:          change.RunID,
		Variant:     change.Variant,
		SourceLabel: change.SourceLabel,
		UploadID:    change.UploadID,
		Stage:       change.To.Stage,
		Message:     change.To.Message,
		StartedAt:   startedAt,
		FinishedAt:  change.At,
	}
	if res := change.To.Result; res != nil {
		record.Result = res.Text
		record.DoesMatch = res.DoesMatch
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.store.Save(ctx, record); err != nil {
		logger.Warn("save run %s: %v", change.RunID, err)
	}
}
