package driving

import (
	"context"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// StateHandler receives pipeline transitions.
type StateHandler func(change domain.StateChange)

// PipelineService runs submissions and exposes their state.
type PipelineService interface {
	// Acquire turns raw input into canonical content and checks the payload.
	// It counts as new input: prior results are cleared first and the
	// pipeline returns to idle on success.
	Acquire(ctx context.Context, input domain.RawInput) (*domain.CanonicalContent, error)

	// Run validates, uploads and analyzes already acquired content.
	Run(ctx context.Context, content *domain.CanonicalContent, variant domain.Variant) (*domain.AnalysisResult, error)

	// Submit acquires the input and runs it in one pass.
	Submit(ctx context.Context, input domain.RawInput, variant domain.Variant) (*domain.AnalysisResult, error)

	// State returns the current pipeline state.
	State() domain.PipelineState

	// Reset returns the pipeline to idle, clearing any message or result.
	Reset()

	// Subscribe registers a handler for every transition.
	Subscribe(handler StateHandler) error

	// Busy reports whether a run is in flight.
	Busy() bool
}
