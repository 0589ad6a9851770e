package driven

import (
	"context"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// Analyzer runs remote analysis on stored content.
type Analyzer interface {
	// Analyze runs the variant-specific analysis on an upload.
	Analyze(ctx context.Context, session domain.Session, req domain.AnalysisRequest) (*domain.AnalysisResult, error)
}
