package driven

import (
	"context"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// SocialExtractor resolves a social post into its image and caption.
type SocialExtractor interface {
	// Extract fetches the post. The returned post may have empty
	// ImageURL or Caption; callers decide whether that is acceptable.
	Extract(ctx context.Context, postURL, postID string) (*domain.SocialPost, error)
}
