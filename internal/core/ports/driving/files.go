package driving

import (
	"context"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// FileService manages previously uploaded content.
type FileService interface {
	// List returns the signed-in user's uploads.
	List(ctx context.Context) ([]domain.StoredFile, error)

	// Delete removes an upload by ID.
	Delete(ctx context.Context, id int64) error
}
