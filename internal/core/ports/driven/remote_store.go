package driven

import (
	"context"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

// RemoteStore persists encoded content on the server.
type RemoteStore interface {
	// Upload stores the payload and returns its server-assigned handle.
	// Failures carry the server's detail message when one was sent.
	Upload(ctx context.Context, session domain.Session, req domain.UploadRequest) (*domain.UploadRecord, error)

	// List returns the signed-in user's uploads.
	List(ctx context.Context, session domain.Session) ([]domain.StoredFile, error)

	// Delete removes an upload.
	Delete(ctx context.Context, session domain.Session, id int64) error
}
