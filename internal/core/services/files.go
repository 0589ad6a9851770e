package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/descheck/internal/core/domain"
	"github.com/custodia-labs/descheck/internal/core/ports/driven"
	"github.com/custodia-labs/descheck/internal/core/ports/driving"
)

// Ensure FileService implements the interface.
var _ driving.FileService = (*FileService)(nil)

// FileService manages the user's uploaded content.
type FileService struct {
	store driven.RemoteStore
	gate  *SessionGate
}

// NewFileService creates a new file service.
func NewFileService(tokens driven.TokenStore, store driven.RemoteStore) *FileService {
	return &FileService{
		store: store,
		gate:  NewSessionGate(tokens),
	}
}

// List returns the user's uploads.
func (s *FileService) List(ctx context.Context) ([]domain.StoredFile, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	session, err := s.gate.Resolve()
	if err != nil {
		return nil, err
	}
	files, err := s.store.List(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Delete removes an upload.
func (s *FileService) Delete(ctx context.Context, id int64) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if id <= 0 {
		return fmt.Errorf("%w: file id must be positive", domain.ErrInvalidInput)
	}
	session, err := s.gate.Resolve()
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, session, id); err != nil {
		return fmt.Errorf("delete file %d: %w", id, err)
	}
	return nil
}
