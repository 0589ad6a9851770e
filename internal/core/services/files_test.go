package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/descheck/internal/adapters/driven/auth"
	"github.com/custodia-labs/descheck/internal/core/domain"
)

func TestFileService_List(t *testing.T) {
	store := &mockStore{log: &callLog{}, files: []domain.StoredFile{{ID: 1, FileName: "a.png"}}}
	svc := NewFileService(auth.NewStaticTokenStore("tok"), store)

	files, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestFileService_RequiresSession(t *testing.T) {
	store := &mockStore{log: &callLog{}}
	svc := NewFileService(auth.NewStaticTokenStore(""), store)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)

	err = svc.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Empty(t, store.log.names())
}

func TestFileService_Delete(t *testing.T) {
	store := &mockStore{log: &callLog{}}
	svc := NewFileService(auth.NewStaticTokenStore("tok"), store)

	require.NoError(t, svc.Delete(context.Background(), 3))
	assert.Equal(t, []int64{3}, store.deleted)

	assert.ErrorIs(t, svc.Delete(context.Background(), 0), domain.ErrInvalidInput)
}

func TestFileService_NilStore(t *testing.T) {
	svc := NewFileService(nil, nil)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
