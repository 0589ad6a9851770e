package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/descheck/internal/core/domain"
)

func TestHistoryStore_SaveAndGet(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	run := domain.RunRecord{ID: "run-1", Variant: domain.VariantVerify, Stage: domain.StageSucceeded}
	require.NoError(t, store.Save(ctx, run))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run, *got)
}

func TestHistoryStore_Get_NotFound(t *testing.T) {
	_, err := NewHistoryStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryStore_List_NewestFirstWithLimit(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, domain.RunRecord{ID: id, StartedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	runs, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHistoryStore_Clear(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.RunRecord{ID: "x"}))

	require.NoError(t, store.Clear(ctx))

	runs, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
