package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/descheck/internal/adapters/driven/config/file"
	"github.com/custodia-labs/descheck/internal/adapters/driven/storage/memory"
)

func TestConfigTokenStore_AbsentIsNotAnError(t *testing.T) {
	store := NewConfigTokenStore(memory.NewConfigStore())

	token, err := store.Token()

	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestConfigTokenStore_SetAndClear(t *testing.T) {
	config := memory.NewConfigStore()
	store := NewConfigTokenStore(config)

	require.NoError(t, store.SetToken("abc.def.ghi"))
	assert.Equal(t, "abc.def.ghi", config.GetString(TokenKey))

	token, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	require.NoError(t, store.Clear())
	token, err = store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestConfigTokenStore_TrimsWhitespace(t *testing.T) {
	config := memory.NewConfigStore()
	_ = config.Set(TokenKey, "  tok \n")

	token, err := NewConfigTokenStore(config).Token()

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestConfigTokenStore_SeesLogoutFromOtherProcess(t *testing.T) {
	dir := t.TempDir()
	mine, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	theirs, err := file.NewConfigStore(dir)
	require.NoError(t, err)

	store := NewConfigTokenStore(mine)
	require.NoError(t, store.SetToken("tok"))

	// Another process loads the file and logs out.
	require.NoError(t, theirs.Load())
	require.NoError(t, NewConfigTokenStore(theirs).Clear())

	token, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStaticTokenStore(t *testing.T) {
	store := NewStaticTokenStore("env-token")

	token, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "env-token", token)

	require.NoError(t, store.Clear())
	token, _ = store.Token()
	assert.Empty(t, token)
}
