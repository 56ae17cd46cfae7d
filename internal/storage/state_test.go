package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestFileStore_Token(t *testing.T) {
	store := newStore(t)

	_, ok := store.Token()
	assert.False(t, ok)

	require.NoError(t, store.SetToken("header.payload.signature"))

	token, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, "header.payload.signature", token)

	require.NoError(t, store.ClearToken())
	_, ok = store.Token()
	assert.False(t, ok)

	// повторная очистка не ошибка
	require.NoError(t, store.ClearToken())
}

func TestFileStore_Favorites(t *testing.T) {
	store := newStore(t)

	ids, err := store.Favorites()
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.SetFavorites([]string{"card-1", "card-2"}))

	ids, err = store.Favorites()
	require.NoError(t, err)
	assert.Equal(t, []string{"card-1", "card-2"}, ids)

	require.NoError(t, store.SetFavorites(nil))
	ids, err = store.Favorites()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_Theme(t *testing.T) {
	store := newStore(t)

	assert.Equal(t, ThemeLight, store.Theme())

	require.NoError(t, store.SetTheme(ThemeDark))
	assert.Equal(t, ThemeDark, store.Theme())

	require.NoError(t, store.SetTheme(ThemeLight))
	assert.Equal(t, ThemeLight, store.Theme())

	err := store.SetTheme("solarized")
	assert.Error(t, err)
}

func TestFileStore_SetLastCardID(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.SetLastCardID("6621f5c2a1b2c3d4e5f60001"))
	// значение write-only, повторная запись просто перетирает файл
	require.NoError(t, store.SetLastCardID("6621f5c2a1b2c3d4e5f60002"))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SetToken("token-value"))
	require.NoError(t, store.SetFavorites([]string{"card-1"}))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	token, ok := reopened.Token()
	assert.True(t, ok)
	assert.Equal(t, "token-value", token)

	ids, err := reopened.Favorites()
	require.NoError(t, err)
	assert.Equal(t, []string{"card-1"}, ids)
}
