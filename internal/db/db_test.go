package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/todo/internal/session"
)

var _ session.TokenStore = (*TokenStore)(nil)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "nested", "todo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSettings(t *testing.T) {
	db := openTest(t)

	v, err := db.GetSetting("missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, db.SetSetting("k", "one"))
	require.NoError(t, db.SetSetting("k", "two"))
	v, err = db.GetSetting("k")
	require.NoError(t, err)
	assert.Equal(t, "two", v)

	require.NoError(t, db.DeleteSetting("k"))
	require.NoError(t, db.DeleteSetting("k"))
	v, err = db.GetSetting("k")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestTheme(t *testing.T) {
	db := openTest(t)
	require.NoError(t, db.SetTheme("light"))
	theme, err := db.Theme()
	require.NoError(t, err)
	assert.Equal(t, "light", theme)
}

func TestTokenStore(t *testing.T) {
	db := openTest(t)
	store := db.Tokens()

	token, err := store.Get()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Set("a.b.c"))
	token, err = store.Get()
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", token)

	raw, err := db.GetSetting(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", raw)

	require.NoError(t, store.Set(""))
	token, err = store.Get()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestReopenKeepsToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")

	first, err := New(path)
	require.NoError(t, err)
	require.NoError(t, first.Tokens().Set("x.y.z"))
	require.NoError(t, first.Close())

	second, err := New(path)
	require.NoError(t, err)
	defer second.Close()
	token, err := second.Tokens().Get()
	require.NoError(t, err)
	assert.Equal(t, "x.y.z", token)
}
