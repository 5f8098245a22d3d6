package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := FileTokenStore{Path: path}

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, store.Save("abc.def.ghi"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tok, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	tok, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestSession_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s := NewSession(FileTokenStore{Path: path})
	require.NoError(t, s.Restore())
	assert.False(t, s.Authenticated())

	require.NoError(t, s.Acquire("tok"))
	assert.Equal(t, "tok", s.Token())

	restored := NewSession(FileTokenStore{Path: path})
	require.NoError(t, restored.Restore())
	assert.Equal(t, "tok", restored.Token())

	require.NoError(t, restored.Clear())
	assert.False(t, restored.Authenticated())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
