package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill-matrix/internal/domain/catalog"
)

func TestFileStore_RoundTripAndClear(t *testing.T) {
	s := FileStore{Path: filepath.Join(t.TempDir(), "nested", "session.json")}

	_, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(Credentials{Server: "http://x", Token: "tok", User: catalog.User{ID: 3, Name: "Ana"}}))
	info, err := os.Stat(s.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, "Ana", got.User.Name)
	assert.False(t, got.SavedAt.IsZero())

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	_, ok, err = s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_CorruptDataIsDropped(t *testing.T) {
	s := FileStore{Path: filepath.Join(t.TempDir(), "session.json")}
	require.NoError(t, os.WriteFile(s.Path, []byte("{not json"), 0o600))

	_, ok, err := s.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = os.Stat(s.Path)
	assert.True(t, os.IsNotExist(err))
}
