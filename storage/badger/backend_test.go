package badger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/particula/core"
	"github.com/poiesic/particula/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir, false, WithLogger(nil))
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := OpenBackend(path, false)
	assert.Error(t, err)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	repo := NewEntityRepository(backend)
	_, err = repo.GetEntity(context.Background(), 11)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestWithTransaction(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	called := false
	err = backend.WithTransaction(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	boom := errors.New("boom")
	err = backend.WithTransaction(ctx, func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestNewMemoryRepositories(t *testing.T) {
	entities, artifacts, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		entities.Close()
		artifacts.Close()
		backend.Close()
	}()

	ctx := context.Background()
	require.NoError(t, entities.PutEntities(ctx, &core.Entity{ID: 22, Name: "gamma", Conjugate: 22}))
	require.NoError(t, artifacts.WriteArtifact(ctx, "22.json", []byte("{}")))

	n, err := entities.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	names, err := artifacts.ListArtifacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"22.json"}, names, "entity keys do not leak into the artifact listing")
}
