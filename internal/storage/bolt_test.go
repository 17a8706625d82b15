package storage

import (
	"testing"

	"github.com/johanforsgren/repodeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoltRepositoryPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBoltRepository(dir)
	require.NoError(t, err)

	repos := make([]domain.TrackedRepository, 0, 12)
	for _, name := range []string{"z/last", "a/first", "m/middle", "b/b", "c/c", "d/d", "e/e", "f/f", "g/g", "h/h", "i/i", "j/j"} {
		repos = append(repos, domain.TrackedRepository{Name: name, URL: "https://github.com/" + name})
	}
	require.NoError(t, store.Save(repos))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, repos, got)
}

func TestBoltRepositorySaveReplacesContents(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBoltRepository(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save([]domain.TrackedRepository{{Name: "a/a"}, {Name: "b/b"}}))
	require.NoError(t, store.Save([]domain.TrackedRepository{{Name: "b/b"}}))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []domain.TrackedRepository{{Name: "b/b"}}, got)
	require.NoError(t, store.Close())

	reopened, err := NewBoltRepository(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err = reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, []domain.TrackedRepository{{Name: "b/b"}}, got)
}

func TestBoltRepositoryEmpty(t *testing.T) {
	store, err := NewBoltRepository(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenSelectsBackend(t *testing.T) {
	jsonStore, err := Open(BackendJSON, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &LocalRepository{}, jsonStore)

	defaultStore, err := Open("", t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &LocalRepository{}, defaultStore)

	boltStore, err := Open(BackendBolt, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &BoltRepository{}, boltStore)
	require.NoError(t, boltStore.Close())

	_, err = Open("sqlite", t.TempDir())
	assert.Error(t, err)
}

func TestMemoryRepositoryCountsSaves(t *testing.T) {
	store := NewMemoryRepository(domain.TrackedRepository{Name: "foo/bar"})

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)

	require.NoError(t, store.Save(nil))
	assert.Equal(t, 1, store.Saves)
	assert.Empty(t, store.Snapshot())
}
