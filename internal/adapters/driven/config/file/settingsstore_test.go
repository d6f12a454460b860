package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matcha-labs/matcha-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *SettingsStore {
	t.Helper()
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSettingsStore_Load_MissingFileReturnsDefaults(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.Load()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Analysis, settings.Analysis)
	assert.Equal(t, defaults.Cache, settings.Cache)
	assert.Len(t, settings.Areas, len(defaults.Areas))
	assert.False(t, store.Exists())
}

func TestSettingsStore_SaveLoadRoundtrip(t *testing.T) {
	store := newTestStore(t)

	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "nomic-embed-text",
		BaseURL:  "http://localhost:11434",
	}
	settings.Analysis.Strictness = string(domain.StrictnessStrict)
	settings.Corpus.Dir = "/srv/testcases"

	require.NoError(t, store.Save(settings))
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings.Embedding, loaded.Embedding)
	assert.Equal(t, settings.Analysis, loaded.Analysis)
	assert.Equal(t, "/srv/testcases", loaded.Corpus.Dir)
}

func TestSettingsStore_Load_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	partial := "[analysis]\nstrictness = \"lenient\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(partial), 0o600))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "lenient", settings.Analysis.Strictness)
	assert.Equal(t, domain.DefaultAppSettings().Cache.Capacity, settings.Cache.Capacity)
	assert.NotEmpty(t, settings.Areas)
}

func TestSettingsStore_Load_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not toml {{"), 0o600))

	_, err = store.Load()
	assert.Error(t, err)
}

func TestSettingsStore_Save_RestrictedPermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(domain.DefaultAppSettings()))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
