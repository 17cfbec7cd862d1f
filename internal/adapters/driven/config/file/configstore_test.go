package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewConfigStore_Success(t *testing.T) {
	store, dir := newTestStore(t)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".scrutiny")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefaultConfigDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	dir, err := DefaultConfigDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".scrutiny"), dir)
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[llm\nmodel = "), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("llm.model", "gemini-1.5-flash-latest"))
	require.NoError(t, store.Set("retrieval.top_k", 3))
	require.NoError(t, store.Set("server.verbose", true))
	require.NoError(t, store.Set("textbooks.paths", []string{"a.pdf", "b.pdf"}))

	assert.Equal(t, "gemini-1.5-flash-latest", store.GetString("llm.model"))
	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))
	assert.True(t, store.GetBool("server.verbose"))
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, store.GetStringSlice("textbooks.paths"))

	// Wrong types and missing keys yield zero values.
	assert.Equal(t, "", store.GetString("retrieval.top_k"))
	assert.Equal(t, 0, store.GetInt("llm.model"))
	assert.False(t, store.GetBool("llm.model"))
	assert.Nil(t, store.GetStringSlice("llm.model"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Set("llm.provider", "gemini"))
	require.NoError(t, store.Set("llm.call_delay_ms", 2000))
	require.NoError(t, store.Set("embedding.batch_size", 100))

	raw, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "[llm]")
	assert.Contains(t, content, "[embedding]")
	assert.NotContains(t, content, `"llm.provider"`)

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "gemini", reloaded.GetString("llm.provider"))
	assert.Equal(t, 2000, reloaded.GetInt("llm.call_delay_ms"))
	assert.Equal(t, 100, reloaded.GetInt("embedding.batch_size"))
	assert.Equal(t, []string{"embedding.batch_size", "llm.call_delay_ms", "llm.provider"}, reloaded.Keys())
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(store.Path())

	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_LoadPicksUpExternalEdits(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, store.Set("retrieval.top_k", 3))

	edited := "[retrieval]\ntop_k = 5\ncontext_chars = 250\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(edited), 0600))
	require.NoError(t, store.Load())

	assert.Equal(t, 5, store.GetInt("retrieval.top_k"))
	assert.Equal(t, 250, store.GetInt("retrieval.context_chars"))
}

func TestConfigStore_LoadMissingFileClears(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("llm.model", "x"))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Load())

	_, ok := store.Get("llm.model")
	assert.False(t, ok)
}

func TestConfigStore_SetConflictingKey(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("llm.model", "x"))

	err := store.Set("llm", "flat")

	assert.Error(t, err)
	_, ok := store.Get("llm")
	assert.False(t, ok, "rejected value is not kept")
	assert.NoError(t, store.Set("llm.provider", "gemini"))
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"llm": map[string]any{
			"model": "m",
			"limits": map[string]any{
				"delay": int64(2),
			},
		},
		"top": true,
	}

	assert.Equal(t, map[string]any{
		"llm.model":        "m",
		"llm.limits.delay": int64(2),
		"top":              true,
	}, flattenMap(nested, ""))
}

func TestNestMap(t *testing.T) {
	nested, err := nestMap(map[string]any{
		"llm.model":        "m",
		"llm.limits.delay": 2,
		"top":              true,
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"llm": map[string]any{
			"model":  "m",
			"limits": map[string]any{"delay": 2},
		},
		"top": true,
	}, nested)
}

func TestNestMap_Conflicts(t *testing.T) {
	_, err := nestMap(map[string]any{"llm": "x", "llm.model": "m"})
	assert.Error(t, err)
}
