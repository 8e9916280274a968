package cache_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cstlint/cstlint/cache"
	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry() *cache.Entry {
	return &cache.Entry{
		Text: "val r = 0..3\n",
		Violations: []validation.Violation{
			{Rule: "range-spacing", Offset: 9, Line: 1, Column: 10, Message: `Unexpected spacing around ".."`, Severity: validation.SeverityError, Autocorrectable: true, Corrected: true},
			{Rule: "max-line-length", Offset: 0, Line: 1, Column: 1, Message: "Exceeded max line length (10)", Severity: validation.SeverityWarning},
		},
		Rounds:    2,
		Converged: true,
	}
}

func TestManager_PutGet_Success(t *testing.T) {
	t.Parallel()

	m, err := cache.Open(t.TempDir())
	require.NoError(t, err)

	_, ok := m.Get("missing")
	assert.False(t, ok)

	require.NoError(t, m.Put("k", entry()))
	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, entry(), got)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestManager_Persists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m, err := cache.Open(dir)
	require.NoError(t, err)
	require.NoError(t, m.Put("k", entry()))

	reopened, err := cache.Open(dir)
	require.NoError(t, err)
	got, ok := reopened.Get("k")
	require.True(t, ok)
	assert.Equal(t, entry().Violations, got.Violations)
	assert.Equal(t, "val r = 0..3\n", got.Text)
}

func TestManager_CorruptEntryIsMiss(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m, err := cache.Open(dir)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "results"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "results", "k.mp"), []byte{0xc1}, 0o600))

	_, ok := m.Get("k")
	assert.False(t, ok)
	assert.Equal(t, int64(1), m.Stats().Misses)
}

func TestManager_Clear(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m, err := cache.Open(dir)
	require.NoError(t, err)
	require.NoError(t, m.Put("k", entry()))

	require.NoError(t, m.Clear())
	_, ok := m.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Stats().Entries)
	assert.NoDirExists(t, filepath.Join(dir, "results"))

	require.NoError(t, m.Clear(), "clearing an empty cache")
}

func TestManager_Nil(t *testing.T) {
	t.Parallel()

	var m *cache.Manager
	require.NoError(t, m.Put("k", entry()))
	_, ok := m.Get("k")
	assert.False(t, ok)
	require.NoError(t, m.Clear())
	assert.Equal(t, cache.Stats{}, m.Stats())
	assert.Empty(t, m.Dir())
}

func TestManager_Concurrent(t *testing.T) {
	t.Parallel()

	m, err := cache.Open(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := cache.Key("val x = 1\n", nil, []string{"rule"}, string(rune('a'+i)))
			assert.NoError(t, m.Put(key, entry()))
			_, ok := m.Get(key)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, m.Stats().Entries)
}

func TestKey(t *testing.T) {
	t.Parallel()

	cfg := config.New("Main.kt", map[string]string{"indent_size": "4"})
	base := cache.Key("val x = 1\n", cfg, []string{"a", "b"}, "auto")

	assert.Equal(t, base, cache.Key("val x = 1\n", config.New("Other.kt", map[string]string{"indent_size": "4"}), []string{"a", "b"}, "auto"),
		"the path does not take part in the key")

	for name, other := range map[string]string{
		"text":   cache.Key("val x = 2\n", cfg, []string{"a", "b"}, "auto"),
		"config": cache.Key("val x = 1\n", config.New("Main.kt", map[string]string{"indent_size": "2"}), []string{"a", "b"}, "auto"),
		"rules":  cache.Key("val x = 1\n", cfg, []string{"b", "a"}, "auto"),
		"mode":   cache.Key("val x = 1\n", cfg, []string{"a", "b"}, "lint"),
		"split":  cache.Key("val x = 1\n", cfg, []string{"ab"}, "auto"),
	} {
		assert.NotEqual(t, base, other, "changing the %s changes the key", name)
	}
}

func TestEntry_RoundTripsResult(t *testing.T) {
	t.Parallel()

	res := &linter.FileResult{
		Path:       "src/Main.kt",
		Violations: entry().Violations,
		Text:       "val r = 0..3\n",
		Changed:    true,
		Rounds:     2,
		Converged:  true,
	}
	require.True(t, cache.Cacheable(res))

	replayed := cache.EntryOf(res).Result("src/Main.kt", "val r = 0 .. 3\n")
	assert.Equal(t, "src/Main.kt", replayed.Path)
	assert.True(t, replayed.Changed)
	assert.Equal(t, 2, replayed.Rounds)
	require.Len(t, replayed.Violations, 2)
	assert.Equal(t, "src/Main.kt", replayed.Violations[0].File)
	assert.Equal(t, 1, replayed.Violations[1].Seq())

	unchanged := cache.EntryOf(res).Result("src/Main.kt", "val r = 0..3\n")
	assert.False(t, unchanged.Changed)
}

func TestCacheable(t *testing.T) {
	t.Parallel()

	assert.False(t, cache.Cacheable(nil))
	assert.False(t, cache.Cacheable(&linter.FileResult{Err: assert.AnError}))
	assert.False(t, cache.Cacheable(&linter.FileResult{RuleErrors: []*linter.RuleError{{Rule: "r", Err: assert.AnError}}}))
	assert.False(t, cache.Cacheable(&linter.FileResult{Warnings: []error{&linter.ConvergenceWarning{Path: "a.kt", Rounds: 3}}}))
	assert.True(t, cache.Cacheable(&linter.FileResult{}))
}
