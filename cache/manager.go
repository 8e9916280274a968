// Package cache stores lint results on disk so that unchanged files are not
// linted again. Entries are keyed by the document text, its resolved
// configuration and the rules of the run.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/hashing"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/validation"
	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion is part of every key. Bump it when Entry changes.
const schemaVersion = 1

// Entry is the cached outcome of linting one document.
type Entry struct {
	Text       string                 `msgpack:"text"`
	Violations []validation.Violation `msgpack:"violations"`
	Rounds     int                    `msgpack:"rounds"`
	Converged  bool                   `msgpack:"converged"`
}

// Manager is a disk cache with an in-process layer. It is safe for concurrent use.
// A nil Manager caches nothing.
type Manager struct {
	mu     sync.RWMutex
	dir    string
	memory map[string]*Entry

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cache usage since the manager was opened.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Open returns a manager storing entries under dir, creating it when needed.
func Open(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Manager{dir: dir, memory: map[string]*Entry{}}, nil
}

// OpenDefault opens the cache of app under $XDG_CACHE_HOME, or ~/.cache.
func OpenDefault(app string) (*Manager, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return Open(filepath.Join(base, app))
}

// Key identifies a lint run over text. rules is the execution order and mode
// the autocorrect mode, since both change the result.
func Key(text string, cfg *config.EffectiveConfig, rules []string, mode string) string {
	parts := []string{strconv.Itoa(schemaVersion), mode, text}
	fp := cfg.Fingerprint()
	parts = append(parts, strconv.Itoa(len(fp)))
	parts = append(parts, fp...)
	parts = append(parts, rules...)
	return hashing.Strings(parts...)
}

// Dir returns the directory entries are stored in.
func (m *Manager) Dir() string {
	if m == nil {
		return ""
	}
	return m.dir
}

func (m *Manager) pathFor(key string) string {
	return filepath.Join(m.dir, "results", key+".mp")
}

// Get returns the entry stored under key. A missing or unreadable entry is a miss.
func (m *Manager) Get(key string) (*Entry, bool) {
	if m == nil {
		return nil, false
	}

	m.mu.RLock()
	e, ok := m.memory[key]
	m.mu.RUnlock()
	if ok {
		m.hits.Add(1)
		return e, true
	}

	data, err := os.ReadFile(m.pathFor(key))
	if err != nil {
		m.misses.Add(1)
		return nil, false
	}
	e = &Entry{}
	if err := msgpack.Unmarshal(data, e); err != nil {
		m.misses.Add(1)
		return nil, false
	}

	m.mu.Lock()
	m.memory[key] = e
	m.mu.Unlock()
	m.hits.Add(1)
	return e, true
}

// Put stores e under key. The file is replaced atomically.
func (m *Manager) Put(key string, e *Entry) error {
	if m == nil || e == nil {
		return nil
	}
	data, err := msgpack.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) //nolint:errcheck

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	m.memory[key] = e
	return nil
}

// Clear removes every stored entry.
func (m *Manager) Clear() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.memory = map[string]*Entry{}
	err := os.RemoveAll(filepath.Join(m.dir, "results"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Stats returns usage counters. Entries counts the in-process layer.
func (m *Manager) Stats() Stats {
	if m == nil {
		return Stats{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{Hits: m.hits.Load(), Misses: m.misses.Load(), Entries: len(m.memory)}
}

// Cacheable reports whether res can be replayed later. Failed files and
// files with convergence warnings are linted again.
func Cacheable(res *linter.FileResult) bool {
	return res != nil && !res.Failed() && len(res.Warnings) == 0
}

// EntryOf converts a lint result into an entry.
func EntryOf(res *linter.FileResult) *Entry {
	return &Entry{
		Text:       res.Text,
		Violations: res.Violations,
		Rounds:     res.Rounds,
		Converged:  res.Converged,
	}
}

// Result replays e as the result for path. original is the text the entry
// was looked up with.
func (e *Entry) Result(path, original string) *linter.FileResult {
	violations := make([]validation.Violation, len(e.Violations))
	for i, v := range e.Violations {
		v.File = path
		violations[i] = v.WithSeq(i)
	}
	return &linter.FileResult{
		Path:       path,
		Violations: violations,
		Text:       e.Text,
		Changed:    e.Text != original,
		Rounds:     e.Rounds,
		Converged:  e.Converged,
	}
}
