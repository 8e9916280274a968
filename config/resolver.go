package config

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cstlint/cstlint/errors"
	"github.com/cstlint/cstlint/system"
	"gopkg.in/yaml.v3"
)

// ScopeFileNames are looked up, in this order, in every directory of a file's chain.
var ScopeFileNames = []string{".cstlint.yaml", ".cstlint.yml", ".cstlint.toml"}

type scopeFile struct {
	Root       bool           `yaml:"root" toml:"root"`
	Properties map[string]any `yaml:"properties" toml:"properties"`
	Overrides  []override     `yaml:"overrides" toml:"overrides"`
}

type override struct {
	Files      []string       `yaml:"files" toml:"files"`
	Properties map[string]any `yaml:"properties" toml:"properties"`
}

type loadedScope struct {
	path    string
	dir     string
	modTime time.Time
	size    int64
	root    bool
	props   []kv
	overs   []loadedOverride
}

type loadedOverride struct {
	files []string
	props []kv
}

type kv struct {
	key, value string
}

// Resolver computes EffectiveConfigs from scope files found through a VirtualFS.
// It is safe for concurrent use.
type Resolver struct {
	fs        system.VirtualFS
	overrides map[string]string

	mu    sync.Mutex
	cache map[string]*loadedScope
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithOverrides applies props after every scope file.
func WithOverrides(props map[string]string) Option {
	return func(r *Resolver) {
		for k, v := range props {
			r.overrides[strings.ToLower(k)] = v
		}
	}
}

func NewResolver(fsys system.VirtualFS, opts ...Option) *Resolver {
	if fsys == nil {
		fsys = &system.FileSystem{}
	}
	r := &Resolver{fs: fsys, overrides: map[string]string{}, cache: map[string]*loadedScope{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the properties in effect for file.
func (r *Resolver) Resolve(file string) (*EffectiveConfig, error) {
	file = filepath.Clean(file)

	var scopes []*loadedScope
	for _, dir := range directoryChain(filepath.Dir(file)) {
		scope, err := r.scopeIn(dir)
		if err != nil {
			return nil, err
		}
		if scope == nil {
			continue
		}
		if scope.root {
			scopes = scopes[:0]
		}
		scopes = append(scopes, scope)
	}

	c := newEffective(file)
	for _, scope := range scopes {
		for _, p := range scope.props {
			c.set(p.key, p.value, scope.path)
		}
		rel, err := filepath.Rel(scope.dir, file)
		if err != nil {
			rel = filepath.Base(file)
		}
		rel = filepath.ToSlash(rel)
		for _, o := range scope.overs {
			if !matchesAny(o.files, rel) {
				continue
			}
			for _, p := range o.props {
				c.set(p.key, p.value, scope.path)
			}
		}
	}

	keys := make([]string, 0, len(r.overrides))
	for k := range r.overrides {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		c.set(k, r.overrides[k], "")
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// directoryChain lists dir and its ancestors, farthest first.
func directoryChain(dir string) []string {
	var chain []string
	for {
		chain = append(chain, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	slices.Reverse(chain)
	return chain
}

func matchesAny(globs []string, rel string) bool {
	base := path.Base(rel)
	for _, g := range globs {
		g = strings.TrimPrefix(g, "**/")
		target := base
		if strings.Contains(g, "/") {
			target = rel
		}
		if ok, _ := path.Match(g, target); ok {
			return true
		}
	}
	return false
}

func (r *Resolver) scopeIn(dir string) (*loadedScope, error) {
	for _, name := range ScopeFileNames {
		p := filepath.Join(dir, name)
		info, err := fs.Stat(r.fs, p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
				continue
			}
			return nil, &Error{Path: p, Err: err}
		}
		if info.IsDir() {
			continue
		}
		return r.load(p, dir, info)
	}
	return nil, nil //nolint:nilnil
}

func (r *Resolver) load(p, dir string, info fs.FileInfo) (*loadedScope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[p]; ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached, nil
	}

	data, err := fs.ReadFile(r.fs, p)
	if err != nil {
		return nil, &Error{Path: p, Err: err}
	}

	var sf scopeFile
	if strings.HasSuffix(p, ".toml") {
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&sf)
	} else {
		err = yaml.Unmarshal(data, &sf)
	}
	if err != nil {
		return nil, &Error{Path: p, Err: err}
	}

	scope := &loadedScope{path: p, dir: dir, modTime: info.ModTime(), size: info.Size(), root: sf.Root}
	if scope.props, err = flatten(p, sf.Properties); err != nil {
		return nil, err
	}
	for i, o := range sf.Overrides {
		if len(o.Files) == 0 {
			return nil, &Error{Path: p, Err: fmt.Errorf("overrides[%d]: files must not be empty", i)}
		}
		for _, g := range o.Files {
			if _, err := path.Match(strings.TrimPrefix(g, "**/"), ""); err != nil {
				return nil, &Error{Path: p, Err: fmt.Errorf("overrides[%d]: glob %q: %w", i, g, err)}
			}
		}
		props, err := flatten(p, o.Properties)
		if err != nil {
			return nil, err
		}
		scope.overs = append(scope.overs, loadedOverride{files: o.Files, props: props})
	}

	r.cache[p] = scope
	return scope, nil
}

// flatten turns scalar property values into strings, in key order.
func flatten(p string, props map[string]any) ([]kv, error) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]kv, 0, len(keys))
	for _, k := range keys {
		switch v := props[k].(type) {
		case nil:
			out = append(out, kv{key: k, value: "unset"})
		case string, bool, int, int64, uint64, float64:
			out = append(out, kv{key: k, value: fmt.Sprint(v)})
		default:
			return nil, &Error{Path: p, Key: k, Value: fmt.Sprint(v), Err: fmt.Errorf("value must be a scalar, got %T", v)}
		}
	}
	return out, nil
}
