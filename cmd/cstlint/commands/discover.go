package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cstlint/cstlint/parser/treesitter"
)

// DefaultIgnoreDirs returns the directories skipped while walking.
func DefaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		".git":         {},
		".hg":          {},
		".svn":         {},
		".idea":        {},
		".gradle":      {},
		".kotlin":      {},
		"node_modules": {},
		"build":        {},
		"out":          {},
		"target":       {},
		".cache":       {},
	}
}

// sourceFile is a file selected for linting.
type sourceFile struct {
	// AbsPath is used to read, resolve configuration and write back.
	AbsPath string
	// DisplayPath is reported and matched against ignore globs.
	DisplayPath string
	// Stdin marks the document read from standard input.
	Stdin bool
}

// collectFiles expands paths into source files. Directories are walked,
// skipping ignored directories and files without a Kotlin extension. Files
// named explicitly are always included.
func collectFiles(paths []string, ignoreDirs map[string]struct{}) ([]sourceFile, error) {
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs()
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	seen := make(map[string]struct{})
	var files []sourceFile
	add := func(abs string) {
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		display, err := filepath.Rel(cwd, abs)
		if err != nil || strings.HasPrefix(display, "..") {
			display = abs
		}
		files = append(files, sourceFile{AbsPath: abs, DisplayPath: filepath.ToSlash(display)})
	}

	for _, p := range paths {
		absRoot, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		info, err := os.Stat(absRoot)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(absRoot)
			continue
		}

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == absRoot {
					return nil
				}
				if _, ok := ignoreDirs[d.Name()]; ok {
					return filepath.SkipDir
				}
				return nil
			}
			if isSourceFile(d.Name()) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.SortFunc(files, func(a, b sourceFile) int {
		return strings.Compare(a.DisplayPath, b.DisplayPath)
	})
	return files, nil
}

func isSourceFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext != "" && slices.Contains(treesitter.Extensions, ext)
}
