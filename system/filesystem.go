// Package system abstracts the file system the resolver reads from and the CLI writes to.
package system

import (
	"io/fs"
	"os"
)

// VirtualFS is the read side used by the configuration resolver.
type VirtualFS interface {
	fs.FS
}

// WritableFS can persist corrected documents.
type WritableFS interface {
	VirtualFS
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// FileSystem is a VirtualFS backed by the operating system. Unlike os.DirFS it
// accepts absolute paths.
type FileSystem struct{}

var (
	_ VirtualFS  = (*FileSystem)(nil)
	_ WritableFS = (*FileSystem)(nil)
	_ fs.StatFS  = (*FileSystem)(nil)
)

func (fs *FileSystem) Open(name string) (fs.File, error) {
	return os.Open(name) //nolint:gosec
}

func (fs *FileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// WriteFile replaces the file content, keeping the existing permissions when the file exists.
func (fs *FileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if info, err := os.Stat(name); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(name, data, perm) //nolint:gosec
}
