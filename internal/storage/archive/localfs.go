// internal/storage/archive/localfs.go
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrOutsideBase is returned for paths that are absolute or climb out of
// the LocalFS base directory.
var ErrOutsideBase = errors.New("path escapes storage base")

// LocalFS implements Storage for local filesystem
type LocalFS struct {
	basePath string
}

// NewLocalFS creates a new LocalFS storage rooted at basePath. With a
// base, paths must be relative and stay inside it. An empty basePath
// resolves paths as given.
func NewLocalFS(basePath string) (*LocalFS, error) {
	if basePath == "" {
		return &LocalFS{}, nil
	}
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("checking base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path %s is not a directory", basePath)
	}
	return &LocalFS{basePath: basePath}, nil
}

func (l *LocalFS) fullPath(path string) (string, error) {
	if l.basePath == "" {
		return path, nil
	}
	if !filepath.IsLocal(path) {
		return "", fmt.Errorf("%q: %w", path, ErrOutsideBase)
	}
	return filepath.Join(l.basePath, path), nil
}

// localBlob adapts an *os.File to Blob
type localBlob struct {
	*os.File
	size int64
}

func (b *localBlob) Size() int64 {
	return b.size
}

func (l *LocalFS) Open(ctx context.Context, path string) (Blob, error) {
	full, err := l.fullPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &localBlob{File: f, size: info.Size()}, nil
}

func (l *LocalFS) List(ctx context.Context, prefix string) ([]string, error) {
	searchPath := l.basePath
	if prefix != "" {
		var err error
		if searchPath, err = l.fullPath(prefix); err != nil {
			return nil, err
		}
	}
	if searchPath == "" {
		searchPath = "."
	}

	var paths []string
	err := filepath.WalkDir(searchPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if l.basePath == "" {
			paths = append(paths, path)
			return nil
		}
		rel, err := filepath.Rel(l.basePath, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})

	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	return paths, err
}

func (l *LocalFS) Exists(ctx context.Context, path string) (bool, error) {
	full, err := l.fullPath(path)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
