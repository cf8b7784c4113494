package content

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// FileSource reads resources from a directory tree.
type FileSource struct {
	root string
	fsys fs.FS
}

// NewFileSource creates a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{root: dir, fsys: os.DirFS(dir)}
}

// NewFSSource creates a source over an arbitrary file system (embedded
// assets, fstest.MapFS).
func NewFSSource(fsys fs.FS) *FileSource {
	return &FileSource{fsys: fsys}
}

// Root returns the directory the source reads from, or "" for a non-disk
// file system.
func (s *FileSource) Root() string {
	return s.root
}

// Fetch reads resource relative to the root.
func (s *FileSource) Fetch(ctx context.Context, resource string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Resource: resource, Err: err}
	}

	name := path.Clean(strings.TrimPrefix(resource, "./"))
	if !fs.ValidPath(name) || name == "." {
		return nil, &FetchError{Resource: resource, StatusCode: http.StatusBadRequest, Err: ErrInvalidResource}
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		fe := &FetchError{Resource: resource, Err: err}
		if errors.Is(err, fs.ErrNotExist) {
			fe.StatusCode = http.StatusNotFound
		}
		return nil, fe
	}
	return data, nil
}
