package snapshot

import (
	"io"
	"os"
	"path/filepath"
)

type LocalProvider struct {
	// RootPath is the directory the status files are written into,
	// typically a web root already served by something else.
	RootPath string
}

func NewLocalProvider(root string) *LocalProvider {
	// Ensure the root directory exists
	_ = os.MkdirAll(root, 0755)
	return &LocalProvider{RootPath: root}
}

func (l *LocalProvider) Put(key string, body io.ReadSeeker, contentType, cacheControl string) error {
	path := filepath.Join(l.RootPath, filepath.FromSlash(key))

	// Ensure sub-directories exist (e.g. status/mounts.json)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, body)
	return err
}
