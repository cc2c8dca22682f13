package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/wansing/news/upload"
)

// Store implements upload.Store and serves the files over HTTP.
type Store struct {
	Dir       string // will contain just files
	URLPrefix string // like "/upload/", prepended to the file name by URL
}

func (s *Store) path(name string) (string, error) {
	name, err := upload.CleanFilename(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, name), nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// Save writes to a temporary file first, so a file is either complete or absent.
func (s *Store) Save(ctx context.Context, name, contentType string, src io.Reader) error {

	path, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return err
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func (s *Store) URL(name string) string {
	return s.URLPrefix + name
}

// ServeHTTP expects the file name as the URL path, so the prefix must be stripped before.
func (s *Store) ServeHTTP(w http.ResponseWriter, req *http.Request) {

	var name = strings.TrimPrefix(req.URL.Path, "/")
	if strings.HasPrefix(name, ".") {
		http.NotFound(w, req)
		return
	}

	path, err := s.path(name)
	if err != nil || path != filepath.Join(s.Dir, name) {
		http.NotFound(w, req)
		return
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		http.NotFound(w, req)
		return
	}

	http.ServeFile(w, req, path)
}
