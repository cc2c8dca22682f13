package upload

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Store keeps uploaded article images. Names are generated by NewName.
type Store interface {
	Delete(ctx context.Context, name string) error
	Save(ctx context.Context, name, contentType string, src io.Reader) error
	URL(name string) string
}

func CleanFilename(filename string) (string, error) {
	filename = filepath.Base(filename)
	filename = strings.TrimSpace(filename)
	if strings.Contains(filename, "/") || strings.Contains(filename, `\`) {
		return "", errors.New("filename contains a slash")
	}
	if filename == "" || filename == "." {
		return "", errors.New("filename is empty")
	}
	return filename, nil
}
