package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Putra-pkwl03/claim-app/pkg/apperror"

	"github.com/google/uuid"
)

// LocalStore writes blobs under a base directory and serves them from a base
// URL, mirroring a public disk. Keys are relative paths like
// "claim-block-files/<uuid>.pdf".
type LocalStore struct {
	baseDir string
	baseURL string
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(baseDir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", baseDir, err)
	}
	return &LocalStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalStore) Store(data []byte, category string, ext string) (string, error) {
	name := uuid.NewString()
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	key := path.Join(category, name)

	dir := filepath.Join(s.baseDir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &apperror.StorageError{Op: "store", Key: key, Err: err}
	}
	if err := os.WriteFile(filepath.Join(s.baseDir, filepath.FromSlash(key)), data, 0o644); err != nil {
		return "", &apperror.StorageError{Op: "store", Key: key, Err: err}
	}
	return key, nil
}

func (s *LocalStore) Delete(key string) error {
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return &apperror.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *LocalStore) URLFor(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + key
}
