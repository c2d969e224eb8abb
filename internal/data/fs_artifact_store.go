package data

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSArtifactStore persists report artifacts as files under a single
// directory. Artifacts are written once and never rewritten; Put refuses
// to clobber an existing key so a Complete artifact stays immutable.
type FSArtifactStore struct {
	dir string
}

// ErrArtifactNotFound is returned when an artifact key has no stored file.
var ErrArtifactNotFound = errors.New("artifact not found")

// NewFSArtifactStore creates the directory if needed and returns the store.
func NewFSArtifactStore(dir string) (*FSArtifactStore, error) {
	if dir == "" {
		return nil, errors.New("artifact directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact directory %s: %w", dir, err)
	}
	return &FSArtifactStore{dir: dir}, nil
}

// Put writes the artifact bytes under key. The write goes through a temp
// file and rename so a crashed run never leaves a partial artifact behind
// as the real key.
func (s *FSArtifactStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("artifact %s already exists", key)
	}

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write artifact %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close artifact %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("store artifact %s: %w", key, err)
	}
	return nil
}

// Get reads the artifact bytes stored under key.
func (s *FSArtifactStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", key, err)
	}
	return data, nil
}

// path validates the key against traversal and maps it into the store dir.
func (s *FSArtifactStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid artifact key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}
