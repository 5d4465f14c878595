// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     filestore
// Description: Store backend keeping one JSON file per key
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mdwerror "github.com/msto63/livelog/foundation/core/error"
	"github.com/msto63/livelog/internal/store"
)

// Store writes each key to <dir>/<key>.json
type Store struct {
	dir string
}

// New creates a file store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the root directory
func (s *Store) Dir() string {
	return s.dir
}

// Get reads the file for key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, mdwerror.Wrap(err, "read store file").
			WithCode(mdwerror.CodeDatabaseError).
			WithDetail("path", path)
	}
	return data, nil
}

// Set writes value to a temporary file and renames it over the old one
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return mdwerror.Wrap(err, "create store directory").WithCode(mdwerror.CodeDatabaseError)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return mdwerror.Wrap(err, "create temp file").WithCode(mdwerror.CodeDatabaseError)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return mdwerror.Wrap(err, "write temp file").WithCode(mdwerror.CodeDatabaseError)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return mdwerror.Wrap(err, "close temp file").WithCode(mdwerror.CodeDatabaseError)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return mdwerror.Wrap(err, "replace store file").
			WithCode(mdwerror.CodeDatabaseError).
			WithDetail("path", path)
	}
	return nil
}

func (s *Store) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", mdwerror.New(fmt.Sprintf("invalid store key %q", key)).
			WithCode(mdwerror.CodeInvalidInput)
	}
	return filepath.Join(s.dir, key+".json"), nil
}
