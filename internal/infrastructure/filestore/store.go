// Package filestore keeps the registry in one JSON document on disk.
// Every mutation is applied to a copy, written to a temp file and renamed
// over the database file; only then does the copy replace the in-memory view.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hopperkey/phatdev/internal/domain/license"
	"github.com/hopperkey/phatdev/internal/shared/logger"
	"github.com/hopperkey/phatdev/internal/shared/utils"
)

// errNoChange lets a mutation skip the disk write.
var errNoChange = errors.New("no change")

type Store struct {
	path   string
	mu     sync.RWMutex
	doc    *Document
	logger logger.Interface
}

// Open loads path. A missing file yields an empty document that is created
// on the first write.
func Open(path string, log logger.Interface) (*Store, error) {
	s := &Store{path: path, logger: log}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.doc = newDocument()
		log.Infow("database file not found, starting empty", "path", path)
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read database file: %w", err)
	}

	doc := newDocument()
	if len(data) > 0 {
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("failed to parse database file %s: %w", path, err)
		}
	}
	doc.normalize()
	s.doc = doc

	log.Infow("database file loaded",
		"path", path,
		"applications", len(doc.Applications),
		"keys", len(doc.Keys))
	for _, r := range doc.Keys {
		if limit := max(r.DeviceLimit, license.DefaultDeviceLimit); len(r.Hwids) > limit {
			log.Warnw("key has more devices than its limit, no new devices will be admitted",
				"key", utils.MaskKey(r.Key),
				"devices", len(r.Hwids),
				"device_limit", limit)
		}
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the current document.
func (s *Store) Snapshot() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.clone()
}

// Ping checks that the directory holding the database is writable.
func (s *Store) Ping(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("database directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("database directory %s is not a directory", dir)
	}
	return ctx.Err()
}

func (s *Store) read(ctx context.Context, fn func(doc *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.doc)
}

func (s *Store) mutate(ctx context.Context, fn func(doc *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	if err := fn(next); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}

	if err := s.persist(next); err != nil {
		s.logger.Errorw("failed to persist database file", "error", err, "path", s.path)
		return err
	}
	s.doc = next
	return nil
}

func (s *Store) persist(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode database: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace database file: %w", err)
	}
	return nil
}
