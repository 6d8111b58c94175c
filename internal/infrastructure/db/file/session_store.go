// Package file persists the session as one JSON document on disk, the CLI
// counterpart of the browser's localStorage.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	dirMode  = 0o700
	fileMode = 0o600
)

var errCorrupt = errors.New("session file corrupt")

// SessionStore keeps every key in a single file. Writes go to a temp file in
// the same directory and are renamed over the old file, so readers see either
// the old document or the new one.
type SessionStore struct {
	path string
	mu   sync.Mutex
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Path returns the file backing the store.
func (s *SessionStore) Path() string {
	return s.path
}

func (s *SessionStore) Load(_ context.Context, keys ...string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := doc[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Save merges values into the document. A corrupt file is replaced.
func (s *SessionStore) Save(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if errors.Is(err, errCorrupt) {
		doc, err = make(map[string]string), nil
	}
	if err != nil {
		return err
	}
	for k, v := range values {
		doc[k] = v
	}
	return s.write(doc)
}

// Remove deletes keys. A corrupt file holds nothing worth keeping and is
// deleted outright.
func (s *SessionStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if errors.Is(err, errCorrupt) {
		return s.unlink()
	}
	if err != nil {
		return err
	}

	changed := false
	for _, k := range keys {
		if _, ok := doc[k]; ok {
			delete(doc, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if len(doc) == 0 {
		return s.unlink()
	}
	return s.write(doc)
}

func (s *SessionStore) unlink() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session file remove: %w", err)
	}
	return nil
}

// read returns an empty document when the file does not exist. A file that
// is not a JSON object of strings is reported as errCorrupt.
func (s *SessionStore) read() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("session file read: %w", err)
	}

	doc := make(map[string]string)
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", errCorrupt, s.path, err)
	}
	return doc, nil
}

func (s *SessionStore) write(doc map[string]string) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("session file encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("session file temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("session file write: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("session file chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session file close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("session file rename: %w", err)
	}
	return nil
}
