// Package memory implements an in-memory blob Store for tests.
package memory

import (
	"context"
	"io"
	iofs "io/fs"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"filevault/internal/blob/core"
	"filevault/internal/config"
)

type blobEntry struct {
	data     []byte
	modified time.Time
}

// Store implements core.Store backed by process memory. Intended for tests;
// it mirrors the filesystem driver's semantics, including the canonical name
// handling, so tests against it transfer to the real driver.
type Store struct {
	baseURL     *url.URL
	servePrefix string

	mu   sync.RWMutex
	objs map[string]blobEntry
}

// New returns an in-memory blob store for cfg.
func New(cfg config.Config) (*Store, error) {
	base, err := url.Parse(cfg.PublicHost)
	if err != nil {
		return nil, err
	}
	prefix := cfg.ServePrefix
	if prefix == "" {
		prefix = config.DefaultServePrefix
	}
	return &Store{baseURL: base, servePrefix: prefix, objs: make(map[string]blobEntry)}, nil
}

// Driver returns the blob driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

func cleanName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", core.ErrInvalidName
	}
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, "../") {
		return "", core.ErrInvalidName
	}
	return clean, nil
}

// Write stores the blob at name, replacing any existing entry.
func (s *Store) Write(_ context.Context, name string, r io.Reader) error {
	key, err := cleanName(name)
	if err != nil {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objs[key] = blobEntry{data: b, modified: time.Now().UTC()}
	return nil
}

// Delete removes the blob at name; missing entries are fine.
func (s *Store) Delete(_ context.Context, name string) error {
	key, err := cleanName(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objs, key)
	return nil
}

// DeleteByPrefix removes every blob whose key is the prefix or sits under it.
func (s *Store) DeleteByPrefix(_ context.Context, prefix string) error {
	key, err := cleanName(prefix)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.objs {
		if k == key || strings.HasPrefix(k, key+"/") {
			delete(s.objs, k)
		}
	}
	return nil
}

// URLFor returns the public URL of the blob at name, or "" when absent.
func (s *Store) URLFor(_ context.Context, name string) (string, error) {
	key, err := cleanName(name)
	if err != nil {
		return "", err
	}
	s.mu.RLock()
	_, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return "", nil
	}
	u := *s.baseURL
	u.Path = path.Join(u.Path, s.servePrefix, key)
	return u.String(), nil
}

// Stat returns blob metadata.
func (s *Store) Stat(_ context.Context, name string) (core.Info, error) {
	key, err := cleanName(name)
	if err != nil {
		return core.Info{}, err
	}
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return core.Info{}, iofs.ErrNotExist
	}
	return core.Info{Key: key, Size: int64(len(obj.data)), LastModified: obj.modified}, nil
}

// List returns all blobs matching prefix, key ascending.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Info, 0, len(s.objs))
	for k, v := range s.objs {
		if prefix == "" || strings.HasPrefix(k, prefix) {
			out = append(out, core.Info{Key: k, Size: int64(len(v.data)), LastModified: v.modified})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Bytes returns a copy of the stored blob, for test assertions.
func (s *Store) Bytes(name string) ([]byte, bool) {
	key, err := cleanName(name)
	if err != nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objs[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(obj.data))
	copy(out, obj.data)
	return out, true
}
