// Package fs implements core.Store on a local directory.
// Logical names are mapped to relative file paths under the root; the
// filesystem itself is the source of truth, with no sidecar metadata.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"filevault/internal/blob/core"
	"filevault/internal/config"
	"filevault/internal/metrics"
)

// Store implements core.Store using the local filesystem. Writes stream to a
// temp file in the target directory and rename into place, so a blob is
// never visible half-written at its final path. Operations on the same
// canonical name are serialized by an in-process advisory lock; distinct
// names share nothing but the filesystem.
type Store struct {
	root        string
	baseURL     *url.URL
	servePrefix string
	pruneEmpty  bool
	logger      *slog.Logger

	locksMu sync.Mutex
	locks   map[string]*nameLock
}

type nameLock struct {
	mu   sync.Mutex
	refs int
}

// New returns a filesystem-backed blob store for cfg, creating the root
// directory if needed. A nil logger falls back to slog.Default.
func New(cfg config.Config, logger *slog.Logger) (*Store, error) {
	if cfg.Root == "" {
		cfg.Root = config.DefaultRoot
	}
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	base, err := url.Parse(cfg.PublicHost)
	if err != nil {
		return nil, fmt.Errorf("parse public host: %w", err)
	}
	prefix := cfg.ServePrefix
	if prefix == "" {
		prefix = config.DefaultServePrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		root:        cfg.Root,
		baseURL:     base,
		servePrefix: prefix,
		pruneEmpty:  cfg.PruneEmptyDirs,
		logger:      logger,
		locks:       make(map[string]*nameLock),
	}, nil
}

// Driver returns the blob driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// Root returns the directory blobs live under, for mounting by the static
// file adapter.
func (s *Store) Root() string { return s.root }

// lock acquires the advisory lock for a canonical name and returns the
// release func. Idle names hold no table entry.
func (s *Store) lock(canonical string) func() {
	s.locksMu.Lock()
	l := s.locks[canonical]
	if l == nil {
		l = &nameLock{}
		s.locks[canonical] = l
	}
	l.refs++
	s.locksMu.Unlock()
	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, canonical)
		}
		s.locksMu.Unlock()
	}
}

// Write streams r into the blob at name, replacing any existing blob
// wholesale. On failure the temp file is removed and the previous blob, if
// any, is left untouched at the final path.
func (s *Store) Write(ctx context.Context, name string, r io.Reader) error {
	dataPath, canonical, err := s.resolve(name)
	if err != nil {
		metrics.OperationsTotal.WithLabelValues(metrics.OpWrite, metrics.OutcomeError).Inc()
		return err
	}
	unlock := s.lock(canonical)
	defer unlock()

	dir := filepath.Dir(dataPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		metrics.OperationsTotal.WithLabelValues(metrics.OpWrite, metrics.OutcomeError).Inc()
		return fmt.Errorf("create parents for %s: %w", canonical, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		metrics.OperationsTotal.WithLabelValues(metrics.OpWrite, metrics.OutcomeError).Inc()
		return fmt.Errorf("create temp for %s: %w", canonical, err)
	}
	size, err := io.Copy(tmp, r)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		// atomically move into place
		err = os.Rename(tmp.Name(), dataPath)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		metrics.OperationsTotal.WithLabelValues(metrics.OpWrite, metrics.OutcomeError).Inc()
		return fmt.Errorf("write %s: %w", canonical, err)
	}
	metrics.OperationsTotal.WithLabelValues(metrics.OpWrite, metrics.OutcomeOK).Inc()
	metrics.BytesWrittenTotal.Add(float64(size))
	return nil
}

// Delete removes the blob at name. Removal failures, including a missing
// blob, are logged and swallowed: already-gone is success from the caller's
// point of view. Only an invalid name surfaces as an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	dataPath, canonical, err := s.resolve(name)
	if err != nil {
		metrics.OperationsTotal.WithLabelValues(metrics.OpDelete, metrics.OutcomeError).Inc()
		return err
	}
	unlock := s.lock(canonical)
	defer unlock()

	if err := os.Remove(dataPath); err != nil {
		if !errors.Is(err, iofs.ErrNotExist) {
			s.logger.Warn("blob delete failed", "name", canonical, "error", err)
			metrics.OperationsTotal.WithLabelValues(metrics.OpDelete, metrics.OutcomeError).Inc()
			return nil
		}
		metrics.OperationsTotal.WithLabelValues(metrics.OpDelete, metrics.OutcomeOK).Inc()
		return nil
	}
	if s.pruneEmpty {
		s.pruneEmptyDirs(filepath.Dir(dataPath))
	}
	metrics.OperationsTotal.WithLabelValues(metrics.OpDelete, metrics.OutcomeOK).Inc()
	return nil
}

// DeleteByPrefix removes everything under prefix, file or directory tree,
// with the same best-effort semantics as Delete. Safe to call on a prefix
// with no filesystem entry.
func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	dataPath, canonical, err := s.resolve(prefix)
	if err != nil {
		metrics.OperationsTotal.WithLabelValues(metrics.OpDeleteByPrefix, metrics.OutcomeError).Inc()
		return err
	}
	unlock := s.lock(canonical)
	defer unlock()

	if err := os.RemoveAll(dataPath); err != nil {
		s.logger.Warn("blob prefix delete failed", "prefix", canonical, "error", err)
		metrics.OperationsTotal.WithLabelValues(metrics.OpDeleteByPrefix, metrics.OutcomeError).Inc()
		return nil
	}
	if s.pruneEmpty {
		s.pruneEmptyDirs(filepath.Dir(dataPath))
	}
	metrics.OperationsTotal.WithLabelValues(metrics.OpDeleteByPrefix, metrics.OutcomeOK).Inc()
	return nil
}

// pruneEmptyDirs removes empty ancestor directories from dir up to, never
// including, the root. Stops at the first non-empty directory.
func (s *Store) pruneEmptyDirs(dir string) {
	for dir != s.root && strings.HasPrefix(dir, s.root) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// URLFor returns the public URL of the blob at name, or "" when no blob
// exists there. The URL path is built from the canonical slash form of the
// name regardless of host OS separator.
func (s *Store) URLFor(ctx context.Context, name string) (string, error) {
	dataPath, canonical, err := s.resolve(name)
	if err != nil {
		metrics.OperationsTotal.WithLabelValues(metrics.OpURLFor, metrics.OutcomeError).Inc()
		return "", err
	}
	fi, err := os.Stat(dataPath)
	if errors.Is(err, iofs.ErrNotExist) {
		metrics.OperationsTotal.WithLabelValues(metrics.OpURLFor, metrics.OutcomeOK).Inc()
		return "", nil
	}
	if err != nil {
		metrics.OperationsTotal.WithLabelValues(metrics.OpURLFor, metrics.OutcomeError).Inc()
		return "", fmt.Errorf("stat %s: %w", canonical, err)
	}
	if fi.IsDir() {
		metrics.OperationsTotal.WithLabelValues(metrics.OpURLFor, metrics.OutcomeOK).Inc()
		return "", nil
	}
	metrics.OperationsTotal.WithLabelValues(metrics.OpURLFor, metrics.OutcomeOK).Inc()
	return s.publicURL(canonical), nil
}

func (s *Store) publicURL(canonical string) string {
	u := *s.baseURL
	u.Path = path.Join(u.Path, s.servePrefix, canonical)
	return u.String()
}

// Stat returns blob metadata straight from the filesystem.
func (s *Store) Stat(ctx context.Context, name string) (core.Info, error) {
	dataPath, canonical, err := s.resolve(name)
	if err != nil {
		return core.Info{}, err
	}
	fi, err := os.Stat(dataPath)
	if err != nil {
		return core.Info{}, err
	}
	if fi.IsDir() {
		return core.Info{}, fmt.Errorf("blob %s: %w", canonical, iofs.ErrNotExist)
	}
	return core.Info{Key: canonical, Size: fi.Size(), LastModified: fi.ModTime().UTC()}, nil
}

// List walks the root collecting regular files and filters by prefix.
// In-flight temp files are skipped.
func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	var infos []core.Info
	err := filepath.WalkDir(s.root, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		infos = append(infos, core.Info{Key: key, Size: fi.Size(), LastModified: fi.ModTime().UTC()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}
