// Package core defines core abstractions for blob storage backends
// used internally by higher-level services.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	// DriverFilesystem represents the local filesystem implementation.
	DriverFilesystem Driver = "fs" // local filesystem (default, prod)
	// DriverMemory represents an in-memory implementation typically used in tests.
	DriverMemory Driver = "memory" // in-memory (tests)
)

// Info describes a stored blob. The store keeps no sidecar metadata; size and
// modification time come straight from the filesystem.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the contract consumed by upload handlers, cleanup jobs and
// renderers that need a public link. Every operation resolves its name
// through the driver's path resolver before touching storage, so no
// caller-supplied name can escape the configured root.
type Store interface {
	// Write streams r into the blob at name, replacing any existing blob
	// wholesale. The blob becomes visible at its final path only after all
	// bytes have been flushed.
	Write(ctx context.Context, name string, r io.Reader) error
	// Delete removes the blob at name. Best effort: a missing blob or a
	// failed removal is logged and swallowed, never surfaced. Only an
	// invalid name is an error.
	Delete(ctx context.Context, name string) error
	// DeleteByPrefix removes every blob under prefix, best effort. Safe to
	// call when nothing exists under the prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
	// URLFor returns the public URL of the blob at name, or "" (with a nil
	// error) when no such blob exists. Absence is a normal outcome here.
	URLFor(ctx context.Context, name string) (string, error)
	// Stat returns blob metadata. Returns an fs.ErrNotExist style error when
	// the blob is missing.
	Stat(ctx context.Context, name string) (Info, error)
	// List returns blobs whose key has the provided prefix. Stable ordering
	// by key ascending.
	List(ctx context.Context, prefix string) ([]Info, error)
	// Driver returns the configured backend driver string.
	Driver() Driver
}

// ErrInvalidName is returned when a logical name normalizes to an absolute
// path or escapes the store root. Callers are expected never to trigger it in
// correct code; it marks a contract violation, not a retryable condition.
var ErrInvalidName = errors.New("blobstore: invalid name")
