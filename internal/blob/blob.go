// Package blob re-exports core blob abstractions for stable internal imports.
package blob

import (
	"filevault/internal/blob/core"
)

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is the interface for blob storage backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// ErrInvalidName indicates a logical name that escapes the store root.
var ErrInvalidName = core.ErrInvalidName
