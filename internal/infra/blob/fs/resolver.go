package fs

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"filevault/internal/blob/core"
)

// cleanName normalizes a logical name and enforces confinement on the
// normalized form, so "a/../../x" is rejected the same way "../x" is.
// Returns the canonical slash-delimited relative name.
func cleanName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty name", core.ErrInvalidName)
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: absolute name %q", core.ErrInvalidName, name)
	}
	clean := path.Clean(filepath.ToSlash(name))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidName, name)
	}
	return clean, nil
}

// resolve maps a logical name to its physical path under the root. This is
// the sole gate to the filesystem: no store operation touches disk with a
// name that has not been through here.
func (s *Store) resolve(name string) (physical, canonical string, err error) {
	canonical, err = cleanName(name)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(canonical)), canonical, nil
}
