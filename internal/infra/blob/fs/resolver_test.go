package fs

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"filevault/internal/blob/core"
	"filevault/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.Config{
		Root:           t.TempDir(),
		PublicHost:     "http://cdn.test",
		ServePrefix:    "/files",
		PruneEmptyDirs: true,
	}
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestResolveConfinesToRoot(t *testing.T) {
	s := newTestStore(t)
	valid := []string{
		"a.txt",
		"a/b.txt",
		"users/7/avatar.png",
		"a/../b.txt",  // normalizes to b.txt
		"a//b.txt",    // redundant separator
		"./a/b.txt",   // leading dot segment
		"a/b/../c.go", // inner traversal stays inside
	}
	for _, name := range valid {
		physical, canonical, err := s.resolve(name)
		if err != nil {
			t.Fatalf("resolve(%q): %v", name, err)
		}
		if !strings.HasPrefix(physical, s.root+string(filepath.Separator)) {
			t.Fatalf("resolve(%q) escaped root: %s", name, physical)
		}
		if strings.Contains(canonical, "\\") || strings.Contains(canonical, "..") {
			t.Fatalf("resolve(%q) canonical not normalized: %s", name, canonical)
		}
	}
}

func TestResolveRejectsEscapes(t *testing.T) {
	s := newTestStore(t)
	invalid := []string{
		"",
		"   ",
		".",
		"..",
		"../secret",
		"../../etc/passwd",
		"a/../../x",
		"/etc/passwd",
		"a/../..",
	}
	for _, name := range invalid {
		if _, _, err := s.resolve(name); !errors.Is(err, core.ErrInvalidName) {
			t.Fatalf("resolve(%q): want ErrInvalidName, got %v", name, err)
		}
	}
}

func TestCleanNameCanonicalizes(t *testing.T) {
	got, err := cleanName("a//b/./c.txt")
	if err != nil {
		t.Fatalf("cleanName: %v", err)
	}
	if got != "a/b/c.txt" {
		t.Fatalf("unexpected canonical name %q", got)
	}
}
