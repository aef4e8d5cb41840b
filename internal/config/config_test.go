package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.True(t, filepath.IsAbs(cfg.Root))
	require.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	require.Equal(t, DefaultServePrefix, cfg.ServePrefix)
	require.Equal(t, DefaultCacheMaxAge, cfg.CacheMaxAge)
	require.Equal(t, DefaultDriver, cfg.Driver)
	require.Equal(t, DefaultLogLevel, cfg.LogLevel)
	require.True(t, cfg.PruneEmptyDirs)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filevault.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: `+dir+`/store
public_host: https://cdn.example.com
listen_addr: :9090
serve_prefix: files
cache_max_age: 1h
driver: fs
prune_empty_dirs: false
log_level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "store"), cfg.Root)
	require.Equal(t, "https://cdn.example.com", cfg.PublicHost)
	require.Equal(t, ":9090", cfg.ListenAddr)
	// prefix gets a leading slash
	require.Equal(t, "/files", cfg.ServePrefix)
	require.Equal(t, time.Hour, cfg.CacheMaxAge)
	require.False(t, cfg.PruneEmptyDirs)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filevault.yaml")
	require.NoError(t, os.WriteFile(path, []byte("public_host: http://from-file\nlisten_addr: :1111\n"), 0o644))

	t.Setenv("FILEVAULT_PUBLIC_HOST", "http://from-env")
	t.Setenv("FILEVAULT_CACHE_MAX_AGE", "30m")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://from-env", cfg.PublicHost)
	require.Equal(t, ":1111", cfg.ListenAddr)
	require.Equal(t, 30*time.Minute, cfg.CacheMaxAge)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("FILEVAULT_PUBLIC_HOST", "not a url")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("FILEVAULT_PUBLIC_HOST", "http://ok.test")
	t.Setenv("FILEVAULT_BLOB_DRIVER", "bogus")
	_, err = Load("")
	require.Error(t, err)

	t.Setenv("FILEVAULT_BLOB_DRIVER", "fs")
	t.Setenv("FILEVAULT_LOG_LEVEL", "loud")
	_, err = Load("")
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "info", "warn", "warning", "error", "INFO"} {
		_, err := ParseLevel(s)
		require.NoError(t, err, s)
	}
	_, err := ParseLevel("verbose")
	require.Error(t, err)
}
