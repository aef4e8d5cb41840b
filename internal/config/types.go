package config

import "time"

// Config carries everything the store and the HTTP surface need. It is built
// once at startup and passed by value; nothing reads ambient process state
// after loading, so multiple stores with different roots can coexist in one
// process (tests rely on this).
type Config struct {
	// Root is the directory all blobs live under. Made absolute at load time.
	Root string `yaml:"root"`
	// PublicHost is the externally reachable base URL (scheme://host[:port])
	// used to construct public blob links.
	PublicHost string `yaml:"public_host"`
	// ListenAddr is the address the serve command binds to.
	ListenAddr string `yaml:"listen_addr"`
	// ServePrefix is the URL path prefix blobs are served under.
	ServePrefix string `yaml:"serve_prefix"`
	// CacheMaxAge is the Cache-Control lifetime applied to served blobs.
	CacheMaxAge time.Duration `yaml:"cache_max_age"`
	// Driver selects the store backend: fs (default) or memory.
	Driver string `yaml:"driver"`
	// PruneEmptyDirs removes empty parent directories left behind by deletes.
	PruneEmptyDirs bool `yaml:"prune_empty_dirs"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}
