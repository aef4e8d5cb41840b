// Package config loads the filevault configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Load when neither the file nor the environment sets a
// value.
const (
	DefaultRoot        = "./blobdata"
	DefaultListenAddr  = ":8080"
	DefaultServePrefix = "/files"
	DefaultCacheMaxAge = 14 * 24 * time.Hour
	DefaultDriver      = "fs"
	DefaultLogLevel    = "info"
)

// Environment overrides, applied on top of the file:
//
//	FILEVAULT_ROOT
//	FILEVAULT_PUBLIC_HOST
//	FILEVAULT_LISTEN_ADDR
//	FILEVAULT_BLOB_DRIVER
//	FILEVAULT_CACHE_MAX_AGE (Go duration, e.g. 336h)
//	FILEVAULT_LOG_LEVEL

// Load reads the configuration from path (optional; "" skips the file),
// applies environment overrides, then validates and fills defaults.
func Load(path string) (Config, error) {
	cfg := Config{PruneEmptyDirs: true}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	applyEnv(&cfg)
	if err := validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FILEVAULT_ROOT"); v != "" {
		cfg.Root = v
	}
	if v := os.Getenv("FILEVAULT_PUBLIC_HOST"); v != "" {
		cfg.PublicHost = v
	}
	if v := os.Getenv("FILEVAULT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("FILEVAULT_BLOB_DRIVER"); v != "" {
		cfg.Driver = v
	}
	if v := os.Getenv("FILEVAULT_CACHE_MAX_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CacheMaxAge = d
		}
	}
	if v := os.Getenv("FILEVAULT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func validate(cfg *Config) error {
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	abs, err := filepath.Abs(cfg.Root)
	if err != nil {
		return fmt.Errorf("resolve root %s: %w", cfg.Root, err)
	}
	cfg.Root = abs

	if cfg.PublicHost == "" {
		cfg.PublicHost = "http://localhost:8080"
	}
	u, err := url.Parse(cfg.PublicHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("public_host must be scheme://host[:port], got %q", cfg.PublicHost)
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.ServePrefix == "" {
		cfg.ServePrefix = DefaultServePrefix
	}
	if !strings.HasPrefix(cfg.ServePrefix, "/") {
		cfg.ServePrefix = "/" + cfg.ServePrefix
	}
	cfg.ServePrefix = strings.TrimRight(cfg.ServePrefix, "/")
	if cfg.CacheMaxAge <= 0 {
		cfg.CacheMaxAge = DefaultCacheMaxAge
	}
	if cfg.Driver == "" {
		cfg.Driver = DefaultDriver
	}
	switch cfg.Driver {
	case "fs", "memory":
	default:
		return fmt.Errorf("unknown blob driver %s", cfg.Driver)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a config log level string to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %s", s)
	}
}
