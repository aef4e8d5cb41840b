package blob

import (
	"fmt"
	"log/slog"

	"filevault/internal/config"
	"filevault/internal/infra/blob/fs"
	"filevault/internal/infra/blob/memory"
)

// Open selects a blob.Store implementation from the configuration. The
// configuration is an explicit value rather than ambient process state, so
// stores with different roots can coexist (tests rely on this).
func Open(cfg config.Config, logger *slog.Logger) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return fs.New(cfg, logger)
	case DriverMemory:
		return memory.New(cfg)
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
