package kv

import (
	"fmt"

	"github.com/boarding-dev/placement-client/pkg/config"
)

// Open selects the storage backend named by the configuration.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return NewRedisStore(cfg.Redis, "boarding")
	case "", "file":
		return NewFileStore(cfg.Storage.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
