package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config selects and configures a cache backend.
type Config struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	URL        string `toml:"url"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Prefix     string `toml:"prefix"`
	Compress   bool   `toml:"compress"`
}

// Open creates the configured backend wrapped with optional compression and
// instrumentation. An empty backend means "file" when Dir is set and "none"
// otherwise.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = BackendNone
		if cfg.Dir != "" {
			backend = BackendFile
		}
	}

	var (
		c   Cache
		err error
	)
	switch backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("file cache: dir is required")
		}
		c, err = NewFileCache(cfg.Dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, cfg.URL, cfg.Prefix)
	case BackendMongo:
		db, coll := cfg.Database, cfg.Collection
		if db == "" {
			db = "grap"
		}
		if coll == "" {
			coll = "cache"
		}
		c, err = NewMongoCache(ctx, cfg.URL, db, coll)
	default:
		return nil, fmt.Errorf("%w: %q (must be one of: none, file, redis, mongo)", ErrUnknownBackend, backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Compress {
		compressed, err := NewCompressed(c)
		if err != nil {
			c.Close()
			return nil, err
		}
		c = compressed
	}
	return NewInstrumented(c), nil
}
