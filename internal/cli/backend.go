package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spectromap/pkg/cache"
	"github.com/matzehuels/spectromap/pkg/config"
	"github.com/matzehuels/spectromap/pkg/store"
)

// backend is an opened cache with its key scheme.
type backend struct {
	cache cache.Cache
	keyer cache.Keyer
	// file or redis is set for the "cache" subcommands.
	file  *cache.FileCache
	redis *cache.RedisCache
}

// openCache opens the cache named by cfg.Cache.Backend. A file cache that
// cannot be created degrades to no caching.
func openCache(ctx context.Context, cfg config.Config, logger *log.Logger) (backend, error) {
	switch cfg.Cache.Backend {
	case config.BackendFile:
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			logger.Warn("cache disabled", "dir", cfg.Cache.Dir, "err", err)
			return backend{cache: cache.NewNullCache(), keyer: cache.NewDefaultKeyer()}, nil
		}
		return backend{cache: fc, keyer: cache.NewDefaultKeyer(), file: fc}, nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			return backend{}, err
		}
		logger.Debug("connected to redis", "addr", cfg.Cache.Redis.Addr)
		keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Redis.Prefix)
		return backend{cache: rc, keyer: keyer, redis: rc}, nil
	default:
		return backend{cache: cache.NewNullCache(), keyer: cache.NewDefaultKeyer()}, nil
	}
}

// openStore opens the configured annotation store. Recording reads go
// through the cache when one is configured.
func openStore(ctx context.Context, cfg config.Config, b backend, logger *log.Logger) (store.Store, error) {
	var st store.Store
	switch cfg.Store.Backend {
	case config.BackendMongo:
		ms, err := store.NewMongoStore(ctx, store.MongoOptions{URI: cfg.Store.Mongo.URI, Database: cfg.Store.Mongo.Database})
		if err != nil {
			return nil, err
		}
		logger.Debug("connected to mongo", "database", cfg.Store.Mongo.Database)
		st = ms
	default:
		fs, err := store.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, err
		}
		st = fs
	}
	if cfg.Cache.Backend == config.BackendNone {
		return st, nil
	}
	return store.NewCachedStore(st, b.cache, b.keyer, cache.TTLRecording), nil
}
