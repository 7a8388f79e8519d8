package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"finflow/internal/cache"
	"finflow/internal/config"
	"finflow/internal/database"
	apperrors "finflow/internal/errors"
	"finflow/internal/logger"
	"finflow/internal/remote"
	"finflow/internal/security"
)

// Resources is what Open wires together for one storage mode.
type Resources struct {
	Backend    Backend
	Categories CategoryStore
	// DB is set only in database mode.
	DB *gorm.DB

	closers []func() error
}

// Close releases connections opened by Open.
func (r *Resources) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open builds the backend and category store selected by cfg.StorageBackend.
//
//   - cache: transactions and categories in the cache store.
//   - database: both in gorm tables (postgres or sqlite, see database.NewConfig).
//   - remote: transactions in the hosted table, categories in the cache store.
func Open(ctx context.Context, cfg *config.Config) (*Resources, error) {
	log := logger.Named("storage")
	res := &Resources{}

	switch cfg.StorageBackend {
	case config.BackendCache:
		store, err := openCacheStore(ctx, cfg, res)
		if err != nil {
			return nil, err
		}
		var cipher Cipher
		if cfg.EncryptCache {
			c, err := security.NewCipher(cfg.LedgerPassphrase, security.Options{
				Salt:       cfg.LedgerSalt,
				Iterations: cfg.LedgerKDFIterations,
			})
			if err != nil {
				_ = res.Close()
				return nil, fmt.Errorf("failed to create cipher: %w", err)
			}
			cipher = c
		}
		cb := NewCacheBackend(store, cipher)
		res.Backend, res.Categories = cb, cb
		log.Infow("using cache storage", "driver", cfg.CacheDriver, "encrypted", cipher != nil)

	case config.BackendDatabase:
		dbConfig, err := database.NewConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load database configuration: %w", err)
		}
		manager, err := database.NewManager(dbConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create database manager: %w", err)
		}
		res.closers = append(res.closers, manager.Close)
		if err := manager.Migrate(); err != nil {
			_ = res.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		res.DB = manager.DB()
		res.Backend = NewRecordBackend(NewGormRepository(res.DB), apperrors.ErrStorageFailed)
		res.Categories = NewGormCategoryStore(res.DB)
		log.Infow("using database storage", "driver", dbConfig.Driver)

	case config.BackendRemote:
		store, err := openCacheStore(ctx, cfg, res)
		if err != nil {
			return nil, err
		}
		client := remote.NewClient(cfg.RemoteURL, cfg.RemoteAPIKey, cfg.RemoteTable, &http.Client{Timeout: cfg.RequestTimeout})
		res.Backend = NewRecordBackend(client, apperrors.ErrRemoteFailed)
		res.Categories = NewCacheBackend(store, nil)
		log.Infow("using remote storage", "url", cfg.RemoteURL, "table", cfg.RemoteTable)

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}

	return res, nil
}

func openCacheStore(ctx context.Context, cfg *config.Config, res *Resources) (cache.Store, error) {
	switch cfg.CacheDriver {
	case config.CacheMemory:
		return cache.NewMemoryStore(), nil
	case config.CacheFile:
		return cache.NewFileStore(cfg.CacheDir)
	case config.CacheRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		res.closers = append(res.closers, rdb.Close)
		return cache.NewRedisStore(rdb, cfg.CacheKeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.CacheDriver)
	}
}
