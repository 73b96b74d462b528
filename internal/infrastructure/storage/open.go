package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront/internal/infrastructure/database/redis"
)

// Backend is a cart storage that can be health checked and released
type Backend interface {
	cart.Storage
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the backend selected by cfg.Storage.Driver
func Open(cfg *config.Config, log *logrus.Logger) (Backend, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		backend = NewMemoryStorage()
	case config.StorageFile:
		backend, err = NewFileStorage(cfg.Storage.FilePath)
	case config.StorageRedis:
		client, cerr := redis.NewConnection(cfg, log)
		if cerr != nil {
			return nil, cerr
		}
		backend = NewRedisStorage(client, cfg.Storage.RedisTTL)
	case config.StoragePostgres:
		db, cerr := postgres.NewConnection(cfg, log)
		if cerr != nil {
			return nil, cerr
		}
		if merr := postgres.NewMigration(db, log).RunAutoMigrations(&Entry{}); merr != nil {
			return nil, merr
		}
		backend = NewPostgresStorage(db)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	log.WithField("driver", cfg.Storage.Driver).Info("cart storage ready")
	return backend, nil
}
