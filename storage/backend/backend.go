// Package backend opens the storage implementation selected by STORAGE_DRIVER.
package backend

import (
	"context"
	"fmt"

	"quranbot/config"
	"quranbot/pkg/logger"
	"quranbot/storage"
	"quranbot/storage/memory"
	"quranbot/storage/mongodb"
	"quranbot/storage/postgres"
)

func Open(ctx context.Context, cfg config.Config, log logger.ILogger) (storage.IStorage, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		stg, err := mongodb.New(ctx, cfg.MongoURL, cfg.DBName, cfg.StoreTimeout, log)
		if err != nil {
			return nil, err
		}
		return stg, nil
	case config.DriverPostgres:
		stg, err := postgres.New(ctx, cfg.PostgresURL(), cfg.StoreTimeout, log)
		if err != nil {
			return nil, err
		}
		return stg, nil
	case config.DriverMemory:
		log.Warning("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
