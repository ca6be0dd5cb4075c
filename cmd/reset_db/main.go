package main

import (
	"context"
	"os"

	"quranbot/config"
	"quranbot/pkg/logger"
	"quranbot/storage/backend"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("Failed to reset storage", logger.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("Successfully removed users and status checks.", logger.String("driver", cfg.StorageDriver))
}

// run removes user profiles and status checks. The catalog is not stored.
func run(ctx context.Context, cfg config.Config, log logger.ILogger) error {
	stg, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer stg.Close()

	return stg.Reset(ctx)
}
