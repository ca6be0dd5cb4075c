package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quranbot/config"
	"quranbot/pkg/api"
	"quranbot/pkg/bot"
	"quranbot/pkg/i18n"
	"quranbot/pkg/logger"
	"quranbot/pkg/menu"
	"quranbot/service"
	"quranbot/storage/backend"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", logger.Error(err))
		os.Exit(1)
	}

	// 3. Load the localization catalog
	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Error("Failed to load locales", logger.Error(err))
		os.Exit(1)
	}

	// 4. Initialize Storage
	stg, err := backend.Open(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to open storage", logger.String("driver", cfg.StorageDriver), logger.Error(err))
		os.Exit(1)
	}
	defer stg.Close()

	svc := service.New(stg, log)

	// 5. Initialize Bot
	machine := menu.New(catalog, svc.User(), menu.NewSessions(), menu.Links{
		WebAppURL:       cfg.WebAppURL,
		ChannelURL:      cfg.ChannelURL,
		AdminURL:        cfg.AdminURL,
		WelcomeImageURL: cfg.WelcomeImageURL,
	}, log)

	tgBot, err := bot.New(&cfg, machine, log)
	if err != nil {
		log.Error("Failed to initialize bot", logger.Error(err))
		os.Exit(1)
	}

	// 6. Initialize HTTP API
	server := api.NewServer(cfg.HTTPPort, api.NewRouter(svc, cfg.CORSAllowedOrigins, log), log)

	go tgBot.Start()

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- server.Run()
	}()

	log.Info("🚀 Bot and HTTP API are running", logger.Int("port", cfg.HTTPPort))

	// 7. Graceful Shutdown listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-httpErr:
		if err != nil {
			log.Error("HTTP server failed", logger.Error(err))
		}
	}

	log.Info("Stopping bot and shutting down...")
	tgBot.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP shutdown failed", logger.Error(err))
	}
}

func loadCatalog(cfg config.Config) (*i18n.Catalog, error) {
	if cfg.LocalesFile != "" {
		return i18n.LoadFile(cfg.LocalesFile)
	}
	return i18n.Default()
}
