package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"promptparty/internal/api"
	"promptparty/internal/config"
	"promptparty/internal/factory"
	"promptparty/internal/services/moderation"
	"promptparty/internal/services/translation"
	redisstorage "promptparty/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Error("failed to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg := config.Load()

	translationCfg := translation.DefaultConfig()
	translationCfg.Endpoint = cfg.TranslatorEndpoint
	translationCfg.Key = cfg.TranslatorKey
	translationCfg.Region = cfg.TranslatorRegion

	moderationCfg := moderation.DefaultConfig()
	moderationCfg.Endpoint = cfg.ContentSafetyEndpoint
	moderationCfg.Key = cfg.ContentSafetyKey

	// Build factory config from environment
	factoryCfg := factory.Config{
		Logger:            logger,
		StorageType:       cfg.StorageType,
		TranslationConfig: translationCfg,
		ModerationConfig:  moderationCfg,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		APIKey:            cfg.APIKey,
		PlayerService:     app.PlayerService,
		PromptService:     app.PromptService,
		ModerationService: app.ModerationService,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Welcome worker consumes the player-creation feed
	go func() {
		if err := app.WelcomeService.Run(ctx); err != nil {
			logger.Error("welcome worker error", slog.String("error", err.Error()))
		}
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
