package factory

import (
	"errors"
	"io"
	"log/slog"

	"promptparty/internal/dependencies/clock"
	"promptparty/internal/services/moderation"
	"promptparty/internal/services/player"
	"promptparty/internal/services/prompt"
	"promptparty/internal/services/translation"
	"promptparty/internal/services/welcome"
	"promptparty/internal/storage"
	"promptparty/internal/storage/memory"
	redisstorage "promptparty/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	Feed    storage.PlayerFeed

	// External dependencies
	Clock clock.Clock

	// Services
	PlayerService     *player.Service
	PromptService     *prompt.Service
	ModerationService *moderation.Service
	WelcomeService    *welcome.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Translator is the translation gateway. If nil, one is built from
	// TranslationConfig.
	Translator translation.Localizer
	// TranslationConfig holds translation API settings
	TranslationConfig translation.Config
	// ModerationConfig holds content-moderation API settings
	ModerationConfig moderation.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var (
		store storage.Storage
		feed  storage.PlayerFeed
	)
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		mem := memory.New()
		store, feed = mem, mem
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store, feed = redisStore, redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	translator := cfg.Translator
	if translator == nil {
		translator = translation.NewClient(cfg.TranslationConfig)
	}

	clk := clock.New()

	// Create services
	playerService := player.New(store, clk, logger)
	promptService := prompt.New(store, translator, logger)
	moderationService := moderation.New(cfg.ModerationConfig, store, logger)
	welcomeService := welcome.New(feed, promptService, logger)

	return &App{
		Storage:           store,
		Feed:              feed,
		Clock:             clk,
		PlayerService:     playerService,
		PromptService:     promptService,
		ModerationService: moderationService,
		WelcomeService:    welcomeService,
	}, nil
}
