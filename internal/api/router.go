package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"promptparty/internal/api/handler"
	"promptparty/internal/api/middleware"
	"promptparty/internal/services/moderation"
	"promptparty/internal/services/player"
	"promptparty/internal/services/prompt"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	APIKey            string
	PlayerService     *player.Service
	PromptService     *prompt.Service
	ModerationService *moderation.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	promptHandler := handler.NewPromptHandler(cfg.PromptService, cfg.ModerationService)
	utilsHandler := handler.NewUtilsHandler(cfg.PromptService)

	// Common middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.APIKey(cfg.APIKey))

	// Player routes
	r.HandleFunc("/player/register", playerHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/player/login", playerHandler.Login).Methods(http.MethodGet)
	r.HandleFunc("/player/update", playerHandler.Update).Methods(http.MethodPut)

	// Prompt routes
	r.HandleFunc("/prompt/create", promptHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/prompt/moderate", promptHandler.Moderate).Methods(http.MethodPost)
	r.HandleFunc("/prompt/delete", promptHandler.Delete).Methods(http.MethodPost)

	// Utility routes
	r.HandleFunc("/utils/get", utilsHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
