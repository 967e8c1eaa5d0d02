package handler

import (
	"encoding/json"
	"net/http"

	"promptparty/internal/api/apierr"
	"promptparty/internal/api/request"
	"promptparty/internal/services/player"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	playerService *player.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService *player.Service) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
	}
}

// Register handles POST /player/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if _, err := h.playerService.Register(r.Context(), req.Username, req.Password); err != nil {
		apierr.WriteError(w, err)
		return
	}

	apierr.WriteOK(w, "OK")
}

// Login handles GET /player/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	ok, err := h.playerService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if !ok {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username or password incorrect"))
		return
	}
	apierr.WriteOK(w, "OK")
}

// Update handles PUT /player/update
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if _, err := h.playerService.RecordResult(r.Context(), req.Username, req.AddToGamesPlayed, req.AddToScore); err != nil {
		apierr.WriteError(w, err)
		return
	}

	apierr.WriteOK(w, "OK")
}
