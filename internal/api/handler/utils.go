package handler

import (
	"encoding/json"
	"net/http"

	"promptparty/internal/api/apierr"
	"promptparty/internal/api/request"
	"promptparty/internal/api/response"
	"promptparty/internal/services/prompt"
)

// UtilsHandler handles cross-player utility endpoints
type UtilsHandler struct {
	promptService *prompt.Service
}

// NewUtilsHandler creates a new utils handler
func NewUtilsHandler(promptService *prompt.Service) *UtilsHandler {
	return &UtilsHandler{
		promptService: promptService,
	}
}

// Get handles GET /utils/get: tag-filtered prompts for a set of players
func (h *UtilsHandler) Get(w http.ResponseWriter, r *http.Request) {
	var req request.GetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	prompts, err := h.promptService.FindByOwnersAndTags(r.Context(), req.Players, req.TagList)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PromptsFromModels(prompts))
}
