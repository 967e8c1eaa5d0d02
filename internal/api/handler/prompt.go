package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"promptparty/internal/api/apierr"
	"promptparty/internal/api/request"
	"promptparty/internal/api/response"
	"promptparty/internal/model"
	"promptparty/internal/services/moderation"
	"promptparty/internal/services/prompt"
)

// PromptHandler handles prompt-related endpoints
type PromptHandler struct {
	promptService     *prompt.Service
	moderationService *moderation.Service
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(promptService *prompt.Service, moderationService *moderation.Service) *PromptHandler {
	return &PromptHandler{
		promptService:     promptService,
		moderationService: moderationService,
	}
}

// Create handles POST /prompt/create
func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if _, err := h.promptService.Create(r.Context(), req.Username, req.Text, req.Tags); err != nil {
		apierr.WriteError(w, err)
		return
	}

	apierr.WriteOK(w, "OK")
}

// Moderate handles POST /prompt/moderate
func (h *PromptHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	var req request.ModerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	ids := make([]model.PromptID, len(req.PromptIDs))
	for i, id := range req.PromptIDs {
		ids[i] = model.PromptID(id)
	}

	verdicts, err := h.moderationService.ModerateBatch(r.Context(), ids)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.VerdictsFromModeration(verdicts))
}

// Delete handles POST /prompt/delete
func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req request.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	deleted, err := h.promptService.DeleteByOwner(r.Context(), req.Player)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	apierr.WriteOK(w, fmt.Sprintf("%d prompts deleted", deleted))
}
