package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"promptparty/internal/model"
)

// StatusResponse is the JSON envelope every endpoint answers with
type StatusResponse struct {
	Result bool   `json:"result"`
	Msg    string `json:"msg"`
}

// WriteOK writes a successful envelope
func WriteOK(w http.ResponseWriter, msg string) {
	writeEnvelope(w, http.StatusOK, true, msg)
}

// WriteError writes an error envelope. Business-logic failures keep
// HTTP 200 with result=false; anything else is a 500.
func WriteError(w http.ResponseWriter, err error) {
	if isBusinessError(err) {
		writeEnvelope(w, http.StatusOK, false, err.Error())
		return
	}
	writeEnvelope(w, http.StatusInternalServerError, false, "Error: "+err.Error())
}

// WriteInternal writes a 500 envelope with the given description
func WriteInternal(w http.ResponseWriter, description string) {
	writeEnvelope(w, http.StatusInternalServerError, false, "Error: "+description)
}

// WriteUnauthorized rejects a request with a missing or wrong API key
func WriteUnauthorized(w http.ResponseWriter) {
	writeEnvelope(w, http.StatusUnauthorized, false, "invalid or missing API key")
}

// NewInvalidRequestError flags a malformed request body
func NewInvalidRequestError(message string) error {
	return &invalidRequestError{message}
}

type invalidRequestError struct {
	message string
}

func (e *invalidRequestError) Error() string {
	return e.message
}

func (e *invalidRequestError) Is(target error) bool {
	return target == model.ErrValidation
}

// isBusinessError reports whether err belongs to the caller-visible
// error taxonomy rather than being an unexpected failure
func isBusinessError(err error) bool {
	return errors.Is(err, model.ErrValidation) ||
		errors.Is(err, model.ErrUsernameExists) ||
		errors.Is(err, model.ErrPlayerNotFound) ||
		errors.Is(err, model.ErrPromptNotFound) ||
		errors.Is(err, model.ErrUnsupportedLanguage) ||
		errors.Is(err, model.ErrUpstream)
}

func writeEnvelope(w http.ResponseWriter, status int, result bool, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(StatusResponse{Result: result, Msg: msg})
}
