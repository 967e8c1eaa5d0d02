package model

import "errors"

// Common errors used across the application
var (
	// Validation errors (bad input shape or length)
	ErrValidation = errors.New("validation failed")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrUsernameExists = errors.New("username already exists")

	// Prompt errors
	ErrPromptNotFound = errors.New("prompt not found")

	// Translation errors
	ErrUnsupportedLanguage = errors.New("language detection confidence too low")

	// Upstream errors (external API transport or parse failure)
	ErrUpstream = errors.New("upstream request failed")
)
