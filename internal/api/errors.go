package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cardforge/cardforge-api/internal/generation"
	"github.com/cardforge/cardforge-api/internal/service"
	"github.com/cardforge/cardforge-api/internal/service/auth"
	"github.com/cardforge/cardforge-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Keeping
// the mapping in one place prevents leaking internal error types to
// clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrFlashcardNotFound),
		errors.Is(err, store.ErrGenerationNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrSourceTextTooShort),
		errors.Is(err, service.ErrSourceTextTooLong),
		errors.Is(err, service.ErrNothingToSave):
		return http.StatusBadRequest

	// Upstream generation failures surface as a bad gateway: the request
	// was fine, the provider was not.
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrSchemaValidation):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrFlashcardNotFound):
		return "Flashcard not found"

	case errors.Is(err, store.ErrGenerationNotFound):
		return "Generation not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrSourceTextTooShort):
		return "Source text is too short"

	case errors.Is(err, service.ErrSourceTextTooLong):
		return "Source text is too long"

	case errors.Is(err, service.ErrNothingToSave):
		return "No flashcards to save"

	case errors.Is(err, generation.ErrSchemaValidation):
		return "The AI model returned an unusable response"

	case errors.Is(err, generation.ErrGenerationFailed):
		return "Flashcard generation failed"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a user-friendly
// message without echoing submitted values back.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'LoginRequest.Email' Error:Field validation for
		// 'Email' failed on the 'required' tag"
		if start := strings.Index(errMsg, "for '"); start != -1 {
			rest := errMsg[start+5:]
			if end := strings.Index(rest, "'"); end != -1 {
				return "Invalid " + strings.ToLower(rest[:end])
			}
		}
	}

	return "Validation error"
}
