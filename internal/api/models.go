package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT used for API authorization.
	AccessToken string `json:"token"`

	// RefreshToken is the JWT used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GenerateFlashcardsRequest defines the payload for the generation
// endpoint. Length bounds are counted in characters client-side; the
// server counts runes.
type GenerateFlashcardsRequest struct {
	SourceText string `json:"source_text" validate:"required,min=1000,max=10000"`
}

// FlashcardProposalResponse is one unpersisted proposal returned by the
// generation endpoint.
type FlashcardProposalResponse struct {
	Front  string `json:"front"`
	Back   string `json:"back"`
	Source string `json:"source"`
}

// GenerateFlashcardsResponse defines the successful response for the
// generation endpoint.
type GenerateFlashcardsResponse struct {
	GenerationID        uuid.UUID                   `json:"generation_id"`
	FlashcardsProposals []FlashcardProposalResponse `json:"flashcards_proposals"`
	GeneratedCount      int                         `json:"generated_count"`
}

// FlashcardInputRequest is one card in a bulk save request.
type FlashcardInputRequest struct {
	Front        string     `json:"front"         validate:"required,min=10,max=200"`
	Back         string     `json:"back"          validate:"required,min=10,max=500"`
	Source       string     `json:"source"        validate:"required,oneof=ai-generated ai-edited manual"`
	GenerationID *uuid.UUID `json:"generation_id" validate:"omitempty"`
}

// SaveFlashcardsRequest defines the payload for the bulk save endpoint.
type SaveFlashcardsRequest struct {
	Flashcards []FlashcardInputRequest `json:"flashcards" validate:"required,min=1,dive"`
}

// FlashcardResponse is the API view of a persisted flashcard.
type FlashcardResponse struct {
	ID           uuid.UUID  `json:"id"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Source       string     `json:"source"`
	GenerationID *uuid.UUID `json:"generation_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SaveFailureResponse reports one rejected card in a bulk save.
type SaveFailureResponse struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// SaveFlashcardsResponse defines the response for the bulk save endpoint.
// A response with failed entries is returned with HTTP 207.
type SaveFlashcardsResponse struct {
	Saved  []FlashcardResponse   `json:"saved"`
	Failed []SaveFailureResponse `json:"failed,omitempty"`
}

// ListFlashcardsResponse defines the response for the list endpoint.
type ListFlashcardsResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
	Total      int                 `json:"total"`
	Offset     int                 `json:"offset"`
	Limit      int                 `json:"limit"`
}

// UpdateFlashcardRequest defines the payload for the edit endpoint.
type UpdateFlashcardRequest struct {
	Front string `json:"front" validate:"required,min=10,max=200"`
	Back  string `json:"back"  validate:"required,min=10,max=500"`
}
