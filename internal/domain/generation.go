package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrorCodeGenerationFailed is the fixed error code recorded for failed
// generation attempts.
const ErrorCodeGenerationFailed = "GENERATION_FAILED"

// Source text bounds enforced at the API boundary, in characters (runes).
// The generation pipeline additionally defends against input outside these
// bounds from callers that bypass the boundary validation.
const (
	SourceTextMinLen = 1000
	SourceTextMaxLen = 10000
)

// Common validation errors for Generation and GenerationErrorLog
var (
	ErrEmptyGenerationID     = errors.New("generation ID cannot be empty")
	ErrEmptyGenerationUserID = errors.New("generation user ID cannot be empty")
	ErrEmptyGenerationModel  = errors.New("generation model cannot be empty")
	ErrEmptyGenerationHash   = errors.New("generation source text hash cannot be empty")
	ErrInvalidGeneratedCount = errors.New("generated count cannot be negative")
	ErrInvalidSourceLength   = errors.New("source text length must be positive")
	ErrEmptyErrorCode        = errors.New("error log code cannot be empty")
	ErrEmptyErrorMessage     = errors.New("error log message cannot be empty")
)

// Fingerprint returns the deterministic content hash (SHA-256, hex encoded)
// of the given source text. It is used for audit and dedup correlation
// between generation records, error logs, and their inputs.
func Fingerprint(sourceText string) string {
	sum := sha256.Sum256([]byte(sourceText))
	return hex.EncodeToString(sum[:])
}

// Generation is the audit record of one successful generation attempt.
// It is created exactly once per attempt and is immutable thereafter.
type Generation struct {
	ID                   uuid.UUID `json:"id"`
	UserID               uuid.UUID `json:"user_id"`
	Model                string    `json:"model"`
	GeneratedCount       int       `json:"generated_count"`
	SourceTextHash       string    `json:"source_text_hash"`
	SourceTextLength     int       `json:"source_text_length"`
	GenerationDurationMs int64     `json:"generation_duration_ms"`
	CreatedAt            time.Time `json:"created_at"`
}

// NewGeneration creates a new Generation record with a fresh UUID and
// creation timestamp. Returns an error if validation fails.
func NewGeneration(
	userID uuid.UUID,
	model string,
	sourceTextHash string,
	sourceTextLength int,
	generatedCount int,
	duration time.Duration,
) (*Generation, error) {
	gen := &Generation{
		ID:                   uuid.New(),
		UserID:               userID,
		Model:                model,
		GeneratedCount:       generatedCount,
		SourceTextHash:       sourceTextHash,
		SourceTextLength:     sourceTextLength,
		GenerationDurationMs: duration.Milliseconds(),
		CreatedAt:            time.Now().UTC(),
	}

	if err := gen.Validate(); err != nil {
		return nil, err
	}

	return gen, nil
}

// Validate checks if the Generation has valid data.
func (g *Generation) Validate() error {
	if g.ID == uuid.Nil {
		return ErrEmptyGenerationID
	}
	if g.UserID == uuid.Nil {
		return ErrEmptyGenerationUserID
	}
	if g.Model == "" {
		return ErrEmptyGenerationModel
	}
	if g.SourceTextHash == "" {
		return ErrEmptyGenerationHash
	}
	if g.GeneratedCount < 0 {
		return ErrInvalidGeneratedCount
	}
	if g.SourceTextLength <= 0 {
		return ErrInvalidSourceLength
	}
	return nil
}

// GenerationErrorLog is the append-only audit record of one failed
// generation attempt.
type GenerationErrorLog struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	ErrorCode        string    `json:"error_code"`
	ErrorMessage     string    `json:"error_message"`
	Model            string    `json:"model"`
	SourceTextHash   string    `json:"source_text_hash"`
	SourceTextLength int       `json:"source_text_length"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewGenerationErrorLog creates a new error log entry for a failed
// generation attempt. Returns an error if validation fails.
func NewGenerationErrorLog(
	userID uuid.UUID,
	errorCode, errorMessage, model string,
	sourceTextHash string,
	sourceTextLength int,
) (*GenerationErrorLog, error) {
	entry := &GenerationErrorLog{
		ID:               uuid.New(),
		UserID:           userID,
		ErrorCode:        errorCode,
		ErrorMessage:     errorMessage,
		Model:            model,
		SourceTextHash:   sourceTextHash,
		SourceTextLength: sourceTextLength,
		CreatedAt:        time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the GenerationErrorLog has valid data.
func (e *GenerationErrorLog) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyGenerationID
	}
	if e.UserID == uuid.Nil {
		return ErrEmptyGenerationUserID
	}
	if e.ErrorCode == "" {
		return ErrEmptyErrorCode
	}
	if e.ErrorMessage == "" {
		return ErrEmptyErrorMessage
	}
	if e.Model == "" {
		return ErrEmptyGenerationModel
	}
	if e.SourceTextHash == "" {
		return ErrEmptyGenerationHash
	}
	if e.SourceTextLength <= 0 {
		return ErrInvalidSourceLength
	}
	return nil
}
