package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/cardforge/cardforge-api/internal/domain"
)

// GenerationStore defines the interface for generation audit persistence.
// Generation records are written exactly once per successful attempt and
// error logs exactly once per failed attempt; neither has an update path.
type GenerationStore interface {
	// CreateGeneration saves a new generation record to the store.
	// It handles domain validation internally.
	// Returns an error wrapping ErrPersistence if the write fails.
	CreateGeneration(ctx context.Context, generation *domain.Generation) error

	// CreateErrorLog appends a generation error log entry.
	// Returns an error wrapping ErrPersistence if the write fails.
	CreateErrorLog(ctx context.Context, entry *domain.GenerationErrorLog) error

	// GetGenerationByID retrieves a generation record, scoped to the owner.
	// Returns ErrGenerationNotFound if the record does not exist or
	// belongs to a different user.
	GetGenerationByID(ctx context.Context, userID, generationID uuid.UUID) (*domain.Generation, error)
}
