package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/cardforge/cardforge-api/internal/domain"
)

// FlashcardStore defines the interface for flashcard data persistence.
// All read and write operations are scoped to the owning user; a store
// never returns or mutates another user's cards.
type FlashcardStore interface {
	// Create saves a new flashcard to the store.
	// It handles domain validation internally.
	// Returns ErrInvalidEntity if the referenced user or generation does
	// not exist (foreign key violation).
	Create(ctx context.Context, card *domain.Flashcard) error

	// GetByID retrieves a flashcard by its unique ID, scoped to the owner.
	// Returns ErrFlashcardNotFound if the flashcard does not exist or
	// belongs to a different user.
	GetByID(ctx context.Context, userID, cardID uuid.UUID) (*domain.Flashcard, error)

	// List retrieves a page of the user's flashcards ordered by creation
	// time descending, together with the total count for pagination.
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Flashcard, int, error)

	// Update saves changes to an existing flashcard, scoped to the owner.
	// Returns ErrFlashcardNotFound if the flashcard does not exist or
	// belongs to a different user.
	Update(ctx context.Context, card *domain.Flashcard) error

	// Delete removes a flashcard, scoped to the owner.
	// Returns ErrFlashcardNotFound if the flashcard does not exist or
	// belongs to a different user.
	Delete(ctx context.Context, userID, cardID uuid.UUID) error
}
