package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cardforge/cardforge-api/internal/domain"
	"github.com/cardforge/cardforge-api/internal/platform/logger"
	"github.com/cardforge/cardforge-api/internal/store"
)

// FlashcardInput is one card in a bulk save request.
type FlashcardInput struct {
	Front        string
	Back         string
	Source       domain.CardSource
	GenerationID *uuid.UUID
}

// SaveFailure records why one card in a bulk save was rejected. Index
// refers to the card's position in the request.
type SaveFailure struct {
	Index  int
	Reason string
}

// BulkSaveResult reports the per-card outcome of a bulk save. Saves are
// independent: one rejected card never rolls back the others.
type BulkSaveResult struct {
	Saved  []*domain.Flashcard
	Failed []SaveFailure
}

// FlashcardService provides flashcard CRUD operations scoped to the owning
// user.
type FlashcardService interface {
	// SaveFlashcards persists a batch of cards for the user. Each card is
	// validated and saved independently; the result reports which cards
	// were saved and which were rejected. Returns ErrNothingToSave for an
	// empty batch.
	SaveFlashcards(ctx context.Context, userID uuid.UUID, cards []FlashcardInput) (*BulkSaveResult, error)

	// GetFlashcard retrieves one of the user's flashcards.
	GetFlashcard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Flashcard, error)

	// ListFlashcards returns a page of the user's flashcards plus the
	// total count.
	ListFlashcards(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Flashcard, int, error)

	// UpdateFlashcard applies new content to one of the user's
	// flashcards. Editing an AI-generated card marks it as AI-edited.
	UpdateFlashcard(ctx context.Context, userID, cardID uuid.UUID, front, back string) (*domain.Flashcard, error)

	// DeleteFlashcard removes one of the user's flashcards.
	DeleteFlashcard(ctx context.Context, userID, cardID uuid.UUID) error
}

// flashcardServiceImpl implements FlashcardService.
type flashcardServiceImpl struct {
	cardStore store.FlashcardStore
	logger    *slog.Logger
}

var _ FlashcardService = (*flashcardServiceImpl)(nil)

// NewFlashcardService creates a FlashcardService backed by the given store.
// If log is nil, a default logger is used.
func NewFlashcardService(cardStore store.FlashcardStore, log *slog.Logger) FlashcardService {
	if cardStore == nil {
		panic("flashcard store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &flashcardServiceImpl{
		cardStore: cardStore,
		logger:    log.With(slog.String("component", "flashcard_service")),
	}
}

// SaveFlashcards implements FlashcardService.SaveFlashcards.
func (s *flashcardServiceImpl) SaveFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	cards []FlashcardInput,
) (*BulkSaveResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil, ErrNothingToSave
	}

	result := &BulkSaveResult{}
	for i, input := range cards {
		card, err := domain.NewFlashcard(
			userID,
			input.GenerationID,
			input.Front,
			input.Back,
			input.Source,
		)
		if err != nil {
			result.Failed = append(result.Failed, SaveFailure{Index: i, Reason: err.Error()})
			continue
		}

		if err := s.cardStore.Create(ctx, card); err != nil {
			log.Warn("failed to save flashcard in batch",
				slog.String("user_id", userID.String()),
				slog.Int("card_index", i),
				slog.String("error", err.Error()))
			result.Failed = append(result.Failed, SaveFailure{Index: i, Reason: err.Error()})
			continue
		}

		result.Saved = append(result.Saved, card)
	}

	log.Info("bulk flashcard save finished",
		slog.String("user_id", userID.String()),
		slog.Int("saved_count", len(result.Saved)),
		slog.Int("failed_count", len(result.Failed)))

	return result, nil
}

// GetFlashcard implements FlashcardService.GetFlashcard.
func (s *flashcardServiceImpl) GetFlashcard(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.Flashcard, error) {
	return s.cardStore.GetByID(ctx, userID, cardID)
}

// ListFlashcards implements FlashcardService.ListFlashcards.
func (s *flashcardServiceImpl) ListFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Flashcard, int, error) {
	return s.cardStore.List(ctx, userID, offset, limit)
}

// UpdateFlashcard implements FlashcardService.UpdateFlashcard.
func (s *flashcardServiceImpl) UpdateFlashcard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	front, back string,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetByID(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	if err := card.UpdateContent(front, back); err != nil {
		return nil, err
	}

	if err := s.cardStore.Update(ctx, card); err != nil {
		return nil, err
	}

	log.Debug("flashcard updated",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("source", string(card.Source)))

	return card, nil
}

// DeleteFlashcard implements FlashcardService.DeleteFlashcard.
func (s *flashcardServiceImpl) DeleteFlashcard(
	ctx context.Context,
	userID, cardID uuid.UUID,
) error {
	return s.cardStore.Delete(ctx, userID, cardID)
}
