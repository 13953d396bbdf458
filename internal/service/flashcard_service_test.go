package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardforge/cardforge-api/internal/domain"
	"github.com/cardforge/cardforge-api/internal/mocks"
	"github.com/cardforge/cardforge-api/internal/service"
	"github.com/cardforge/cardforge-api/internal/store"
)

func TestSaveFlashcardsPartialFailure(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	generationID := uuid.New()
	cardStore := &mocks.MockFlashcardStore{}
	svc := service.NewFlashcardService(cardStore, nil)

	inputs := []service.FlashcardInput{
		{
			Front:        "What is the capital of France?",
			Back:         "The capital of France is Paris.",
			Source:       domain.SourceAIGenerated,
			GenerationID: &generationID,
		},
		{
			// Front below the minimum length: rejected before the store.
			Front:  "short",
			Back:   "A perfectly reasonable answer.",
			Source: domain.SourceManual,
		},
		{
			Front:  "What is the largest planet in our solar system?",
			Back:   "Jupiter is the largest planet.",
			Source: domain.SourceManual,
		},
	}

	result, err := svc.SaveFlashcards(context.Background(), userID, inputs)
	require.NoError(t, err)

	require.Len(t, result.Saved, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 1, result.Failed[0].Index)
	assert.NotEmpty(t, result.Failed[0].Reason)

	assert.Equal(t, userID, result.Saved[0].UserID)
	assert.Equal(t, &generationID, result.Saved[0].GenerationID)
	assert.Equal(t, domain.SourceAIGenerated, result.Saved[0].Source)
	assert.Nil(t, result.Saved[1].GenerationID)
}

func TestSaveFlashcardsStoreFailureIsPerCard(t *testing.T) {
	t.Parallel()

	calls := 0
	cardStore := &mocks.MockFlashcardStore{
		CreateFn: func(ctx context.Context, card *domain.Flashcard) error {
			calls++
			if calls == 1 {
				return errors.New("insert failed")
			}
			return nil
		},
	}
	svc := service.NewFlashcardService(cardStore, nil)

	inputs := []service.FlashcardInput{
		{Front: "What is the capital of France?", Back: "The capital of France is Paris.", Source: domain.SourceManual},
		{Front: "What is the capital of Spain?", Back: "The capital of Spain is Madrid.", Source: domain.SourceManual},
	}

	result, err := svc.SaveFlashcards(context.Background(), uuid.New(), inputs)
	require.NoError(t, err)
	assert.Len(t, result.Saved, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 0, result.Failed[0].Index)
}

func TestSaveFlashcardsEmptyBatch(t *testing.T) {
	t.Parallel()

	svc := service.NewFlashcardService(&mocks.MockFlashcardStore{}, nil)

	_, err := svc.SaveFlashcards(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, service.ErrNothingToSave)
}

func TestUpdateFlashcardFlipsSource(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	generationID := uuid.New()
	card, err := domain.NewFlashcard(
		userID,
		&generationID,
		"What is the capital of France?",
		"The capital of France is Paris.",
		domain.SourceAIGenerated,
	)
	require.NoError(t, err)

	var updated *domain.Flashcard
	cardStore := &mocks.MockFlashcardStore{
		Card: card,
		UpdateFn: func(ctx context.Context, c *domain.Flashcard) error {
			updated = c
			return nil
		},
	}
	svc := service.NewFlashcardService(cardStore, nil)

	result, err := svc.UpdateFlashcard(
		context.Background(),
		userID,
		card.ID,
		"What is the capital of France, really?",
		"The capital of France is Paris.",
	)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceAIEdited, result.Source,
		"editing an AI-generated card must mark it as AI-edited")
	require.NotNil(t, updated)
	assert.Equal(t, result, updated)
}

func TestUpdateFlashcardInvalidContentLeavesCardAlone(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card, err := domain.NewFlashcard(
		userID,
		nil,
		"What is the capital of France?",
		"The capital of France is Paris.",
		domain.SourceManual,
	)
	require.NoError(t, err)

	cardStore := &mocks.MockFlashcardStore{
		Card: card,
		UpdateFn: func(ctx context.Context, c *domain.Flashcard) error {
			t.Fatal("store must not be called for invalid content")
			return nil
		},
	}
	svc := service.NewFlashcardService(cardStore, nil)

	_, err = svc.UpdateFlashcard(context.Background(), userID, card.ID, "bad", "worse")
	require.Error(t, err)
	assert.Equal(t, "What is the capital of France?", card.Front)
}

func TestGetFlashcardPassesThroughNotFound(t *testing.T) {
	t.Parallel()

	cardStore := &mocks.MockFlashcardStore{Err: store.ErrFlashcardNotFound}
	svc := service.NewFlashcardService(cardStore, nil)

	_, err := svc.GetFlashcard(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrFlashcardNotFound)
}

func TestDeleteFlashcard(t *testing.T) {
	t.Parallel()

	var gotUser, gotCard uuid.UUID
	cardStore := &mocks.MockFlashcardStore{
		DeleteFn: func(ctx context.Context, userID, cardID uuid.UUID) error {
			gotUser, gotCard = userID, cardID
			return nil
		},
	}
	svc := service.NewFlashcardService(cardStore, nil)

	userID, cardID := uuid.New(), uuid.New()
	require.NoError(t, svc.DeleteFlashcard(context.Background(), userID, cardID))
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, cardID, gotCard)
}
