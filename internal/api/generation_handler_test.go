package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardforge/cardforge-api/internal/api"
	"github.com/cardforge/cardforge-api/internal/api/shared"
	"github.com/cardforge/cardforge-api/internal/domain"
	"github.com/cardforge/cardforge-api/internal/generation"
	"github.com/cardforge/cardforge-api/internal/mocks"
	"github.com/cardforge/cardforge-api/internal/service"
)

// authedRequest builds a request with the user ID already on the context,
// the way the auth middleware leaves it.
func authedRequest(t *testing.T, method, target string, userID uuid.UUID, body any) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

func generationSourceText() string {
	return strings.Repeat("Photosynthesis converts light into chemical energy. ", 20)
}

func TestGenerateFlashcards(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		proposal, err := domain.NewFlashcardProposal(
			"What does photosynthesis produce?",
			"Photosynthesis produces glucose and oxygen.",
		)
		require.NoError(t, err)

		genStore := &mocks.MockGenerationStore{}
		svc := service.NewGenerationService(
			&mocks.MockGenerator{
				Proposals: []domain.FlashcardProposal{proposal},
				Model:     "openai/gpt-4o-mini",
			},
			genStore,
			nil,
		)
		handler := api.NewGenerationHandler(svc)

		req := authedRequest(t, http.MethodPost, "/api/generations", userID,
			api.GenerateFlashcardsRequest{SourceText: generationSourceText()})
		rec := httptest.NewRecorder()
		handler.GenerateFlashcards(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp api.GenerateFlashcardsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.GeneratedCount)
		require.Len(t, resp.FlashcardsProposals, 1)
		assert.Equal(t, "ai-generated", resp.FlashcardsProposals[0].Source)

		require.Len(t, genStore.Generations, 1)
		assert.Equal(t, genStore.Generations[0].ID, resp.GenerationID)
	})

	t.Run("missing authentication", func(t *testing.T) {
		t.Parallel()

		handler := api.NewGenerationHandler(service.NewGenerationService(
			&mocks.MockGenerator{}, &mocks.MockGenerationStore{}, nil))

		req := httptest.NewRequest(http.MethodPost, "/api/generations", bytes.NewReader(nil))
		rec := httptest.NewRecorder()
		handler.GenerateFlashcards(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("source text too short", func(t *testing.T) {
		t.Parallel()

		handler := api.NewGenerationHandler(service.NewGenerationService(
			&mocks.MockGenerator{}, &mocks.MockGenerationStore{}, nil))

		req := authedRequest(t, http.MethodPost, "/api/generations", userID,
			api.GenerateFlashcardsRequest{SourceText: "way too short"})
		rec := httptest.NewRecorder()
		handler.GenerateFlashcards(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("provider failure maps to bad gateway", func(t *testing.T) {
		t.Parallel()

		genStore := &mocks.MockGenerationStore{}
		handler := api.NewGenerationHandler(service.NewGenerationService(
			&mocks.MockGenerator{Err: generation.ErrGenerationFailed},
			genStore,
			nil,
		))

		req := authedRequest(t, http.MethodPost, "/api/generations", userID,
			api.GenerateFlashcardsRequest{SourceText: generationSourceText()})
		rec := httptest.NewRecorder()
		handler.GenerateFlashcards(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		// The failed attempt is recorded in the error log.
		assert.Len(t, genStore.ErrorLogs, 1)

		var resp shared.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Flashcard generation failed", resp.Error)
	})
}
