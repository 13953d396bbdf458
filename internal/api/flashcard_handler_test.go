package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardforge/cardforge-api/internal/api"
	"github.com/cardforge/cardforge-api/internal/api/shared"
	"github.com/cardforge/cardforge-api/internal/domain"
	"github.com/cardforge/cardforge-api/internal/mocks"
	"github.com/cardforge/cardforge-api/internal/service"
	"github.com/cardforge/cardforge-api/internal/store"
)

// flashcardRouter mounts the handler behind a router that injects the
// user ID, standing in for the auth middleware.
func flashcardRouter(handler *api.FlashcardHandler, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/flashcards", handler.SaveFlashcards)
	r.Get("/flashcards", handler.ListFlashcards)
	r.Get("/flashcards/{id}", handler.GetFlashcard)
	r.Put("/flashcards/{id}", handler.UpdateFlashcard)
	r.Delete("/flashcards/{id}", handler.DeleteFlashcard)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSaveFlashcardsEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("all saved", func(t *testing.T) {
		t.Parallel()

		cardStore := &mocks.MockFlashcardStore{}
		handler := api.NewFlashcardHandler(service.NewFlashcardService(cardStore, nil))
		router := flashcardRouter(handler, userID)

		rec := doJSON(t, router, http.MethodPost, "/flashcards", api.SaveFlashcardsRequest{
			Flashcards: []api.FlashcardInputRequest{
				{
					Front:  "What is the capital of France?",
					Back:   "The capital of France is Paris.",
					Source: "manual",
				},
			},
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp api.SaveFlashcardsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Saved, 1)
		assert.Empty(t, resp.Failed)
		assert.Equal(t, "manual", resp.Saved[0].Source)
	})

	t.Run("partial failure yields 207", func(t *testing.T) {
		t.Parallel()

		generationID := uuid.New()
		cardStore := &mocks.MockFlashcardStore{
			CreateFn: func(ctx context.Context, card *domain.Flashcard) error {
				if card.Source == domain.SourceAIGenerated {
					return store.ErrInvalidEntity
				}
				return nil
			},
		}
		handler := api.NewFlashcardHandler(service.NewFlashcardService(cardStore, nil))
		router := flashcardRouter(handler, userID)

		rec := doJSON(t, router, http.MethodPost, "/flashcards", api.SaveFlashcardsRequest{
			Flashcards: []api.FlashcardInputRequest{
				{
					Front:        "What is the capital of France?",
					Back:         "The capital of France is Paris.",
					Source:       "ai-generated",
					GenerationID: &generationID,
				},
				{
					Front:  "What is the capital of Spain?",
					Back:   "The capital of Spain is Madrid.",
					Source: "manual",
				},
			},
		})
		require.Equal(t, http.StatusMultiStatus, rec.Code)

		var resp api.SaveFlashcardsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Saved, 1)
		require.Len(t, resp.Failed, 1)
		assert.Equal(t, 0, resp.Failed[0].Index)
	})

	t.Run("invalid source rejected", func(t *testing.T) {
		t.Parallel()

		handler := api.NewFlashcardHandler(service.NewFlashcardService(&mocks.MockFlashcardStore{}, nil))
		router := flashcardRouter(handler, userID)

		rec := doJSON(t, router, http.MethodPost, "/flashcards", api.SaveFlashcardsRequest{
			Flashcards: []api.FlashcardInputRequest{
				{
					Front:  "What is the capital of France?",
					Back:   "The capital of France is Paris.",
					Source: "telepathy",
				},
			},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		t.Parallel()

		handler := api.NewFlashcardHandler(service.NewFlashcardService(&mocks.MockFlashcardStore{}, nil))
		router := flashcardRouter(handler, userID)

		rec := doJSON(t, router, http.MethodPost, "/flashcards",
			api.SaveFlashcardsRequest{Flashcards: []api.FlashcardInputRequest{}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListFlashcardsEndpoint(t *testing.T) {
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
		Cards: []*domain.Flashcard{card},
		Total: 41,
	}
	handler := api.NewFlashcardHandler(service.NewFlashcardService(cardStore, nil))
	router := flashcardRouter(handler, userID)

	rec := doJSON(t, router, http.MethodGet, "/flashcards?offset=20&limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ListFlashcardsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 41, resp.Total)
	assert.Equal(t, 20, resp.Offset)
	assert.Equal(t, 10, resp.Limit)
	require.Len(t, resp.Flashcards, 1)
	assert.Equal(t, card.ID, resp.Flashcards[0].ID)
}

func TestListFlashcardsClampsLimit(t *testing.T) {
	t.Parallel()

	var gotLimit int
	cardStore := &mocks.MockFlashcardStore{
		ListFn: func(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Flashcard, int, error) {
			gotLimit = limit
			return nil, 0, nil
		},
	}
	handler := api.NewFlashcardHandler(service.NewFlashcardService(cardStore, nil))
	router := flashcardRouter(handler, uuid.New())

	rec := doJSON(t, router, http.MethodGet, "/flashcards?limit=5000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, gotLimit)
}

func TestUpdateFlashcardEndpoint(t *testing.T) {
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

	t.Run("success flips source", func(t *testing.T) {
		t.Parallel()

		cardStore := &mocks.MockFlashcardStore{Card: card}
		handler := api.NewFlashcardHandler(service.NewFlashcardService(cardStore, nil))
		router := flashcardRouter(handler, userID)

		rec := doJSON(t, router, http.MethodPut, "/flashcards/"+card.ID.String(),
			api.UpdateFlashcardRequest{
				Front: "What is the capital city of France?",
				Back:  "The capital of France is Paris.",
			})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.FlashcardResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ai-edited", resp.Source)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		cardStore := &mocks.MockFlashcardStore{Err: store.ErrFlashcardNotFound}
		handler := api.NewFlashcardHandler(service.NewFlashcardService(cardStore, nil))
		router := flashcardRouter(handler, userID)

		rec := doJSON(t, router, http.MethodPut, "/flashcards/"+uuid.NewString(),
			api.UpdateFlashcardRequest{
				Front: "What is the capital city of France?",
				Back:  "The capital of France is Paris.",
			})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()

		handler := api.NewFlashcardHandler(service.NewFlashcardService(&mocks.MockFlashcardStore{}, nil))
		router := flashcardRouter(handler, userID)

		rec := doJSON(t, router, http.MethodPut, "/flashcards/not-a-uuid",
			api.UpdateFlashcardRequest{
				Front: "What is the capital city of France?",
				Back:  "The capital of France is Paris.",
			})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteFlashcardEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		handler := api.NewFlashcardHandler(service.NewFlashcardService(&mocks.MockFlashcardStore{}, nil))
		router := flashcardRouter(handler, userID)

		rec := doJSON(t, router, http.MethodDelete, "/flashcards/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		cardStore := &mocks.MockFlashcardStore{Err: store.ErrFlashcardNotFound}
		handler := api.NewFlashcardHandler(service.NewFlashcardService(cardStore, nil))
		router := flashcardRouter(handler, userID)

		rec := doJSON(t, router, http.MethodDelete, "/flashcards/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
