package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/cardforge/cardforge-api/internal/api/middleware"
	"github.com/cardforge/cardforge-api/internal/api/shared"
	"github.com/cardforge/cardforge-api/internal/domain"
	"github.com/cardforge/cardforge-api/internal/service"
)

// Pagination defaults for the list endpoint.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// FlashcardHandler handles flashcard CRUD requests.
type FlashcardHandler struct {
	flashcardService service.FlashcardService
	validator        *validator.Validate
}

// NewFlashcardHandler creates a new FlashcardHandler with the given
// dependencies.
func NewFlashcardHandler(flashcardService service.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{
		flashcardService: flashcardService,
		validator:        validator.New(),
	}
}

// SaveFlashcards handles POST /flashcards. Cards are saved independently;
// a fully successful batch responds 201, a partially failed one 207.
func (h *FlashcardHandler) SaveFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SaveFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	inputs := make([]service.FlashcardInput, 0, len(req.Flashcards))
	for _, card := range req.Flashcards {
		inputs = append(inputs, service.FlashcardInput{
			Front:        card.Front,
			Back:         card.Back,
			Source:       domain.CardSource(card.Source),
			GenerationID: card.GenerationID,
		})
	}

	result, err := h.flashcardService.SaveFlashcards(r.Context(), userID, inputs)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	resp := SaveFlashcardsResponse{
		Saved: make([]FlashcardResponse, 0, len(result.Saved)),
	}
	for _, card := range result.Saved {
		resp.Saved = append(resp.Saved, toFlashcardResponse(card))
	}
	for _, failure := range result.Failed {
		resp.Failed = append(resp.Failed, SaveFailureResponse{
			Index:  failure.Index,
			Reason: failure.Reason,
		})
	}

	status := http.StatusCreated
	if len(resp.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	shared.RespondWithJSON(w, r, status, resp)
}

// ListFlashcards handles GET /flashcards with offset/limit pagination.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	offset := parseQueryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit := parseQueryInt(r, "limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	cards, total, err := h.flashcardService.ListFlashcards(r.Context(), userID, offset, limit)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	resp := ListFlashcardsResponse{
		Flashcards: make([]FlashcardResponse, 0, len(cards)),
		Total:      total,
		Offset:     offset,
		Limit:      limit,
	}
	for _, card := range cards {
		resp.Flashcards = append(resp.Flashcards, toFlashcardResponse(card))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetFlashcard handles GET /flashcards/{id}.
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	cardID, ok := parseCardID(w, r)
	if !ok {
		return
	}

	card, err := h.flashcardService.GetFlashcard(r.Context(), userID, cardID)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toFlashcardResponse(card))
}

// UpdateFlashcard handles PUT /flashcards/{id}.
func (h *FlashcardHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	cardID, ok := parseCardID(w, r)
	if !ok {
		return
	}

	var req UpdateFlashcardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	card, err := h.flashcardService.UpdateFlashcard(r.Context(), userID, cardID, req.Front, req.Back)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toFlashcardResponse(card))
}

// DeleteFlashcard handles DELETE /flashcards/{id}.
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	cardID, ok := parseCardID(w, r)
	if !ok {
		return
	}

	if err := h.flashcardService.DeleteFlashcard(r.Context(), userID, cardID); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toFlashcardResponse(card *domain.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:           card.ID,
		Front:        card.Front,
		Back:         card.Back,
		Source:       string(card.Source),
		GenerationID: card.GenerationID,
		CreatedAt:    card.CreatedAt,
		UpdatedAt:    card.UpdatedAt,
	}
}

// parseCardID extracts and parses the {id} URL parameter, responding with
// a 400 on malformed input.
func parseCardID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid flashcard ID")
		return uuid.Nil, false
	}
	return cardID, true
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
