package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/cardforge/cardforge-api/internal/api/middleware"
	"github.com/cardforge/cardforge-api/internal/api/shared"
	"github.com/cardforge/cardforge-api/internal/service"
)

// GenerationHandler handles AI flashcard generation requests.
type GenerationHandler struct {
	generationService service.GenerationService
	validator         *validator.Validate
}

// NewGenerationHandler creates a new GenerationHandler with the given
// dependencies.
func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
		validator:         validator.New(),
	}
}

// GenerateFlashcards handles POST /generations. On success it responds
// with 201 and the unpersisted proposals for user review; the generation
// audit record is already persisted at that point.
func (h *GenerationHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req GenerateFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.generationService.GenerateFlashcards(r.Context(), userID, req.SourceText)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	proposals := make([]FlashcardProposalResponse, 0, len(result.Proposals))
	for _, p := range result.Proposals {
		proposals = append(proposals, FlashcardProposalResponse{
			Front:  p.Front,
			Back:   p.Back,
			Source: string(p.Source),
		})
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, GenerateFlashcardsResponse{
		GenerationID:        result.Generation.ID,
		FlashcardsProposals: proposals,
		GeneratedCount:      result.Generation.GeneratedCount,
	})
}
