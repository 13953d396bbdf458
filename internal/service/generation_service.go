package service

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/cardforge/cardforge-api/internal/domain"
	"github.com/cardforge/cardforge-api/internal/generation"
	"github.com/cardforge/cardforge-api/internal/platform/logger"
	"github.com/cardforge/cardforge-api/internal/store"
)

// errorMessageMaxLen caps persisted provider error messages.
const errorMessageMaxLen = 500

// GenerationResult is the outcome of a successful generation attempt: the
// persisted audit record plus the unpersisted proposals for user review.
type GenerationResult struct {
	Generation *domain.Generation
	Proposals  []domain.FlashcardProposal
}

// GenerationService orchestrates AI flashcard generation.
type GenerationService interface {
	// GenerateFlashcards generates flashcard proposals from source text on
	// behalf of a user. On success a generation audit record is persisted.
	// On any failure past the source-text bounds check (generator call or
	// audit-record persistence) exactly one error log entry is persisted
	// and the original error is returned.
	GenerateFlashcards(
		ctx context.Context,
		userID uuid.UUID,
		sourceText string,
	) (*GenerationResult, error)
}

// generationServiceImpl implements GenerationService.
type generationServiceImpl struct {
	generator       generation.Generator
	generationStore store.GenerationStore
	logger          *slog.Logger
}

var _ GenerationService = (*generationServiceImpl)(nil)

// NewGenerationService creates a GenerationService with the given
// dependencies. If log is nil, a default logger is used.
func NewGenerationService(
	generator generation.Generator,
	generationStore store.GenerationStore,
	log *slog.Logger,
) GenerationService {
	if generator == nil {
		panic("generator cannot be nil")
	}
	if generationStore == nil {
		panic("generation store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &generationServiceImpl{
		generator:       generator,
		generationStore: generationStore,
		logger:          log.With(slog.String("component", "generation_service")),
	}
}

// GenerateFlashcards implements GenerationService.GenerateFlashcards.
func (s *generationServiceImpl) GenerateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	sourceText string,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sourceLength := utf8.RuneCountInString(sourceText)
	if sourceLength < domain.SourceTextMinLen {
		return nil, ErrSourceTextTooShort
	}
	if sourceLength > domain.SourceTextMaxLen {
		return nil, ErrSourceTextTooLong
	}

	sourceHash := domain.Fingerprint(sourceText)
	model := s.generator.ModelName()

	log.Info("starting flashcard generation",
		slog.String("user_id", userID.String()),
		slog.String("model", model),
		slog.Int("source_text_length", sourceLength))

	started := time.Now()
	proposals, err := s.generator.GenerateProposals(ctx, sourceText)
	elapsed := time.Since(started)
	durationMs := elapsed.Milliseconds()

	if err != nil {
		log.Error("flashcard generation failed",
			slog.String("user_id", userID.String()),
			slog.String("model", model),
			slog.Int64("duration_ms", durationMs),
			slog.String("error", err.Error()))

		s.recordFailure(ctx, userID, model, sourceHash, sourceLength, err)
		return nil, NewServiceError("generate_flashcards", "generator call failed", err)
	}

	gen, err := domain.NewGeneration(
		userID,
		model,
		sourceHash,
		sourceLength,
		len(proposals),
		elapsed,
	)
	if err != nil {
		s.recordFailure(ctx, userID, model, sourceHash, sourceLength, err)
		return nil, NewServiceError("generate_flashcards", "invalid generation record", err)
	}

	if err := s.generationStore.CreateGeneration(ctx, gen); err != nil {
		s.recordFailure(ctx, userID, model, sourceHash, sourceLength, err)
		return nil, NewServiceError("generate_flashcards", "failed to persist generation record", err)
	}

	log.Info("flashcard generation succeeded",
		slog.String("user_id", userID.String()),
		slog.String("generation_id", gen.ID.String()),
		slog.Int("generated_count", gen.GeneratedCount),
		slog.Int64("duration_ms", durationMs))

	return &GenerationResult{
		Generation: gen,
		Proposals:  proposals,
	}, nil
}

// truncateMessage caps s at maxBytes without splitting a multi-byte rune,
// so the persisted message stays valid UTF-8.
func truncateMessage(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// recordFailure persists a single error log entry for a failed generation
// attempt. A failure to write the log entry is itself logged but never
// masks the original generation error.
func (s *generationServiceImpl) recordFailure(
	ctx context.Context,
	userID uuid.UUID,
	model, sourceHash string,
	sourceLength int,
	genErr error,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	message := truncateMessage(genErr.Error(), errorMessageMaxLen)

	entry, err := domain.NewGenerationErrorLog(
		userID,
		domain.ErrorCodeGenerationFailed,
		message,
		model,
		sourceHash,
		sourceLength,
	)
	if err != nil {
		log.Error("failed to build generation error log entry",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return
	}

	if err := s.generationStore.CreateErrorLog(ctx, entry); err != nil {
		log.Error("failed to persist generation error log",
			slog.String("user_id", userID.String()),
			slog.String("entry_id", entry.ID.String()),
			slog.String("error", err.Error()))
	}
}
