package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardforge/cardforge-api/internal/domain"
	"github.com/cardforge/cardforge-api/internal/mocks"
	"github.com/cardforge/cardforge-api/internal/service"
)

func validSourceText() string {
	return strings.Repeat("The mitochondria is the powerhouse of the cell. ", 25)
}

func validProposals(t *testing.T) []domain.FlashcardProposal {
	t.Helper()
	p1, err := domain.NewFlashcardProposal(
		"What organelle produces ATP?",
		"The mitochondria produces most of the cell's ATP.",
	)
	require.NoError(t, err)
	p2, err := domain.NewFlashcardProposal(
		"What is cellular respiration?",
		"The process by which cells convert nutrients into energy.",
	)
	require.NoError(t, err)
	return []domain.FlashcardProposal{p1, p2}
}

func TestGenerateFlashcardsSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	proposals := validProposals(t)
	generator := &mocks.MockGenerator{Proposals: proposals, Model: "openai/gpt-4o-mini"}
	genStore := &mocks.MockGenerationStore{}
	svc := service.NewGenerationService(generator, genStore, nil)

	sourceText := validSourceText()
	result, err := svc.GenerateFlashcards(context.Background(), userID, sourceText)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, proposals, result.Proposals)
	require.NotNil(t, result.Generation)
	assert.Equal(t, userID, result.Generation.UserID)
	assert.Equal(t, "openai/gpt-4o-mini", result.Generation.Model)
	assert.Equal(t, len(proposals), result.Generation.GeneratedCount)
	assert.Equal(t, domain.Fingerprint(sourceText), result.Generation.SourceTextHash)
	assert.Equal(t, len([]rune(sourceText)), result.Generation.SourceTextLength)

	// Exactly one audit record, no error logs.
	require.Len(t, genStore.Generations, 1)
	assert.Empty(t, genStore.ErrorLogs)
}

func TestGenerateFlashcardsSourceBounds(t *testing.T) {
	t.Parallel()

	svc := service.NewGenerationService(&mocks.MockGenerator{}, &mocks.MockGenerationStore{}, nil)

	_, err := svc.GenerateFlashcards(context.Background(), uuid.New(), "too short")
	assert.ErrorIs(t, err, service.ErrSourceTextTooShort)

	oversized := strings.Repeat("a", domain.SourceTextMaxLen+1)
	_, err = svc.GenerateFlashcards(context.Background(), uuid.New(), oversized)
	assert.ErrorIs(t, err, service.ErrSourceTextTooLong)
}

func TestGenerateFlashcardsRecordsFailure(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	genErr := errors.New("provider exploded")
	generator := &mocks.MockGenerator{Err: genErr, Model: "openai/gpt-4o-mini"}
	genStore := &mocks.MockGenerationStore{}
	svc := service.NewGenerationService(generator, genStore, nil)

	sourceText := validSourceText()
	_, err := svc.GenerateFlashcards(context.Background(), userID, sourceText)
	require.Error(t, err)
	assert.ErrorIs(t, err, genErr, "the original generation error must stay inspectable")

	// Exactly one error log, no audit record.
	require.Len(t, genStore.ErrorLogs, 1)
	assert.Empty(t, genStore.Generations)

	entry := genStore.ErrorLogs[0]
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, domain.ErrorCodeGenerationFailed, entry.ErrorCode)
	assert.Contains(t, entry.ErrorMessage, "provider exploded")
	assert.Equal(t, domain.Fingerprint(sourceText), entry.SourceTextHash)
}

func TestGenerateFlashcardsErrorLogFailureNeverMasks(t *testing.T) {
	t.Parallel()

	genErr := errors.New("provider exploded")
	generator := &mocks.MockGenerator{Err: genErr}
	genStore := &mocks.MockGenerationStore{
		CreateErrorLogFn: func(ctx context.Context, entry *domain.GenerationErrorLog) error {
			return errors.New("database is down")
		},
	}
	svc := service.NewGenerationService(generator, genStore, nil)

	_, err := svc.GenerateFlashcards(context.Background(), uuid.New(), validSourceText())
	require.Error(t, err)
	assert.ErrorIs(t, err, genErr,
		"a failed error-log write must not replace the generation error")
}

func TestGenerateFlashcardsPersistenceFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("insert failed")
	generator := &mocks.MockGenerator{Proposals: validProposals(t)}
	genStore := &mocks.MockGenerationStore{
		CreateGenerationFn: func(ctx context.Context, generation *domain.Generation) error {
			return storeErr
		},
	}
	svc := service.NewGenerationService(generator, genStore, nil)

	userID := uuid.New()
	sourceText := validSourceText()
	_, err := svc.GenerateFlashcards(context.Background(), userID, sourceText)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)

	var svcErr *service.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "generate_flashcards", svcErr.Operation)

	// A failed audit insert is still a failed generation attempt and gets
	// exactly one error log entry.
	require.Len(t, genStore.ErrorLogs, 1)
	entry := genStore.ErrorLogs[0]
	assert.Equal(t, userID, entry.UserID)
	assert.Equal(t, domain.ErrorCodeGenerationFailed, entry.ErrorCode)
	assert.Contains(t, entry.ErrorMessage, "insert failed")
	assert.Equal(t, domain.Fingerprint(sourceText), entry.SourceTextHash)
}

func TestGenerateFlashcardsDurationInMilliseconds(t *testing.T) {
	t.Parallel()

	proposals := validProposals(t)
	generator := &mocks.MockGenerator{
		GenerateProposalsFn: func(ctx context.Context, sourceText string) ([]domain.FlashcardProposal, error) {
			time.Sleep(30 * time.Millisecond)
			return proposals, nil
		},
	}
	genStore := &mocks.MockGenerationStore{}
	svc := service.NewGenerationService(generator, genStore, nil)

	result, err := svc.GenerateFlashcards(context.Background(), uuid.New(), validSourceText())
	require.NoError(t, err)

	// A ~30ms call must record tens of milliseconds, not a value scaled
	// into another unit.
	assert.GreaterOrEqual(t, result.Generation.GenerationDurationMs, int64(20))
	assert.Less(t, result.Generation.GenerationDurationMs, int64(5000))
}

func TestRecordedErrorMessageTruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// 200 three-byte runes = 600 bytes; a byte-indexed cut at 500 would
	// land mid-rune.
	genErr := errors.New(strings.Repeat("世", 200))
	generator := &mocks.MockGenerator{Err: genErr}
	genStore := &mocks.MockGenerationStore{}
	svc := service.NewGenerationService(generator, genStore, nil)

	_, err := svc.GenerateFlashcards(context.Background(), uuid.New(), validSourceText())
	require.Error(t, err)

	require.Len(t, genStore.ErrorLogs, 1)
	message := genStore.ErrorLogs[0].ErrorMessage
	assert.LessOrEqual(t, len(message), 500)
	assert.True(t, utf8.ValidString(message), "persisted message must stay valid UTF-8")
}
