package openrouter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardforge/cardforge-api/internal/domain"
	"github.com/cardforge/cardforge-api/internal/generation"
)

// stubSender scripts the completion client's reply for generator tests.
type stubSender struct {
	reply      string
	err        error
	lastPrompt string
}

func (s *stubSender) SendMessage(_ context.Context, text string) (string, error) {
	s.lastPrompt = text
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubSender) Model() string { return "openai/gpt-4o-mini" }

func newTestGenerator(t *testing.T, sender completionSender) *FlashcardGenerator {
	t.Helper()
	tmpl, err := template.New("flashcards").Parse(defaultPromptTemplate)
	require.NoError(t, err)
	return &FlashcardGenerator{
		logger:         slog.Default(),
		client:         sender,
		promptTemplate: tmpl,
	}
}

func TestNewFlashcardGeneratorValidatesDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewFlashcardGenerator(nil, slog.Default())
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerateProposals(t *testing.T) {
	t.Parallel()

	sender := &stubSender{
		reply: `{"flashcards":[
			{"front":"What is the capital of France?","back":"The capital of France is Paris."},
			{"front":"What year did WW2 end?","back":"World War Two ended in 1945."}
		]}`,
	}
	gen := newTestGenerator(t, sender)

	proposals, err := gen.GenerateProposals(context.Background(), "Some source material about European history.")
	require.NoError(t, err)
	require.Len(t, proposals, 2)

	assert.Equal(t, "What is the capital of France?", proposals[0].Front)
	assert.Equal(t, domain.SourceAIGenerated, proposals[0].Source)
	assert.Equal(t, domain.SourceAIGenerated, proposals[1].Source)

	assert.Contains(t, sender.lastPrompt, "European history",
		"source text must be embedded in the prompt")
}

func TestGenerateProposalsRejectsEmptySource(t *testing.T) {
	t.Parallel()

	gen := newTestGenerator(t, &stubSender{})

	_, err := gen.GenerateProposals(context.Background(), "")
	assert.ErrorIs(t, err, generation.ErrEmptySourceText)
}

func TestGenerateProposalsRejectsOversizedSource(t *testing.T) {
	t.Parallel()

	gen := newTestGenerator(t, &stubSender{})
	oversized := strings.Repeat("a", domain.SourceTextMaxLen+1)

	_, err := gen.GenerateProposals(context.Background(), oversized)
	assert.ErrorIs(t, err, generation.ErrSourceTextTooLarge)
}

func TestGenerateProposalsFailClosedOnInvalidCard(t *testing.T) {
	t.Parallel()

	// Second card's front is below the minimum length; the whole batch
	// must be rejected.
	sender := &stubSender{
		reply: `{"flashcards":[
			{"front":"A perfectly valid question?","back":"A perfectly valid answer here."},
			{"front":"short","back":"A perfectly valid answer here."}
		]}`,
	}
	gen := newTestGenerator(t, sender)

	proposals, err := gen.GenerateProposals(context.Background(), "source material")
	assert.ErrorIs(t, err, generation.ErrSchemaValidation)
	assert.Nil(t, proposals)
}

func TestGenerateProposalsRejectsDeviantShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
	}{
		{name: "not JSON", reply: "here are your flashcards!"},
		{name: "unknown field", reply: `{"cards":[{"front":"valid question?","back":"valid answer text."}]}`},
		{name: "empty batch", reply: `{"flashcards":[]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := newTestGenerator(t, &stubSender{reply: tt.reply})

			_, err := gen.GenerateProposals(context.Background(), "source material")
			assert.ErrorIs(t, err, generation.ErrSchemaValidation)
		})
	}
}

func TestGenerateProposalsMapsClientErrors(t *testing.T) {
	t.Parallel()

	transient := &stubSender{err: errors.New("provider unreachable")}
	gen := newTestGenerator(t, transient)
	_, err := gen.GenerateProposals(context.Background(), "source material")
	assert.ErrorIs(t, err, generation.ErrGenerationFailed)

	malformed := &stubSender{err: ErrMalformedResponse}
	gen = newTestGenerator(t, malformed)
	_, err = gen.GenerateProposals(context.Background(), "source material")
	assert.ErrorIs(t, err, generation.ErrSchemaValidation)
}
