package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"text/template"
	"unicode/utf8"

	"github.com/cardforge/cardforge-api/internal/domain"
	"github.com/cardforge/cardforge-api/internal/generation"
)

// defaultPromptTemplate asks for exam-style flashcards and pins the reply
// to the structured-output contract enforced by the response format.
const defaultPromptTemplate = `You are an expert educator creating flashcards from source material.

Analyze the text below and produce concise, self-contained flashcards that
cover its key facts and concepts. Each flashcard has a question on the front
and the answer on the back. Fronts must be between 10 and 200 characters,
backs between 10 and 500 characters.

Respond with JSON matching the requested schema: an object with a single
"flashcards" array of {front, back} objects. Do not include anything else.

Source text:
{{.SourceText}}`

// flashcardSchemaName labels the structured-output schema in the request.
const flashcardSchemaName = "flashcards"

// flashcardSchema is the strict JSON schema the provider's reply must
// conform to.
var flashcardSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"flashcards": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"front": map[string]any{"type": "string"},
					"back":  map[string]any{"type": "string"},
				},
				"required":             []string{"front", "back"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"flashcards"},
	"additionalProperties": false,
}

// promptData carries template inputs for the generation prompt.
type promptData struct {
	SourceText string
}

// flashcardsPayload mirrors the schema-constrained reply shape.
type flashcardsPayload struct {
	Flashcards []flashcardItem `json:"flashcards"`
}

type flashcardItem struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// completionSender is the slice of the completion client the generator
// needs. Narrowing the dependency keeps the generator testable without a
// live endpoint.
type completionSender interface {
	SendMessage(ctx context.Context, text string) (string, error)
	Model() string
}

// FlashcardGenerator implements the generation.Generator interface on top
// of an OpenAI-compatible chat-completions endpoint. It renders the prompt,
// constrains the reply with a strict JSON schema, and converts the parsed
// payload into validated flashcard proposals.
type FlashcardGenerator struct {
	logger         *slog.Logger
	client         completionSender
	promptTemplate *template.Template
}

// NewFlashcardGenerator creates a flashcard generator bound to the given
// completion client. The structured-output schema is attached to the client
// at construction time.
func NewFlashcardGenerator(client *Client, logger *slog.Logger) (*FlashcardGenerator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: completion client cannot be nil", generation.ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("flashcards").Parse(defaultPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	if err := client.SetResponseFormat(flashcardSchemaName, flashcardSchema); err != nil {
		return nil, fmt.Errorf("%w: failed to set response format: %v",
			generation.ErrInvalidConfig, err)
	}
	client.SetSystemMessage("You generate study flashcards and reply only with JSON matching the requested schema.")

	return &FlashcardGenerator{
		logger:         logger.With(slog.String("component", "flashcard_generator")),
		client:         client,
		promptTemplate: promptTemplate,
	}, nil
}

// ModelName reports the model identifier used for generation.
func (g *FlashcardGenerator) ModelName() string {
	return g.client.Model()
}

// GenerateProposals renders the prompt for the source text, sends it
// through the completion client, and parses the reply into flashcard
// proposals. Validation is fail-closed: a single bad card in the reply
// rejects the whole batch.
func (g *FlashcardGenerator) GenerateProposals(
	ctx context.Context,
	sourceText string,
) ([]domain.FlashcardProposal, error) {
	if sourceText == "" {
		return nil, generation.ErrEmptySourceText
	}
	if utf8.RuneCountInString(sourceText) > domain.SourceTextMaxLen {
		return nil, generation.ErrSourceTextTooLarge
	}

	prompt, err := g.createPrompt(ctx, sourceText)
	if err != nil {
		return nil, err
	}

	content, err := g.client.SendMessage(ctx, prompt)
	if err != nil {
		return nil, classifyClientError(err)
	}

	proposals, err := g.parseResponse(ctx, content)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "flashcard proposals generated",
		slog.String("model", g.client.Model()),
		slog.Int("proposal_count", len(proposals)))

	return proposals, nil
}

// createPrompt executes the prompt template with the source text.
func (g *FlashcardGenerator) createPrompt(ctx context.Context, sourceText string) (string, error) {
	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, promptData{SourceText: sourceText}); err != nil {
		return "", fmt.Errorf("%w: failed to execute prompt template: %v",
			generation.ErrGenerationFailed, err)
	}

	g.logger.DebugContext(ctx, "prompt rendered",
		slog.Int("source_length", utf8.RuneCountInString(sourceText)),
		slog.Int("prompt_length", buf.Len()))

	return buf.String(), nil
}

// parseResponse decodes the schema-constrained reply and converts every
// item into a validated proposal. Unknown fields and invalid cards reject
// the whole batch.
func (g *FlashcardGenerator) parseResponse(
	ctx context.Context,
	content string,
) ([]domain.FlashcardProposal, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(content)))
	decoder.DisallowUnknownFields()

	var payload flashcardsPayload
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: reply is not valid flashcard JSON: %v",
			generation.ErrSchemaValidation, err)
	}

	if len(payload.Flashcards) == 0 {
		return nil, fmt.Errorf("%w: reply contains no flashcards", generation.ErrSchemaValidation)
	}

	proposals := make([]domain.FlashcardProposal, 0, len(payload.Flashcards))
	for i, item := range payload.Flashcards {
		proposal, err := domain.NewFlashcardProposal(item.Front, item.Back)
		if err != nil {
			g.logger.WarnContext(ctx, "rejecting generated batch",
				slog.Int("card_index", i),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: card %d: %v", generation.ErrSchemaValidation, i, err)
		}
		proposals = append(proposals, proposal)
	}

	return proposals, nil
}

// classifyClientError maps transport-level failures onto the generation
// error taxonomy while preserving the original error for inspection.
func classifyClientError(err error) error {
	if errors.Is(err, ErrMalformedResponse) {
		return fmt.Errorf("%w: %w", generation.ErrSchemaValidation, err)
	}
	return fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
}
