package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when proposal generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate flashcards from text")

	// ErrSchemaValidation is returned when the model's reply parses but does not
	// match the expected flashcard shape, or does not parse as JSON at all.
	// One out-of-bounds proposal invalidates the entire batch.
	ErrSchemaValidation = errors.New("model response failed flashcard schema validation")

	// ErrEmptySourceText is returned when the source text is empty
	ErrEmptySourceText = errors.New("source text cannot be empty")

	// ErrSourceTextTooLarge is returned when the source text exceeds the hard
	// upper bound defended at this layer against unvalidated callers
	ErrSourceTextTooLarge = errors.New("source text exceeds maximum length")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
