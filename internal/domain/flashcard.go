package domain

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// CardSource records how a flashcard came to exist.
type CardSource string

// Possible card source values. AI-generated proposals carry SourceAIGenerated;
// once a user edits one before or after saving it becomes SourceAIEdited.
const (
	SourceAIGenerated CardSource = "ai-generated"
	SourceAIEdited    CardSource = "ai-edited"
	SourceManual      CardSource = "manual"
)

// Length bounds enforced on flashcard content, in characters (runes).
const (
	FrontMinLen = 10
	FrontMaxLen = 200
	BackMinLen  = 10
	BackMaxLen  = 500
)

// Flashcard-specific validation errors
var (
	ErrCardIDEmpty        = errors.New("flashcard ID cannot be empty")
	ErrCardUserIDEmpty    = errors.New("flashcard user ID cannot be empty")
	ErrCardFrontLength    = fmt.Errorf("flashcard front must be between %d and %d characters", FrontMinLen, FrontMaxLen)
	ErrCardBackLength     = fmt.Errorf("flashcard back must be between %d and %d characters", BackMinLen, BackMaxLen)
	ErrInvalidCardSource  = errors.New("invalid flashcard source")
	ErrCardGenerationLink = errors.New("AI-sourced flashcards must reference a generation")
)

// Flashcard represents a saved question/answer pair owned by a user.
// AI-sourced cards keep a reference to the generation attempt that
// produced them for audit correlation.
type Flashcard struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	GenerationID *uuid.UUID `json:"generation_id,omitempty"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Source       CardSource `json:"source"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewFlashcard creates a new Flashcard with the given owner, content, and
// provenance. It generates a new UUID for the card ID and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewFlashcard(
	userID uuid.UUID,
	generationID *uuid.UUID,
	front, back string,
	source CardSource,
) (*Flashcard, error) {
	card := &Flashcard{
		ID:           uuid.New(),
		UserID:       userID,
		GenerationID: generationID,
		Front:        front,
		Back:         back,
		Source:       source,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation.
func (c *Flashcard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if !validContentLength(c.Front, FrontMinLen, FrontMaxLen) {
		return ErrCardFrontLength
	}

	if !validContentLength(c.Back, BackMinLen, BackMaxLen) {
		return ErrCardBackLength
	}

	if !isValidCardSource(c.Source) {
		return ErrInvalidCardSource
	}

	// Provenance invariant: AI cards stay traceable to their generation.
	if c.Source != SourceManual && c.GenerationID == nil {
		return ErrCardGenerationLink
	}

	return nil
}

// UpdateContent replaces the card's front and back and updates the
// UpdatedAt timestamp. Editing an unmodified AI-generated card changes
// its source to ai-edited. Returns an error if the new content is invalid.
func (c *Flashcard) UpdateContent(front, back string) error {
	origFront, origBack, origSource := c.Front, c.Back, c.Source

	c.Front = front
	c.Back = back
	if c.Source == SourceAIGenerated && (front != origFront || back != origBack) {
		c.Source = SourceAIEdited
	}

	if err := c.Validate(); err != nil {
		c.Front, c.Back, c.Source = origFront, origBack, origSource
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}

// FlashcardProposal is an unsaved, AI-suggested flashcard pending user
// acceptance. Proposals always carry the ai-generated provenance tag.
type FlashcardProposal struct {
	Front  string     `json:"front"`
	Back   string     `json:"back"`
	Source CardSource `json:"source"`
}

// NewFlashcardProposal builds a proposal from raw model output and
// validates its content bounds. The source tag is fixed to ai-generated.
func NewFlashcardProposal(front, back string) (FlashcardProposal, error) {
	p := FlashcardProposal{
		Front:  front,
		Back:   back,
		Source: SourceAIGenerated,
	}

	if err := p.Validate(); err != nil {
		return FlashcardProposal{}, err
	}

	return p, nil
}

// Validate checks the proposal's content bounds.
func (p FlashcardProposal) Validate() error {
	if !validContentLength(p.Front, FrontMinLen, FrontMaxLen) {
		return ErrCardFrontLength
	}
	if !validContentLength(p.Back, BackMinLen, BackMaxLen) {
		return ErrCardBackLength
	}
	if p.Source != SourceAIGenerated {
		return ErrInvalidCardSource
	}
	return nil
}

func validContentLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// isValidCardSource checks if the given source is a valid CardSource.
func isValidCardSource(source CardSource) bool {
	switch source {
	case SourceAIGenerated, SourceAIEdited, SourceManual:
		return true
	default:
		return false
	}
}
