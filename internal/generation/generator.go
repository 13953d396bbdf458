package generation

import (
	"context"

	"github.com/cardforge/cardforge-api/internal/domain"
)

// Generator defines the interface for generating flashcard proposals from
// source text. It serves as the boundary between the application core and
// the external AI completion service.
type Generator interface {
	// GenerateProposals produces flashcard proposals for the given source
	// text. The returned slice is never empty on success: a response with
	// zero valid proposals is an error, and a single invalid proposal
	// fails the whole batch (no partial salvage).
	//
	// Returns one of the errors declared in this package (possibly
	// wrapping a provider-level error) if generation fails.
	GenerateProposals(ctx context.Context, sourceText string) ([]domain.FlashcardProposal, error)

	// ModelName reports the model identifier used for generation, for
	// inclusion in audit records.
	ModelName() string
}
