package mocks

import (
	"context"
	"sync"

	"github.com/cardforge/cardforge-api/internal/domain"
	"github.com/cardforge/cardforge-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing.
type MockGenerator struct {
	// Custom behavior functions
	GenerateProposalsFn func(ctx context.Context, sourceText string) ([]domain.FlashcardProposal, error)

	// Default response values
	Proposals []domain.FlashcardProposal
	Err       error
	Model     string

	mu          sync.Mutex
	CallCount   int
	SourceTexts []string
}

var _ generation.Generator = (*MockGenerator)(nil)

// GenerateProposals implements the generation.Generator interface.
func (m *MockGenerator) GenerateProposals(
	ctx context.Context,
	sourceText string,
) ([]domain.FlashcardProposal, error) {
	m.mu.Lock()
	m.CallCount++
	m.SourceTexts = append(m.SourceTexts, sourceText)
	m.mu.Unlock()

	if m.GenerateProposalsFn != nil {
		return m.GenerateProposalsFn(ctx, sourceText)
	}
	return m.Proposals, m.Err
}

// ModelName implements the generation.Generator interface.
func (m *MockGenerator) ModelName() string {
	if m.Model != "" {
		return m.Model
	}
	return "mock-model"
}
