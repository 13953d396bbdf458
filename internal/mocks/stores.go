package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/cardforge/cardforge-api/internal/domain"
	"github.com/cardforge/cardforge-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)

	// Default response values
	User *domain.User
	Err  error
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return m.Err
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.User, m.Err
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return m.User, m.Err
}

// MockFlashcardStore implements store.FlashcardStore for testing.
type MockFlashcardStore struct {
	CreateFn  func(ctx context.Context, card *domain.Flashcard) error
	GetByIDFn func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Flashcard, error)
	ListFn    func(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Flashcard, int, error)
	UpdateFn  func(ctx context.Context, card *domain.Flashcard) error
	DeleteFn  func(ctx context.Context, userID, cardID uuid.UUID) error

	// Default response values
	Card  *domain.Flashcard
	Cards []*domain.Flashcard
	Total int
	Err   error

	mu      sync.Mutex
	Created []*domain.Flashcard
}

var _ store.FlashcardStore = (*MockFlashcardStore)(nil)

func (m *MockFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	m.mu.Lock()
	m.Created = append(m.Created, card)
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}
	return m.Err
}

func (m *MockFlashcardStore) GetByID(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.Flashcard, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, cardID)
	}
	return m.Card, m.Err
}

func (m *MockFlashcardStore) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Flashcard, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, offset, limit)
	}
	return m.Cards, m.Total, m.Err
}

func (m *MockFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, card)
	}
	return m.Err
}

func (m *MockFlashcardStore) Delete(ctx context.Context, userID, cardID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, cardID)
	}
	return m.Err
}

// MockGenerationStore implements store.GenerationStore for testing.
type MockGenerationStore struct {
	CreateGenerationFn  func(ctx context.Context, generation *domain.Generation) error
	CreateErrorLogFn    func(ctx context.Context, entry *domain.GenerationErrorLog) error
	GetGenerationByIDFn func(ctx context.Context, userID, generationID uuid.UUID) (*domain.Generation, error)

	// Default response values
	Generation *domain.Generation
	Err        error

	mu          sync.Mutex
	Generations []*domain.Generation
	ErrorLogs   []*domain.GenerationErrorLog
}

var _ store.GenerationStore = (*MockGenerationStore)(nil)

func (m *MockGenerationStore) CreateGeneration(
	ctx context.Context,
	generation *domain.Generation,
) error {
	m.mu.Lock()
	m.Generations = append(m.Generations, generation)
	m.mu.Unlock()

	if m.CreateGenerationFn != nil {
		return m.CreateGenerationFn(ctx, generation)
	}
	return m.Err
}

func (m *MockGenerationStore) CreateErrorLog(
	ctx context.Context,
	entry *domain.GenerationErrorLog,
) error {
	m.mu.Lock()
	m.ErrorLogs = append(m.ErrorLogs, entry)
	m.mu.Unlock()

	if m.CreateErrorLogFn != nil {
		return m.CreateErrorLogFn(ctx, entry)
	}
	return nil
}

func (m *MockGenerationStore) GetGenerationByID(
	ctx context.Context,
	userID, generationID uuid.UUID,
) (*domain.Generation, error) {
	if m.GetGenerationByIDFn != nil {
		return m.GetGenerationByIDFn(ctx, userID, generationID)
	}
	return m.Generation, m.Err
}
