package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cardforge/cardforge-api/internal/domain"
	"github.com/cardforge/cardforge-api/internal/platform/logger"
	"github.com/cardforge/cardforge-api/internal/store"
)

// PostgresGenerationStore implements the store.GenerationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationStore creates a new PostgreSQL implementation of the
// GenerationStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller. If
// logger is nil, a default logger will be used.
func NewPostgresGenerationStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_store")),
	}
}

// Ensure PostgresGenerationStore implements store.GenerationStore interface
var _ store.GenerationStore = (*PostgresGenerationStore)(nil)

// CreateGeneration implements store.GenerationStore.CreateGeneration
func (s *PostgresGenerationStore) CreateGeneration(
	ctx context.Context,
	generation *domain.Generation,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := generation.Validate(); err != nil {
		log.Warn("generation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("generation_id", generation.ID.String()))
		return err
	}

	query := `
		INSERT INTO generations
			(id, user_id, model, generated_count, source_text_hash,
			 source_text_length, generation_duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		generation.ID,
		generation.UserID,
		generation.Model,
		generation.GeneratedCount,
		generation.SourceTextHash,
		generation.SourceTextLength,
		generation.GenerationDurationMs,
		generation.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create generation record",
			slog.String("error", err.Error()),
			slog.String("generation_id", generation.ID.String()),
			slog.String("user_id", generation.UserID.String()))
		return MapError(err)
	}

	log.Info("generation record created",
		slog.String("generation_id", generation.ID.String()),
		slog.String("user_id", generation.UserID.String()),
		slog.Int("generated_count", generation.GeneratedCount))
	return nil
}

// CreateErrorLog implements store.GenerationStore.CreateErrorLog
func (s *PostgresGenerationStore) CreateErrorLog(
	ctx context.Context,
	entry *domain.GenerationErrorLog,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("error log validation failed during create",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return err
	}

	query := `
		INSERT INTO generation_error_logs
			(id, user_id, error_code, error_message, model,
			 source_text_hash, source_text_length, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.ErrorCode,
		entry.ErrorMessage,
		entry.Model,
		entry.SourceTextHash,
		entry.SourceTextLength,
		entry.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create generation error log",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()),
			slog.String("user_id", entry.UserID.String()))
		return MapError(err)
	}

	log.Info("generation error log created",
		slog.String("entry_id", entry.ID.String()),
		slog.String("user_id", entry.UserID.String()),
		slog.String("error_code", entry.ErrorCode))
	return nil
}

// GetGenerationByID implements store.GenerationStore.GetGenerationByID
// Returns store.ErrGenerationNotFound if the record does not exist or
// belongs to a different user.
func (s *PostgresGenerationStore) GetGenerationByID(
	ctx context.Context,
	userID, generationID uuid.UUID,
) (*domain.Generation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, model, generated_count, source_text_hash,
		       source_text_length, generation_duration_ms, created_at
		FROM generations
		WHERE id = $1 AND user_id = $2
	`

	var generation domain.Generation
	err := s.db.QueryRowContext(ctx, query, generationID, userID).Scan(
		&generation.ID,
		&generation.UserID,
		&generation.Model,
		&generation.GeneratedCount,
		&generation.SourceTextHash,
		&generation.SourceTextLength,
		&generation.GenerationDurationMs,
		&generation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("generation not found",
				slog.String("generation_id", generationID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrGenerationNotFound
		}
		log.Error("failed to get generation by ID",
			slog.String("error", err.Error()),
			slog.String("generation_id", generationID.String()))
		return nil, MapError(err)
	}

	return &generation, nil
}
