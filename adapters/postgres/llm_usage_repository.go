package postgres

import (
	"context"
	"fmt"

	"goattend/models"
	"goattend/ports"

	"github.com/jmoiron/sqlx"
)

// LLMUsageRepositoryImpl implements LLMUsageRepository for PostgreSQL
type LLMUsageRepositoryImpl struct {
	db *sqlx.DB
}

// NewLLMUsageRepository creates a new PostgreSQL LLM usage repository
func NewLLMUsageRepository(db *sqlx.DB) ports.LLMUsageRepository {
	return &LLMUsageRepositoryImpl{db: db}
}

// EnsureSchema creates the usage table when it does not exist yet. The
// ledger is the only persistent state this service keeps, so a single
// idempotent statement replaces a migration runner.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS llm_usage (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			operation_type TEXT NOT NULL,
			prompt_tokens INT NOT NULL,
			completion_tokens INT NOT NULL,
			total_tokens INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure llm_usage table: %w", err)
	}
	return nil
}

// RecordUsage records token usage for one AI call.
func (r *LLMUsageRepositoryImpl) RecordUsage(ctx context.Context, usage *models.LLMUsage) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO llm_usage (
			provider, model, operation_type,
			prompt_tokens, completion_tokens, total_tokens, created_at
		) VALUES (
			:provider, :model, :operation_type,
			:prompt_tokens, :completion_tokens, :total_tokens, :created_at
		)
	`, usage)
	return err
}

// GetRecent returns the most recent usage records.
func (r *LLMUsageRepositoryImpl) GetRecent(ctx context.Context, limit int) ([]*models.LLMUsage, error) {
	if limit <= 0 {
		limit = 50
	}
	var usages []*models.LLMUsage
	err := r.db.SelectContext(ctx, &usages, `
		SELECT id, provider, model, operation_type,
		       prompt_tokens, completion_tokens, total_tokens, created_at
		FROM llm_usage
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	return usages, err
}
