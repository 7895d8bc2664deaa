package ports

import (
	"context"

	"goattend/models"
)

// LLMUsageRepository persists per-call token usage for the AI oracle.
type LLMUsageRepository interface {
	RecordUsage(ctx context.Context, usage *models.LLMUsage) error
	GetRecent(ctx context.Context, limit int) ([]*models.LLMUsage, error)
}
