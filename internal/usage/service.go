package usage

import (
	"context"
	"log"
	"time"

	"goattend/models"
	"goattend/ports"
)

// Service handles AI token-usage tracking and persistence. With a nil
// repository it degrades to logging only, so callers never need to branch.
type Service struct {
	repo ports.LLMUsageRepository
}

// NewService creates a new usage service
func NewService(repo ports.LLMUsageRepository) *Service {
	return &Service{repo: repo}
}

// RecordUsage records token usage for one AI call. Tracking problems are
// logged and swallowed: usage accounting must never fail an analysis.
func (s *Service) RecordUsage(ctx context.Context, operationType string, usage *models.UsageData) {
	if usage == nil {
		return
	}
	if usage.PromptTokens < 0 || usage.CompletionTokens < 0 || usage.TotalTokens < 0 {
		log.Printf("[UsageService] ERROR: invalid token counts: %+v", usage)
		return
	}

	log.Printf("[UsageService] %s: model=%s prompt=%d completion=%d total=%d",
		operationType, usage.Model, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)

	if s == nil || s.repo == nil {
		return
	}

	record := &models.LLMUsage{
		Provider:         usage.Provider,
		Model:            usage.Model,
		OperationType:    operationType,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
		CreatedAt:        time.Now(),
	}

	// Async persistence to avoid blocking classifier calls
	go func() {
		if err := s.persistWithRetry(record); err != nil {
			log.Printf("[UsageService] ERROR: failed to persist usage after retries: %v", err)
		}
	}()
}

// persistWithRetry attempts to persist usage with linear backoff
func (s *Service) persistWithRetry(record *models.LLMUsage) error {
	const maxRetries = 3
	const baseDelay = 100 * time.Millisecond

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err = s.repo.RecordUsage(context.Background(), record); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempt+1) * baseDelay)
	}
	return err
}
