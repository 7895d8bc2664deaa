package usage

import (
	"context"
	"testing"

	"goattend/models"
)

func TestRecordUsageIsNilSafe(t *testing.T) {
	ctx := context.Background()

	// nil usage data is a no-op
	NewService(nil).RecordUsage(ctx, "header_classification", nil)

	// a nil service must not panic either; adapters call through it blindly
	var s *Service
	s.RecordUsage(ctx, "header_classification", &models.UsageData{TotalTokens: 10})
}

func TestRecordUsageRejectsNegativeCounts(t *testing.T) {
	// negative counts are logged and dropped, never persisted
	NewService(nil).RecordUsage(context.Background(), "roster_summary", &models.UsageData{
		PromptTokens: -1,
		TotalTokens:  -1,
	})
}
