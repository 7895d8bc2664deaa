package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"goattend/ai"
	"goattend/domain/attendance"
	"goattend/internal/usage"
	"goattend/models"
)

// RosterSummarizerAdapter implements ports.RosterSummarizer: it asks the
// model for a markdown narrative of an already-computed shortfall report.
// The numbers in the prompt are the engine's own output, so the model has
// nothing to compute, only to phrase.
type RosterSummarizerAdapter struct {
	client  *ai.Client
	prompts *ai.PromptManager
	usage   *usage.Service
}

// NewRosterSummarizer creates the summarizer adapter. recorder may be nil.
func NewRosterSummarizer(config *models.AIConfig, recorder *usage.Service) *RosterSummarizerAdapter {
	return &RosterSummarizerAdapter{
		client:  ai.NewClient(config),
		prompts: ai.NewPromptManager(config.PromptsDir),
		usage:   recorder,
	}
}

// Summarize produces a markdown summary of the shortfall report.
func (a *RosterSummarizerAdapter) Summarize(ctx context.Context, report []attendance.ShortfallEntry, subject string, threshold float64) (string, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	dimension := "overall"
	if subject != "" {
		dimension = subject
	}

	prompt, err := a.prompts.RenderPrompt(ai.PromptRosterSummary, map[string]string{
		"REPORT_JSON": string(reportJSON),
		"DIMENSION":   dimension,
		"THRESHOLD":   fmt.Sprintf("%.1f", threshold),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render summary prompt: %w", err)
	}

	text, usageData, err := a.client.GenerateText(ctx, prompt, false)
	a.usage.RecordUsage(ctx, "roster_summary", usageData)
	if err != nil {
		log.Printf("[RosterSummarizer] Summary generation failed: %v", err)
		return "", err
	}
	return text, nil
}
