package models

import (
	"time"

	"github.com/google/uuid"
)

// LLMUsage represents a single AI API call's token usage
type LLMUsage struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Provider         string    `json:"provider" db:"provider"` // 'gemini'
	Model            string    `json:"model" db:"model"`
	OperationType    string    `json:"operation_type" db:"operation_type"` // 'header_classification', 'roster_summary'
	PromptTokens     int       `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens" db:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens" db:"total_tokens"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// UsageData represents raw usage data from the provider API
type UsageData struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
	Provider         string `json:"provider"`
}
