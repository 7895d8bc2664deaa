package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"goattend/models"
)

// StructuredClient provides typed JSON responses from AI calls
type StructuredClient[T any] struct {
	Client  *Client
	Prompts *PromptManager
}

// NewStructuredClient creates a new structured client
func NewStructuredClient[T any](config *models.AIConfig) *StructuredClient[T] {
	return &StructuredClient[T]{
		Client:  NewClient(config),
		Prompts: NewPromptManager(config.PromptsDir),
	}
}

// GetJSONResponse makes a typed AI call and parses the JSON response.
func (sc *StructuredClient[T]) GetJSONResponse(ctx context.Context, prompt string) (*T, *models.UsageData, error) {
	text, usage, err := sc.Client.GenerateText(ctx, prompt, true)
	if err != nil {
		return nil, usage, err
	}

	content := cleanJSONContent(text)
	log.Printf("[StructuredClient] Raw content %d bytes, cleaned %d bytes", len(text), len(content))

	var result T
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, usage, fmt.Errorf("failed to parse JSON content into result type: %w\nCleaned content: %s", err, content)
	}
	return &result, usage, nil
}

// GetJSONResponseFromPrompt renders a named prompt template and gets a
// structured response.
func (sc *StructuredClient[T]) GetJSONResponseFromPrompt(ctx context.Context, promptName string, replacements map[string]string) (*T, *models.UsageData, error) {
	prompt, err := sc.Prompts.RenderPrompt(promptName, replacements)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load/render prompt: %w", err)
	}
	return sc.GetJSONResponse(ctx, prompt)
}

// cleanJSONContent strips markdown code fences and surrounding chatter,
// keeping the outermost JSON object. Models occasionally wrap structured
// output in prose even when asked not to.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	// Cut to the outermost object, tolerating prefix/suffix chatter.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}

	return strings.TrimSpace(content)
}
