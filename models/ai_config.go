package models

// AIConfig holds the settings for the Gemini-backed header classifier and
// roster summarizer.
type AIConfig struct {
	GeminiKey   string
	GeminiModel string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	TimeoutMs   int
	PromptsDir  string
}

// Enabled reports whether an AI provider is configured. Without a key the
// engine still works: schema resolution runs on the fallback heuristic alone.
func (c *AIConfig) Enabled() bool {
	return c != nil && c.GeminiKey != ""
}
