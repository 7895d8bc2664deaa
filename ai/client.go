package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"goattend/models"
)

const (
	// maxAttempts and retryDelay match the provider's observed failure
	// profile: transient 5xx responses clear within a few seconds.
	maxAttempts = 3
	retryDelay  = 5 * time.Second

	providerName = "gemini"
)

// Client is a thin Gemini generateContent client. It retries transient
// failures and reports token usage alongside the generated text.
type Client struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration

	httpClient *http.Client
}

// NewClient creates a Gemini client from AI configuration.
func NewClient(config *models.AIConfig) *Client {
	timeout := time.Duration(config.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	log.Printf("[AIClient] Initializing client with model=%s, temp=%.2f, maxTokens=%d, timeout=%v",
		config.GeminiModel, config.Temperature, config.MaxTokens, timeout)

	return &Client{
		APIKey:      config.GeminiKey,
		BaseURL:     config.BaseURL,
		Model:       config.GeminiModel,
		Temperature: config.Temperature,
		MaxTokens:   config.MaxTokens,
		Timeout:     timeout,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type contentPart struct {
	Text string `json:"text"`
}

type content struct {
	Role  string        `json:"role,omitempty"`
	Parts []contentPart `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// GenerateText sends one prompt and returns the generated text. jsonMode
// forces an application/json response from the model, used for structured
// output.
func (c *Client) GenerateText(ctx context.Context, prompt string, jsonMode bool) (string, *models.UsageData, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	reqBody := generateRequest{
		Contents: []content{{Role: "user", Parts: []contentPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.Temperature,
			MaxOutputTokens: c.MaxTokens,
		},
	}
	if jsonMode {
		reqBody.GenerationConfig.ResponseMimeType = "application/json"
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	log.Printf("[AIClient] Sending request to %s - promptLength=%d, jsonMode=%v", c.Model, len(prompt), jsonMode)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, err := c.doRequest(ctx, url, payload)
		if err == nil {
			return c.parseResponse(body)
		}
		lastErr = err

		if !isRetryable(err) || attempt == maxAttempts {
			break
		}
		log.Printf("[AIClient] Attempt %d/%d failed (%v), retrying in %v", attempt, maxAttempts, err, retryDelay)
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return "", nil, fmt.Errorf("request cancelled while waiting to retry: %w", ctx.Err())
		}
	}

	return "", nil, fmt.Errorf("gemini request failed after %d attempts: %w", maxAttempts, lastErr)
}

// retryableError marks server-side and transport failures worth retrying.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	_, ok := err.(*retryableError)
	return ok
}

func (c *Client) doRequest(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request timeout: %w", err)
		}
		return nil, &retryableError{fmt.Errorf("transport error: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, &retryableError{fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(body))}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *Client) parseResponse(body []byte) (string, *models.UsageData, error) {
	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", nil, fmt.Errorf("failed to parse gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", nil, fmt.Errorf("no candidates in gemini response: %s", string(body))
	}

	usage := &models.UsageData{
		PromptTokens:     parsed.UsageMetadata.PromptTokenCount,
		CompletionTokens: parsed.UsageMetadata.CandidatesTokenCount,
		TotalTokens:      parsed.UsageMetadata.TotalTokenCount,
		Model:            c.Model,
		Provider:         providerName,
	}

	return parsed.Candidates[0].Content.Parts[0].Text, usage, nil
}
