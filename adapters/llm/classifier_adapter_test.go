package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"goattend/domain/core"
	"goattend/domain/grid"
	"goattend/domain/schema"
	"goattend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache is a map-backed ClassifierCache for tests.
type memoryCache struct {
	entries map[string]*schema.ClassifierResult
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*schema.ClassifierResult)}
}

func (c *memoryCache) Get(ctx context.Context, fingerprint core.Hash) (*schema.ClassifierResult, error) {
	return c.entries[fingerprint.String()], nil
}

func (c *memoryCache) Set(ctx context.Context, fingerprint core.Hash, result *schema.ClassifierResult) error {
	c.sets++
	c.entries[fingerprint.String()] = result
	return nil
}

func classifierStub(t *testing.T, handler http.HandlerFunc) *models.AIConfig {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &models.AIConfig{
		GeminiKey:   "test-key",
		GeminiModel: "gemini-2.0-flash",
		BaseURL:     server.URL,
		TimeoutMs:   5000,
	}
}

func proposalBody(t *testing.T, proposal schema.ClassifierResult) string {
	t.Helper()
	text, err := json.Marshal(proposal)
	require.NoError(t, err)

	payload := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": string(text)}},
			}},
		},
		"usageMetadata": map[string]int{
			"promptTokenCount":     50,
			"candidatesTokenCount": 10,
			"totalTokenCount":      60,
		},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(raw)
}

func sampleGrid() grid.RawGrid {
	return grid.New([][]string{
		{"Name", "Physics %"},
		{"Alice", "85"},
	})
}

func TestClassifyReturnsProposal(t *testing.T) {
	var calls int
	config := classifierStub(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(proposalBody(t, schema.ClassifierResult{
			HeaderRows: []int{0},
			NameColumn: 0,
			SubjectColumns: []schema.SubjectColumn{
				{ColumnIndex: 1, SubjectName: "Physics"},
			},
		})))
	})

	adapter := NewHeaderClassifier(config, nil, nil, 0)
	result, err := adapter.Classify(context.Background(), sampleGrid())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, []int{0}, result.HeaderRows)
	assert.Equal(t, 0, result.NameColumn)
	require.Len(t, result.SubjectColumns, 1)
	assert.Equal(t, "Physics", result.SubjectColumns[0].SubjectName)
	assert.Equal(t, 1, calls)
}

func TestClassifyCachesByFingerprint(t *testing.T) {
	var calls int
	config := classifierStub(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(proposalBody(t, schema.ClassifierResult{
			HeaderRows:     []int{0},
			NameColumn:     0,
			SubjectColumns: []schema.SubjectColumn{{ColumnIndex: 1, SubjectName: "Physics"}},
		})))
	})

	cache := newMemoryCache()
	adapter := NewHeaderClassifier(config, cache, nil, 0)

	first, err := adapter.Classify(context.Background(), sampleGrid())
	require.NoError(t, err)
	second, err := adapter.Classify(context.Background(), sampleGrid())
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "identical grids must hit the provider once")
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first, second)
}

func TestClassifyProviderFailure(t *testing.T) {
	config := classifierStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid key"}`, http.StatusForbidden)
	})

	adapter := NewHeaderClassifier(config, nil, nil, 0)
	result, err := adapter.Classify(context.Background(), sampleGrid())
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestClassifySamplesLargeGrids(t *testing.T) {
	var promptLen int
	config := classifierStub(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		promptLen = len(req.Contents[0].Parts[0].Text)
		_, _ = w.Write([]byte(proposalBody(t, schema.ClassifierResult{
			HeaderRows:     []int{0},
			NameColumn:     0,
			SubjectColumns: []schema.SubjectColumn{{ColumnIndex: 1, SubjectName: "Physics"}},
		})))
	})

	rows := [][]string{{"Name", "Physics %"}}
	for i := 0; i < 500; i++ {
		rows = append(rows, []string{"Student", "85"})
	}

	adapter := NewHeaderClassifier(config, nil, nil, 5)
	_, err := adapter.Classify(context.Background(), grid.New(rows))
	require.NoError(t, err)

	// five sampled rows of short cells; far below the full 500-row payload
	assert.Less(t, promptLen, 2000)
}
