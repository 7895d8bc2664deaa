package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"goattend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsageRepo struct {
	records []*models.LLMUsage
	err     error
}

func (s *stubUsageRepo) RecordUsage(ctx context.Context, record *models.LLMUsage) error {
	s.records = append(s.records, record)
	return s.err
}

func (s *stubUsageRepo) GetRecent(ctx context.Context, limit int) ([]*models.LLMUsage, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit > len(s.records) {
		limit = len(s.records)
	}
	return s.records[:limit], nil
}

func TestOpsHealthz(t *testing.T) {
	app := NewApp(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	app.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestOpsUsageWithoutLedger(t *testing.T) {
	app := NewApp(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil)
	app.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpsUsage(t *testing.T) {
	repo := &stubUsageRepo{records: []*models.LLMUsage{
		{OperationType: "header_classification", TotalTokens: 120},
		{OperationType: "roster_summary", TotalTokens: 300},
	}}
	app := NewApp(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/usage?limit=1", nil)
	app.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Contains(t, w.Body.String(), "header_classification")
}
