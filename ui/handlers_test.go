package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"goattend/adapters/excel"
	"goattend/app"
	apperrors "goattend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	service := app.NewAnalysisService(excel.NewLoader(), nil, nil, nil)
	return NewServer(service, 10, gin.TestMode)
}

func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if filename != "" {
		part, err := writer.CreateFormFile("sheet", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

const sampleCSV = "Name,Physics %,Chem %\nA,85,0.9\nB,,70\n"

func TestHandleAnalyze(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := uploadRequest(t, "class.csv", sampleCSV, map[string]string{"threshold": "80"})
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.AnalysisID)
	assert.Equal(t, "class.csv", resp.Source)
	assert.Equal(t, 80.0, resp.Threshold)
	assert.Equal(t, []string{"Physics %", "Chem %"}, resp.Subjects)
	require.Len(t, resp.Students, 2)

	overall, ok := resp.Shortfall[OverallKey]
	require.True(t, ok)
	require.Len(t, overall, 1)
	assert.Equal(t, "B", overall[0].Name)
	assert.Equal(t, 70.0, overall[0].Value)

	// per-subject reports exist for every resolved subject
	physics, ok := resp.Shortfall["Physics %"]
	require.True(t, ok)
	assert.Empty(t, physics, "B has no Physics value, absence is not a shortfall")

	chem, ok := resp.Shortfall["Chem %"]
	require.True(t, ok)
	require.Len(t, chem, 1)
	assert.Equal(t, "B", chem[0].Name)

	require.NotNil(t, resp.ClassSummary.Overall)
	assert.Equal(t, 2, resp.ClassSummary.Overall.Count)
}

func TestHandleAnalyzeDefaultThreshold(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := uploadRequest(t, "class.csv", sampleCSV, nil)
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, DefaultThreshold, resp.Threshold)
}

func TestHandleAnalyzeInvalidThreshold(t *testing.T) {
	server := newTestServer(t)

	for _, raw := range []string{"150", "-3"} {
		w := httptest.NewRecorder()
		req := uploadRequest(t, "class.csv", sampleCSV, map[string]string{"threshold": raw})
		server.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), apperrors.CodeInvalidThreshold)
	}

	w := httptest.NewRecorder()
	req := uploadRequest(t, "class.csv", sampleCSV, map[string]string{"threshold": "lots"})
	server.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodeInvalidInput)
}

func TestHandleAnalyzeNoFile(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := uploadRequest(t, "", "", map[string]string{"threshold": "80"})
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file uploaded")
}

func TestHandleAnalyzeRejectsUnknownExtension(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := uploadRequest(t, "class.pdf", "not a spreadsheet", nil)
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodeInvalidInput)
}

func TestHandleAnalyzeUnresolvableSheet(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := uploadRequest(t, "prose.csv", "just,prose\nno,numbers\n", nil)
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodeSchemaError)
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
