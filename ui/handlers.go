package ui

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"goattend/domain/attendance"
	"goattend/domain/core"
	apperrors "goattend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
)

// OverallKey is the shortfall map key for the cross-subject report.
const OverallKey = "OVERALL"

// DefaultThreshold mirrors the attendance requirement the original sheets
// were audited against.
const DefaultThreshold = 75.0

// analyzeResponse is the full per-request result. Nothing here survives the
// request: re-upload to re-analyze.
type analyzeResponse struct {
	AnalysisID   string                                 `json:"analysis_id"`
	Source       string                                 `json:"source"`
	Threshold    float64                                `json:"threshold"`
	Subjects     []string                               `json:"subjects"`
	Students     []*attendance.StudentRecord            `json:"students"`
	ClassSummary attendance.ClassSummary                `json:"class_summary"`
	Shortfall    map[string][]attendance.ShortfallEntry `json:"shortfall"`
	SummaryMD    string                                 `json:"summary_markdown,omitempty"`
	SummaryHTML  string                                 `json:"summary_html,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze accepts a multipart spreadsheet upload plus a threshold and
// returns the analysis result with per-subject and overall shortfall reports.
func (s *Server) handleAnalyze(c *gin.Context) {
	log.Printf("[handleAnalyze] Starting analysis request")

	threshold := DefaultThreshold
	if raw := c.PostForm("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a number", "code": apperrors.CodeInvalidInput})
			return
		}
		threshold = parsed
	}
	if threshold < 0 || threshold > 100 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": core.NewThresholdError(threshold).Error(),
			"code":  apperrors.CodeInvalidThreshold,
		})
		return
	}

	file, header, err := c.Request.FormFile("sheet")
	if err != nil {
		log.Printf("[handleAnalyze] FAILED - No file uploaded: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded", "code": apperrors.CodeInvalidInput})
		return
	}
	defer file.Close()

	if header.Size > s.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File size (%.1f MB) exceeds the %d MB limit",
				float64(header.Size)/(1024*1024), s.maxUploadBytes/(1024*1024)),
			"code": apperrors.CodeInvalidInput,
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".xlsx", ".xls", ".csv":
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Only Excel (.xlsx, .xls) and CSV (.csv) files are allowed",
			"code":  apperrors.CodeInvalidInput,
		})
		return
	}

	// Spool to a temp file for the loader; removed before the response goes
	// out, nothing is persisted past the request.
	tmp, err := os.CreateTemp("", "goattend-upload-*"+ext)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to buffer upload", "code": apperrors.CodeInternalError})
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.ReadFrom(file); err != nil {
		tmp.Close()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to buffer upload", "code": apperrors.CodeInternalError})
		return
	}
	tmp.Close()

	result, err := s.analysis.AnalyzeFile(c.Request.Context(), tmpPath)
	if err != nil {
		log.Printf("[handleAnalyze] FAILED - %v", err)
		status := http.StatusInternalServerError
		if apperrors.GetCode(err) == apperrors.CodeSchemaError {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error(), "code": apperrors.GetCode(err)})
		return
	}

	resp := analyzeResponse{
		AnalysisID:   result.ID.String(),
		Source:       header.Filename,
		Threshold:    threshold,
		Subjects:     result.Schema.SubjectNames(),
		Students:     result.Students,
		ClassSummary: attendance.Summarize(result.Students, result.Schema),
		Shortfall:    make(map[string][]attendance.ShortfallEntry),
	}

	for _, subject := range result.Schema.SubjectNames() {
		report, err := s.analysis.LowAttendance(result, threshold, subject)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": apperrors.GetCode(err)})
			return
		}
		resp.Shortfall[subject] = report
	}
	overall, err := s.analysis.LowAttendance(result, threshold, "")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": apperrors.GetCode(err)})
		return
	}
	resp.Shortfall[OverallKey] = overall

	if c.PostForm("with_summary") == "true" {
		if md := s.analysis.Summarize(c.Request.Context(), overall, "", threshold); md != "" {
			resp.SummaryMD = md
			resp.SummaryHTML = string(markdown.ToHTML([]byte(md), nil, nil))
		}
	}

	c.JSON(http.StatusOK, resp)
}
