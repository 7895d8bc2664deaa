package app

import (
	"context"
	"log"
	"time"

	"goattend/domain/attendance"
	"goattend/domain/core"
	"goattend/domain/grid"
	"goattend/domain/schema"
	apperrors "goattend/internal/errors"
	"goattend/ports"
)

// AnalysisService runs the attendance pipeline end to end: load grid, ask
// the classifier oracle, resolve the schema, aggregate students. One call
// per upload; the service holds no per-request state, so a single instance
// serves concurrent requests.
type AnalysisService struct {
	loader     ports.GridLoader
	classifier ports.HeaderClassifier
	summarizer ports.RosterSummarizer
	resolver   *schema.Resolver
}

// NewAnalysisService wires the pipeline. classifier and summarizer may be
// nil; without them the engine runs on the deterministic fallback alone.
func NewAnalysisService(loader ports.GridLoader, classifier ports.HeaderClassifier, summarizer ports.RosterSummarizer, resolver *schema.Resolver) *AnalysisService {
	if resolver == nil {
		resolver = schema.NewResolver()
	}
	return &AnalysisService{
		loader:     loader,
		classifier: classifier,
		summarizer: summarizer,
		resolver:   resolver,
	}
}

// AnalyzeFile loads a spreadsheet from disk and analyzes it.
func (s *AnalysisService) AnalyzeFile(ctx context.Context, path string) (*attendance.AnalysisResult, error) {
	g, err := s.loader.Load(path)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to load spreadsheet %s", path)
	}
	return s.AnalyzeGrid(ctx, g, path)
}

// AnalyzeGrid analyzes an already-loaded grid. The classifier's proposal is
// advisory: a failed or absent oracle call sends resolution down the
// fallback heuristic, never fails the request.
func (s *AnalysisService) AnalyzeGrid(ctx context.Context, g grid.RawGrid, source string) (*attendance.AnalysisResult, error) {
	var proposal *schema.ClassifierResult
	if s.classifier != nil {
		result, err := s.classifier.Classify(ctx, g)
		if err != nil {
			log.Printf("[AnalysisService] Classifier unavailable, using fallback heuristic: %v", err)
		} else {
			proposal = result
		}
	}

	sch, err := s.resolver.Resolve(g, proposal)
	if err != nil {
		return nil, apperrors.SchemaUnresolved(err)
	}

	students := attendance.Aggregate(g, sch)
	log.Printf("[AnalysisService] Resolved %d subject columns, aggregated %d students (source=%s)",
		len(sch.Subjects), len(students), source)

	return &attendance.AnalysisResult{
		ID:         core.NewAnalysisID(),
		Source:     source,
		Schema:     sch,
		Students:   students,
		AnalyzedAt: time.Now(),
	}, nil
}

// LowAttendance produces the shortfall report for a result. subject may be
// empty to filter on the overall percentage.
func (s *AnalysisService) LowAttendance(result *attendance.AnalysisResult, threshold float64, subject string) ([]attendance.ShortfallEntry, error) {
	report, err := attendance.FilterLow(result.Students, threshold, subject)
	if err != nil {
		return nil, apperrors.ThresholdInvalid(err)
	}
	return report, nil
}

// Summarize asks the roster summarizer for a markdown narrative of the
// report. Absent summarizer or a provider failure yields an empty summary.
func (s *AnalysisService) Summarize(ctx context.Context, report []attendance.ShortfallEntry, subject string, threshold float64) string {
	if s.summarizer == nil {
		return ""
	}
	summary, err := s.summarizer.Summarize(ctx, report, subject, threshold)
	if err != nil {
		log.Printf("[AnalysisService] Summary unavailable: %v", err)
		return ""
	}
	return summary
}
