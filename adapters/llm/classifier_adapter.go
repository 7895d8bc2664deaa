// Package llm adapts the Gemini client to the engine's oracle ports. Every
// provider failure is absorbed here: the adapters log and report an absent
// result so the core's fallback paths run, and the pipeline never dies on a
// flaky AI call.
package llm

import (
	"context"
	"log"

	"goattend/ai"
	"goattend/domain/core"
	"goattend/domain/grid"
	"goattend/domain/schema"
	"goattend/internal/usage"
	"goattend/models"
	"goattend/ports"

	"golang.org/x/sync/singleflight"
)

const defaultSampleRows = 30

// HeaderClassifierAdapter implements ports.HeaderClassifier against Gemini,
// with a fingerprint-keyed cache in front and singleflight deduplication so
// concurrent uploads of the same sheet cost one provider call.
type HeaderClassifierAdapter struct {
	client     *ai.StructuredClient[schema.ClassifierResult]
	cache      ports.ClassifierCache
	usage      *usage.Service
	sampleRows int
	group      singleflight.Group
}

// NewHeaderClassifier creates the classifier adapter. cache and recorder may
// be nil.
func NewHeaderClassifier(config *models.AIConfig, cache ports.ClassifierCache, recorder *usage.Service, sampleRows int) *HeaderClassifierAdapter {
	if sampleRows <= 0 {
		sampleRows = defaultSampleRows
	}
	return &HeaderClassifierAdapter{
		client:     ai.NewStructuredClient[schema.ClassifierResult](config),
		cache:      cache,
		usage:      recorder,
		sampleRows: sampleRows,
	}
}

// Classify proposes a header structure for the grid. The returned error is
// informational only; callers treat it the same as an absent result.
func (a *HeaderClassifierAdapter) Classify(ctx context.Context, g grid.RawGrid) (*schema.ClassifierResult, error) {
	sample := g.Sample(a.sampleRows)
	fingerprint := sample.Fingerprint()

	if a.cache != nil {
		cached, err := a.cache.Get(ctx, fingerprint)
		if err != nil {
			log.Printf("[HeaderClassifier] WARNING: cache lookup failed: %v", err)
		} else if cached != nil {
			log.Printf("[HeaderClassifier] Cache hit for fingerprint %.12s", fingerprint.String())
			return cached, nil
		}
	}

	result, err, shared := a.group.Do(fingerprint.String(), func() (interface{}, error) {
		return a.classifyOnce(ctx, sample, fingerprint)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Printf("[HeaderClassifier] Deduplicated concurrent call for fingerprint %.12s", fingerprint.String())
	}
	return result.(*schema.ClassifierResult), nil
}

func (a *HeaderClassifierAdapter) classifyOnce(ctx context.Context, sample grid.RawGrid, fingerprint core.Hash) (*schema.ClassifierResult, error) {
	proposal, usageData, err := a.client.GetJSONResponseFromPrompt(ctx, ai.PromptHeaderInfo, map[string]string{
		"CSV_CONTENT": sample.CSV(),
	})
	a.usage.RecordUsage(ctx, "header_classification", usageData)
	if err != nil {
		log.Printf("[HeaderClassifier] Classification failed, resolver will fall back: %v", err)
		return nil, err
	}

	log.Printf("[HeaderClassifier] Proposal: headerRows=%v nameCol=%d subjects=%d",
		proposal.HeaderRows, proposal.NameColumn, len(proposal.SubjectColumns))

	if a.cache != nil {
		if err := a.cache.Set(ctx, fingerprint, proposal); err != nil {
			log.Printf("[HeaderClassifier] WARNING: cache store failed: %v", err)
		}
	}
	return proposal, nil
}
