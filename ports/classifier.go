// Package ports defines the narrow interfaces between the attendance core
// and its external collaborators (spreadsheet loader, AI oracle, caches,
// persistence). The core depends only on these, never on providers.
package ports

import (
	"context"

	"goattend/domain/grid"
	"goattend/domain/schema"
)

// HeaderClassifier is the pluggable oracle that proposes a header/column
// structure for a raw grid. Implementations receive a sampled prefix of the
// grid, must complete or fail within a bounded time, and must never hang.
//
// A (nil, nil) return means the oracle has no proposal. The engine treats a
// nil result and an error identically: both send schema resolution down the
// deterministic fallback path, neither is a hard failure by itself.
type HeaderClassifier interface {
	Classify(ctx context.Context, sample grid.RawGrid) (*schema.ClassifierResult, error)
}
