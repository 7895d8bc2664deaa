package ports

import (
	"context"

	"goattend/domain/core"
	"goattend/domain/schema"
)

// ClassifierCache stores classifier proposals keyed by grid fingerprint so
// re-uploads of the same sheet do not hit the AI provider again. Get returns
// (nil, nil) on a miss. Cache failures are advisory: callers log and carry
// on with a live classifier call.
type ClassifierCache interface {
	Get(ctx context.Context, fingerprint core.Hash) (*schema.ClassifierResult, error)
	Set(ctx context.Context, fingerprint core.Hash, result *schema.ClassifierResult) error
}
