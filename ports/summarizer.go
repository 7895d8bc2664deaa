package ports

import (
	"context"

	"goattend/domain/attendance"
)

// RosterSummarizer turns a computed shortfall report into a human-readable
// markdown narrative. It is presentation sugar on top of the deterministic
// report: a failure degrades to an empty summary, never to a failed request.
type RosterSummarizer interface {
	Summarize(ctx context.Context, report []attendance.ShortfallEntry, subject string, threshold float64) (string, error)
}
