package attendance

import (
	"time"

	"goattend/domain/core"
	"goattend/domain/schema"

	"github.com/montanaflynn/stats"
)

// StudentRecord holds one student's normalized per-subject percentages and
// the derived overall percentage. A nil subject value means the cell was
// unusable or missing; it is excluded from the overall mean, never counted
// as zero.
type StudentRecord struct {
	Name       string              `json:"name"`
	PerSubject map[string]*float64 `json:"per_subject"`
	Overall    *float64            `json:"overall"`

	// rowIndex preserves the sheet position for stable report ordering.
	rowIndex int
}

// NewStudentRecord creates an empty record for a student at the given grid row.
func NewStudentRecord(name string, rowIndex int) *StudentRecord {
	return &StudentRecord{
		Name:       name,
		PerSubject: make(map[string]*float64),
		rowIndex:   rowIndex,
	}
}

// SetSubject stores a normalized subject value (possibly nil) and recomputes
// the overall percentage. Overall is derived state only; it is never written
// directly.
func (r *StudentRecord) SetSubject(subject string, value *float64) {
	r.PerSubject[subject] = value
	r.recomputeOverall()
}

// RowIndex returns the grid row this record came from.
func (r *StudentRecord) RowIndex() int {
	return r.rowIndex
}

func (r *StudentRecord) recomputeOverall() {
	var usable []float64
	for _, v := range r.PerSubject {
		if v != nil {
			usable = append(usable, *v)
		}
	}
	if len(usable) == 0 {
		r.Overall = nil
		return
	}
	mean, err := stats.Mean(usable)
	if err != nil {
		r.Overall = nil
		return
	}
	r.Overall = ptr(round2(mean))
}

// AnalysisResult is the engine's terminal output for one upload.
type AnalysisResult struct {
	ID         core.AnalysisID    `json:"analysis_id"`
	Source     string             `json:"source"`
	Schema     schema.TableSchema `json:"schema"`
	Students   []*StudentRecord   `json:"students"`
	AnalyzedAt time.Time          `json:"analyzed_at"`
}
