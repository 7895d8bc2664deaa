package attendance

import (
	"math"

	"goattend/domain/schema"

	"gonum.org/v1/gonum/stat"
)

// SubjectSummary describes the class-level distribution of one subject's
// usable percentages.
type SubjectSummary struct {
	Subject string  `json:"subject"`
	Count   int     `json:"count"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// ClassSummary aggregates per-subject distributions plus the overall column.
type ClassSummary struct {
	Subjects []SubjectSummary `json:"subjects"`
	Overall  *SubjectSummary  `json:"overall,omitempty"`
}

// Summarize computes class-level statistics over the usable values of each
// subject column, in schema column order. Subjects with no usable values are
// omitted rather than reported as zeros.
func Summarize(records []*StudentRecord, sch schema.TableSchema) ClassSummary {
	var summary ClassSummary

	for _, subject := range sch.Subjects {
		var values []float64
		for _, record := range records {
			if v := record.PerSubject[subject.SubjectName]; v != nil {
				values = append(values, *v)
			}
		}
		if s := summarizeValues(subject.SubjectName, values); s != nil {
			summary.Subjects = append(summary.Subjects, *s)
		}
	}

	var overall []float64
	for _, record := range records {
		if record.Overall != nil {
			overall = append(overall, *record.Overall)
		}
	}
	summary.Overall = summarizeValues("overall", overall)

	return summary
}

func summarizeValues(name string, values []float64) *SubjectSummary {
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	stddev := 0.0
	if len(values) > 1 {
		stddev = math.Sqrt(stat.Variance(values, nil))
	}

	return &SubjectSummary{
		Subject: name,
		Count:   len(values),
		Mean:    round2(stat.Mean(values, nil)),
		StdDev:  round2(stddev),
		Min:     min,
		Max:     max,
	}
}
