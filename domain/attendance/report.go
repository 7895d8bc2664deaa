package attendance

import (
	"sort"

	"goattend/domain/core"
)

// ShortfallEntry is one student in the low-attendance report.
type ShortfallEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// FilterLow returns the students whose value is strictly below threshold,
// sorted ascending by value with ties kept in sheet order.
//
// With a subject name, the filter runs on that subject's values; with an
// empty subject it runs on the overall percentage. Students with a nil value
// for the chosen dimension are excluded: absence of data is not a shortfall.
//
// A threshold outside [0, 100] fails with core.ErrInvalidThreshold and
// produces no report; the already-computed records stay valid.
func FilterLow(records []*StudentRecord, threshold float64, subject string) ([]ShortfallEntry, error) {
	if threshold < 0 || threshold > 100 {
		return nil, core.NewThresholdError(threshold)
	}

	var entries []ShortfallEntry
	for _, record := range records {
		value := record.Overall
		if subject != "" {
			value = record.PerSubject[subject]
		}
		if value == nil {
			continue
		}
		if *value < threshold {
			entries = append(entries, ShortfallEntry{Name: record.Name, Value: *value})
		}
	}

	// records arrive in sheet order, so a stable sort keeps ties stable.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value < entries[j].Value
	})

	return entries, nil
}
