// Package attendance computes normalized attendance percentages and the
// low-attendance report from a resolved table schema.
package attendance

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"goattend/domain/grid"
)

// numberPattern extracts the numeric part of strings like "85%", "72.5 %".
var numberPattern = regexp.MustCompile(`[-+]?[0-9]*\.?[0-9]+`)

// Normalize converts an arbitrary cell representation of a percentage into a
// canonical value in [0, 100], or nil when the cell is unusable. It never
// fails: a malformed cell degrades to missing data instead of aborting the
// sheet.
//
// Rules, first match wins:
//  1. blank cell                -> nil
//  2. numeric in [0, 1]        -> value * 100 (fraction)
//  3. numeric in (1, 100]      -> value as-is
//  4. numeric outside [0, 100] -> nil (corrupt, never clamped)
//  5. percent-marker string    -> parse the number, re-apply 2-4
//  6. any other string         -> strict numeric parse, else nil
//
// A bare 1.0 is deliberately read as a fraction (100%), per rule ordering.
func Normalize(cell string) *float64 {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}

	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return normalizeNumber(v)
	}

	if strings.Contains(trimmed, "%") {
		match := numberPattern.FindString(trimmed)
		if match == "" {
			return nil
		}
		v, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return nil
		}
		return normalizeNumber(v)
	}

	return nil
}

// normalizeNumber applies the numeric rules 2-4 to an already-parsed value.
func normalizeNumber(v float64) *float64 {
	switch {
	case v >= 0 && v <= 1:
		return ptr(round2(v * 100))
	case v > 1 && v <= 100:
		return ptr(round2(v))
	default:
		return nil
	}
}

// round2 rounds to two decimal places, matching the precision the result
// table presents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 {
	return &v
}

// normalizeCell is a convenience for grid lookups.
func normalizeCell(g grid.RawGrid, row, col int) *float64 {
	return Normalize(g.CellAt(row, col))
}
