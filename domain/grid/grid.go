// Package grid holds the raw spreadsheet representation shared by the loader,
// the classifier adapter and the schema resolver. A RawGrid is created once
// per upload and never mutated afterwards.
package grid

import (
	"bytes"
	"encoding/csv"
	"strings"

	"goattend/domain/core"
)

// RawGrid is an immutable rows-by-columns view of a spreadsheet. Cells are
// kept as the strings the loader produced; numeric interpretation is the
// normalizer's job, not the grid's.
type RawGrid struct {
	rows [][]string
}

// New builds a RawGrid from raw rows. The rows are copied so later mutation
// of the caller's slices cannot leak into the grid.
func New(rows [][]string) RawGrid {
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = make([]string, len(row))
		copy(copied[i], row)
	}
	return RawGrid{rows: copied}
}

// RowCount returns the number of rows in the grid.
func (g RawGrid) RowCount() int {
	return len(g.rows)
}

// ColCount returns the widest row's length. Rows may be ragged; CellAt treats
// missing trailing cells as blank.
func (g RawGrid) ColCount() int {
	max := 0
	for _, row := range g.rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// CellAt returns the cell at (row, col), or "" when the coordinate falls
// outside the grid or beyond a ragged row's end.
func (g RawGrid) CellAt(row, col int) string {
	if row < 0 || row >= len(g.rows) {
		return ""
	}
	if col < 0 || col >= len(g.rows[row]) {
		return ""
	}
	return g.rows[row][col]
}

// IsEmpty reports whether the grid has no rows.
func (g RawGrid) IsEmpty() bool {
	return len(g.rows) == 0
}

// Sample returns a grid containing at most maxRows leading rows. Used to
// bound the payload sent to the header classifier.
func (g RawGrid) Sample(maxRows int) RawGrid {
	if maxRows <= 0 || maxRows >= len(g.rows) {
		return g
	}
	return RawGrid{rows: g.rows[:maxRows]}
}

// Fingerprint returns a stable content hash of the grid, used as the cache
// and deduplication key for classifier calls.
func (g RawGrid) Fingerprint() core.Hash {
	var b strings.Builder
	for _, row := range g.rows {
		for _, cell := range row {
			b.WriteString(cell)
			b.WriteByte(0x1f) // unit separator
		}
		b.WriteByte(0x1e) // record separator
	}
	return core.NewHash([]byte(b.String()))
}

// CSV renders the grid as CSV text for inclusion in classifier prompts.
func (g RawGrid) CSV() string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range g.rows {
		// WriteAll would also work but we want to keep going on short rows.
		_ = w.Write(row)
	}
	w.Flush()
	return buf.String()
}

// IsBlank reports whether a cell is empty or whitespace-only.
func IsBlank(cell string) bool {
	return strings.TrimSpace(cell) == ""
}
