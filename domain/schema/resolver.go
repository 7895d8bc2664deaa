package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"goattend/domain/core"
	"goattend/domain/grid"
)

// DefaultScanRows bounds the fallback header scan. Attendance sheets carry a
// short preamble (institution name, term, class) before the header block;
// ten rows covers every sheet the original dataset contained.
const DefaultScanRows = 10

// Resolver validates a classifier proposal against the raw grid and falls
// back to a deterministic header heuristic when the proposal is absent,
// malformed, or out of bounds.
type Resolver struct {
	// ScanRows is the number of leading rows inspected by the fallback
	// header scan.
	ScanRows int
}

// NewResolver creates a resolver with default settings.
func NewResolver() *Resolver {
	return &Resolver{ScanRows: DefaultScanRows}
}

// Resolve produces a TableSchema for the grid. The proposal may be nil; a
// nil or unusable proposal triggers the fallback heuristic. Resolution fails
// with a schema error when neither path yields both a name column and at
// least one subject column.
func (r *Resolver) Resolve(g grid.RawGrid, proposal *ClassifierResult) (TableSchema, error) {
	if g.IsEmpty() {
		return TableSchema{}, core.ErrEmptyGrid
	}

	if proposal != nil {
		if sch, ok := r.adopt(g, proposal); ok {
			return sch, nil
		}
	}

	return r.fallback(g)
}

// adopt validates and materializes a classifier proposal. It reports false
// when the proposal is internally inconsistent, which sends resolution down
// the fallback path rather than failing the request.
func (r *Resolver) adopt(g grid.RawGrid, proposal *ClassifierResult) (TableSchema, bool) {
	rows, cols := g.RowCount(), g.ColCount()

	headerRows := dedupeSortedInts(proposal.HeaderRows)
	if len(headerRows) == 0 {
		return TableSchema{}, false
	}
	for _, hr := range headerRows {
		if hr < 0 || hr >= rows {
			return TableSchema{}, false
		}
	}

	if proposal.NameColumn < 0 || proposal.NameColumn >= cols {
		return TableSchema{}, false
	}
	if len(proposal.SubjectColumns) == 0 {
		return TableSchema{}, false
	}

	candidates := make([]SubjectColumn, len(proposal.SubjectColumns))
	copy(candidates, proposal.SubjectColumns)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ColumnIndex < candidates[j].ColumnIndex
	})

	var subjects []ColumnSpec
	seen := make(map[int]bool)
	for _, cand := range candidates {
		if cand.ColumnIndex < 0 || cand.ColumnIndex >= cols {
			return TableSchema{}, false
		}
		if cand.ColumnIndex == proposal.NameColumn {
			return TableSchema{}, false
		}
		if seen[cand.ColumnIndex] {
			continue
		}
		seen[cand.ColumnIndex] = true

		// Header text from the grid wins over the classifier's label; the
		// multi-level merge keeps names auditable against the sheet itself.
		name := mergeHeaderText(g, headerRows, cand.ColumnIndex)
		if name == "" {
			name = strings.TrimSpace(cand.SubjectName)
		}
		if name == "" {
			continue
		}
		subjects = append(subjects, ColumnSpec{
			Index:       cand.ColumnIndex,
			SubjectName: name,
			Kind:        KindSubject,
		})
	}
	if len(subjects) == 0 {
		return TableSchema{}, false
	}

	return TableSchema{
		HeaderRows:   headerRows,
		NameColumn:   proposal.NameColumn,
		Subjects:     disambiguate(subjects),
		DataStartRow: headerRows[len(headerRows)-1] + 1,
	}, true
}

// fallback locates a single header row by percent-marker density, picks the
// first textual column as the name column, and treats every other column
// with a non-empty header cell as a subject.
func (r *Resolver) fallback(g grid.RawGrid) (TableSchema, error) {
	headerRow, ok := r.findHeaderRow(g)
	if !ok {
		return TableSchema{}, fmt.Errorf("fallback header scan over %d rows: %w", r.scanLimit(g), core.ErrNoSubjectColumns)
	}

	nameCol, ok := findNameColumn(g, headerRow)
	if !ok {
		return TableSchema{}, fmt.Errorf("fallback below header row %d: %w", headerRow, core.ErrNoNameColumn)
	}

	var subjects []ColumnSpec
	for col := 0; col < g.ColCount(); col++ {
		if col == nameCol {
			continue
		}
		header := strings.TrimSpace(g.CellAt(headerRow, col))
		if header == "" {
			continue
		}
		subjects = append(subjects, ColumnSpec{
			Index:       col,
			SubjectName: header,
			Kind:        KindSubject,
		})
	}
	if len(subjects) == 0 {
		return TableSchema{}, fmt.Errorf("header row %d has no labeled columns: %w", headerRow, core.ErrNoSubjectColumns)
	}

	return TableSchema{
		HeaderRows:   []int{headerRow},
		NameColumn:   nameCol,
		Subjects:     disambiguate(subjects),
		DataStartRow: headerRow + 1,
	}, nil
}

func (r *Resolver) scanLimit(g grid.RawGrid) int {
	limit := r.ScanRows
	if limit <= 0 {
		limit = DefaultScanRows
	}
	if limit > g.RowCount() {
		limit = g.RowCount()
	}
	return limit
}

// findHeaderRow scores each leading row by how many of its cells carry a
// percent marker or a numeric value in [0, 100] and returns the densest one.
// Ties go to the earliest row so a label row beats the data row below it.
func (r *Resolver) findHeaderRow(g grid.RawGrid) (int, bool) {
	bestRow, bestScore := -1, 0
	for row := 0; row < r.scanLimit(g); row++ {
		score := 0
		for col := 0; col < g.ColCount(); col++ {
			cell := g.CellAt(row, col)
			if grid.IsBlank(cell) {
				continue
			}
			if strings.Contains(cell, "%") {
				score++
				continue
			}
			if v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil && v >= 0 && v <= 100 {
				score++
			}
		}
		if score > bestScore {
			bestRow, bestScore = row, score
		}
	}
	return bestRow, bestScore > 0
}

// findNameColumn returns the first column whose cells below the header are
// predominantly textual. Numeric-looking columns (scores, IDs, percentages)
// are skipped.
func findNameColumn(g grid.RawGrid, headerRow int) (int, bool) {
	for col := 0; col < g.ColCount(); col++ {
		textual, numeric := 0, 0
		for row := headerRow + 1; row < g.RowCount(); row++ {
			cell := g.CellAt(row, col)
			if grid.IsBlank(cell) {
				continue
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil || strings.Contains(cell, "%") {
				numeric++
			} else {
				textual++
			}
		}
		if textual > 0 && textual > numeric {
			return col, true
		}
	}
	return -1, false
}

// mergeHeaderText concatenates non-empty header cell text for a column,
// top-to-bottom. Blank levels are skipped rather than joined as empty parts.
func mergeHeaderText(g grid.RawGrid, headerRows []int, col int) string {
	var parts []string
	for _, row := range headerRows {
		cell := strings.TrimSpace(g.CellAt(row, col))
		if cell == "" {
			continue
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, "-")
}

// disambiguate suffixes duplicate subject names with a 1-based occurrence
// counter in column order. The first occurrence keeps its bare name.
func disambiguate(subjects []ColumnSpec) []ColumnSpec {
	counts := make(map[string]int, len(subjects))
	out := make([]ColumnSpec, len(subjects))
	for i, spec := range subjects {
		counts[spec.SubjectName]++
		if n := counts[spec.SubjectName]; n > 1 {
			spec.SubjectName = fmt.Sprintf("%s_%d", spec.SubjectName, n)
		}
		out[i] = spec
	}
	return out
}

func dedupeSortedInts(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
