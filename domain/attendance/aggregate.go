package attendance

import (
	"strings"

	"goattend/domain/grid"
	"goattend/domain/schema"
)

// Aggregate walks the data rows of the grid and produces one StudentRecord
// per non-empty name cell, with each subject cell normalized independently.
//
// Rows whose name cell is blank are skipped. Rows whose name contains
// "total" are summary rows (total class counts), not students, and are
// skipped too.
func Aggregate(g grid.RawGrid, sch schema.TableSchema) []*StudentRecord {
	var records []*StudentRecord

	for row := sch.DataStartRow; row < g.RowCount(); row++ {
		name := strings.TrimSpace(g.CellAt(row, sch.NameColumn))
		if name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(name), "total") {
			continue
		}

		record := NewStudentRecord(name, row)
		for _, subject := range sch.Subjects {
			record.SetSubject(subject.SubjectName, normalizeCell(g, row, subject.Index))
		}
		records = append(records, record)
	}

	return records
}
