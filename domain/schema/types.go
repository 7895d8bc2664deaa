// Package schema turns an unstructured grid into a table schema: which rows
// are headers, which column names the student, and which columns carry
// per-subject attendance percentages.
package schema

// ColumnKind classifies a resolved column.
type ColumnKind string

const (
	KindSubject     ColumnKind = "subject"
	KindStudentName ColumnKind = "student_name"
	KindIgnored     ColumnKind = "ignored"
)

// ColumnSpec describes one resolved column of the table.
type ColumnSpec struct {
	Index       int        `json:"column_index"`
	SubjectName string     `json:"subject_name"`
	Kind        ColumnKind `json:"kind"`
}

// SubjectColumn is a classifier-proposed subject column.
type SubjectColumn struct {
	ColumnIndex int    `json:"column_index"`
	SubjectName string `json:"subject_name"`
}

// ClassifierResult is the structured proposal returned by the header
// classifier oracle. All indices are zero-based grid coordinates. The
// resolver validates it against the grid before adopting it; a nil result
// means the oracle had nothing to offer and the fallback heuristic runs.
type ClassifierResult struct {
	HeaderRows     []int           `json:"header_row_indices"`
	SubjectColumns []SubjectColumn `json:"subject_columns"`
	NameColumn     int             `json:"name_column_index"`
}

// TableSchema is the resolved structure of an attendance sheet.
//
// Invariants (enforced by the resolver):
//   - DataStartRow is one past the maximum header row index
//   - NameColumn never appears among Subjects
//   - Subject names are unique
type TableSchema struct {
	HeaderRows   []int        `json:"header_row_indices"`
	NameColumn   int          `json:"name_column_index"`
	Subjects     []ColumnSpec `json:"subject_columns"`
	DataStartRow int          `json:"data_start_row"`
}

// SubjectNames returns subject names in column order.
func (s TableSchema) SubjectNames() []string {
	names := make([]string, len(s.Subjects))
	for i, col := range s.Subjects {
		names[i] = col.SubjectName
	}
	return names
}

// SubjectByName looks up a subject column by its resolved name.
func (s TableSchema) SubjectByName(name string) (ColumnSpec, bool) {
	for _, col := range s.Subjects {
		if col.SubjectName == name {
			return col, true
		}
	}
	return ColumnSpec{}, false
}
