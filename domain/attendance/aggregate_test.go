package attendance

import (
	"testing"

	"goattend/domain/grid"
	"goattend/domain/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() schema.TableSchema {
	return schema.TableSchema{
		HeaderRows: []int{0},
		NameColumn: 0,
		Subjects: []schema.ColumnSpec{
			{Index: 1, SubjectName: "Physics %", Kind: schema.KindSubject},
			{Index: 2, SubjectName: "Chem %", Kind: schema.KindSubject},
		},
		DataStartRow: 1,
	}
}

func TestAggregate(t *testing.T) {
	g := grid.New([][]string{
		{"Name", "Physics %", "Chem %"},
		{"Alice", "85", "0.9"},
		{"Bob", "", "70"},
	})

	records := Aggregate(g, testSchema())
	require.Len(t, records, 2)

	alice := records[0]
	assert.Equal(t, "Alice", alice.Name)
	require.NotNil(t, alice.PerSubject["Physics %"])
	assert.Equal(t, 85.0, *alice.PerSubject["Physics %"])
	require.NotNil(t, alice.PerSubject["Chem %"])
	assert.Equal(t, 90.0, *alice.PerSubject["Chem %"])
	require.NotNil(t, alice.Overall)
	assert.Equal(t, 87.5, *alice.Overall)

	bob := records[1]
	assert.Equal(t, "Bob", bob.Name)
	assert.Nil(t, bob.PerSubject["Physics %"])
	require.NotNil(t, bob.Overall)
	assert.Equal(t, 70.0, *bob.Overall)
}

func TestAggregateSkipsBlankAndTotalRows(t *testing.T) {
	g := grid.New([][]string{
		{"Name", "Physics %", "Chem %"},
		{"Alice", "85", "90"},
		{"", "12", "34"},
		{"   ", "56", "78"},
		{"Total", "141", "202"},
		{"Grand total", "141", "202"},
	})

	records := Aggregate(g, testSchema())
	require.Len(t, records, 1)
	assert.Equal(t, "Alice", records[0].Name)
}

func TestAggregateAllUnusableMeansNilOverall(t *testing.T) {
	g := grid.New([][]string{
		{"Name", "Physics %", "Chem %"},
		{"Alice", "N/A", ""},
	})

	records := Aggregate(g, testSchema())
	require.Len(t, records, 1)
	assert.Nil(t, records[0].PerSubject["Physics %"])
	assert.Nil(t, records[0].PerSubject["Chem %"])
	assert.Nil(t, records[0].Overall, "a row with no usable cells has no overall, not a zero")
}

func TestAggregatePreservesSheetOrder(t *testing.T) {
	g := grid.New([][]string{
		{"Name", "Physics %", "Chem %"},
		{"Zoe", "50", "50"},
		{"Adam", "60", "60"},
	})

	records := Aggregate(g, testSchema())
	require.Len(t, records, 2)
	assert.Equal(t, "Zoe", records[0].Name)
	assert.Equal(t, 1, records[0].RowIndex())
	assert.Equal(t, "Adam", records[1].Name)
	assert.Equal(t, 2, records[1].RowIndex())
}
