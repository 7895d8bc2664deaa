package attendance

import (
	"testing"

	"goattend/domain/schema"
)

func TestSummarize(t *testing.T) {
	sch := schema.TableSchema{
		NameColumn: 0,
		Subjects: []schema.ColumnSpec{
			{Index: 1, SubjectName: "Math", Kind: schema.KindSubject},
			{Index: 2, SubjectName: "Sci", Kind: schema.KindSubject},
		},
		DataStartRow: 1,
	}
	records := []*StudentRecord{
		record("Alice", 1, map[string]*float64{"Math": f(80), "Sci": f(90)}),
		record("Bob", 2, map[string]*float64{"Math": f(60), "Sci": nil}),
	}

	summary := Summarize(records, sch)

	if len(summary.Subjects) != 2 {
		t.Fatalf("expected 2 subject summaries, got %d", len(summary.Subjects))
	}

	math := summary.Subjects[0]
	if math.Subject != "Math" || math.Count != 2 {
		t.Fatalf("unexpected Math summary: %+v", math)
	}
	if math.Mean != 70.0 || math.Min != 60.0 || math.Max != 80.0 {
		t.Fatalf("unexpected Math stats: %+v", math)
	}

	sci := summary.Subjects[1]
	if sci.Count != 1 {
		t.Fatalf("nil cells must not count toward Sci, got count %d", sci.Count)
	}
	if sci.StdDev != 0 {
		t.Fatalf("single-value stddev should be 0, got %v", sci.StdDev)
	}

	if summary.Overall == nil {
		t.Fatal("expected overall summary")
	}
	// Alice overall 85, Bob overall 60
	if summary.Overall.Mean != 72.5 {
		t.Fatalf("unexpected overall mean %v", summary.Overall.Mean)
	}
}

func TestSummarizeOmitsEmptySubjects(t *testing.T) {
	sch := schema.TableSchema{
		Subjects: []schema.ColumnSpec{
			{Index: 1, SubjectName: "Math", Kind: schema.KindSubject},
		},
	}
	records := []*StudentRecord{
		record("Alice", 1, map[string]*float64{"Math": nil}),
	}

	summary := Summarize(records, sch)
	if len(summary.Subjects) != 0 {
		t.Fatalf("subjects without usable values must be omitted, got %+v", summary.Subjects)
	}
	if summary.Overall != nil {
		t.Fatalf("no usable values means no overall summary, got %+v", summary.Overall)
	}
}
