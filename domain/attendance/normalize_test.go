package attendance

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want *float64
	}{
		{"empty cell", "", nil},
		{"whitespace cell", "   ", nil},
		{"zero", "0", f(0)},
		{"fraction", "0.85", f(85)},
		{"fraction low", "0.5", f(50)},
		// 1.0 is ambiguous (1% vs fraction); the rule ordering reads it as a
		// fraction, so it becomes 100.
		{"exactly one", "1", f(100)},
		{"exactly one decimal", "1.0", f(100)},
		{"just above one", "1.5", f(1.5)},
		{"plain percentage", "85", f(85)},
		{"upper bound", "100", f(100)},
		{"above range", "100.01", nil},
		{"way above range", "150", nil},
		{"negative", "-0.1", nil},
		{"negative integer", "-5", nil},
		{"percent string", "85%", f(85)},
		{"percent string with space", "72.5 %", f(72.5)},
		{"percent fraction", "0.85%", f(85)},
		{"percent out of range", "150%", nil},
		{"percent negative", "-5%", nil},
		{"percent no number", "%", nil},
		{"not a number", "N/A", nil},
		{"prose", "absent", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.cell)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Normalize(%q) = %v, want %v", tt.cell, deref(got), deref(tt.want))
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("Normalize(%q) = %v, want %v", tt.cell, *got, *tt.want)
			}
		})
	}
}

// The spec's canonical identity: a bare 0.85, "85%" and 85 all mean the same
// percentage.
func TestNormalizeCanonicalIdentity(t *testing.T) {
	a := Normalize("0.85")
	b := Normalize("85%")
	c := Normalize("85")

	if a == nil || b == nil || c == nil {
		t.Fatal("expected all three representations to normalize")
	}
	if *a != 85.0 || *b != 85.0 || *c != 85.0 {
		t.Fatalf("expected 85.0 across representations, got %v %v %v", *a, *b, *c)
	}
}

func f(v float64) *float64 {
	return &v
}

func deref(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
