package ids

import (
	"strings"
	"testing"
)

func TestGenerate_CleanShortInputs(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"simple", []string{"Los Angeles Lakers"}, "los_angeles_lakers"},
		{"multiple parts", []string{"NBA", "NBA", "celtics", "at", "lakers"}, "nba_nba_celtics_at_lakers"},
		{"strips punctuation", []string{"St. Louis Blues"}, "st_louis_blues"},
		{"skips empty parts", []string{"mlb", "", "mets"}, "mlb_mets"},
		{"collapses whitespace", []string{"  New   York  Mets "}, "new_york_mets"},
		{"unicode stripped", []string{"Atlético Madrid"}, "atltico_madrid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.parts...)
			if got != tt.want {
				t.Errorf("Generate(%v) = %q, want %q", tt.parts, got, tt.want)
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate("NBA", "lakers", "celtics", "20250101")
	b := Generate("NBA", "lakers", "celtics", "20250101")
	if a != b {
		t.Errorf("same inputs produced different ids: %q vs %q", a, b)
	}
}

func TestGenerate_LongInputHashed(t *testing.T) {
	long := strings.Repeat("abcdefghij", 15)
	got := Generate(long)
	if len(got) != 16 {
		t.Fatalf("long input should hash to 16 hex chars, got %d (%q)", len(got), got)
	}
	if got != Generate(long) {
		t.Error("hashed id is not deterministic")
	}
	// Order matters for the digest.
	other := Generate(strings.Repeat("jihgfedcba", 15))
	if got == other {
		t.Error("different long inputs should not collide")
	}
}

func TestGenerate_BoundaryAt100(t *testing.T) {
	exact := strings.Repeat("a", 100)
	if got := Generate(exact); got != exact {
		t.Errorf("100-char input should pass through verbatim, got %q", got)
	}
	over := strings.Repeat("a", 101)
	if got := Generate(over); len(got) != 16 {
		t.Errorf("101-char input should be hashed, got %q", got)
	}
}
