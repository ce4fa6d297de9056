package normalization

import (
	"testing"

	"pgregory.net/rapid"
)

func TestNormalizeLabel(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "simple", raw: "Ground Clearance", want: "ground_clearance"},
		{name: "already_normal", raw: "ground_clearance", want: "ground_clearance"},
		{name: "ampersand", raw: "Nuts & Bolts", want: "nuts_and_bolts"},
		{name: "punctuation_runs", raw: "  Max.  Load!!(kg)  ", want: "max_load_kg"},
		{name: "leading_trailing_junk", raw: "--torque--", want: "torque"},
		{name: "unicode_stripped", raw: "café au lait", want: "caf_au_lait"},
		{name: "empty", raw: "   ", want: ""},
		{name: "only_junk", raw: "!!!", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLabel(tc.raw); got != tc.want {
				t.Fatalf("NormalizeLabel(%q)=%q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeLabelIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.String().Draw(t, "raw")
		once := NormalizeLabel(raw)
		twice := NormalizeLabel(once)
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	})
}

func TestNormalizeDisplayName(t *testing.T) {
	if got := NormalizeDisplayName("  Ground   Clearance "); got != "Ground Clearance" {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeDisplayName("   "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestToDisplayName(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{label: "ground_clearance", want: "Ground Clearance"},
		{label: "torque", want: "Torque"},
		{label: "", want: ""},
	}
	for _, tc := range cases {
		if got := ToDisplayName(tc.label); got != tc.want {
			t.Fatalf("ToDisplayName(%q)=%q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestNormalizeParseKey(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{raw: "Ground - Clearance", want: "ground_clearance"},
		{raw: "Max. Load (kg)", want: "max._load_(kg)"},
		{raw: "  spaced   out ", want: "spaced_out"},
	}
	for _, tc := range cases {
		if got := NormalizeParseKey(tc.raw); got != tc.want {
			t.Fatalf("NormalizeParseKey(%q)=%q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeSynonyms(t *testing.T) {
	got := NormalizeSynonyms([]string{"Ride Height", "ride_height", "  ", "Clearance"})
	want := []string{"ride_height", "clearance"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if NormalizeSynonyms(nil) != nil {
		t.Fatalf("expected nil for empty input")
	}
}
