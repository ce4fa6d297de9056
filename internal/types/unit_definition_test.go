package types

import (
	"math"
	"testing"
)

// Kelvin is ground truth for the conversion law: canonical = (v + offset) * factor.
func TestUnitConversionAgainstKelvin(t *testing.T) {
	celsius := &UnitDefinition{Code: "C", Dimension: "TEMPERATURE", CanonicalUnitCode: "K", ToCanonicalFactor: 1, Offset: 273.15}
	fahrenheit := &UnitDefinition{Code: "F", Dimension: "TEMPERATURE", CanonicalUnitCode: "K", ToCanonicalFactor: 5.0 / 9.0, Offset: 459.67}
	millimeter := &UnitDefinition{Code: "MM", Dimension: "LENGTH", CanonicalUnitCode: "M", ToCanonicalFactor: 0.001}
	meter := &UnitDefinition{Code: "M", Dimension: "LENGTH", CanonicalUnitCode: "M", ToCanonicalFactor: 1}

	cases := []struct {
		name string
		unit *UnitDefinition
		in   float64
		want float64
	}{
		{name: "celsius_boiling", unit: celsius, in: 100, want: 373.15},
		{name: "fahrenheit_freezing", unit: fahrenheit, in: 32, want: 273.15},
		{name: "millimeter_to_meter", unit: millimeter, in: 1000, want: 1},
		{name: "canonical_identity", unit: meter, in: 42, want: 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.unit.ToCanonical(tc.in)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("ToCanonical(%v)=%v, want %v", tc.in, got, tc.want)
			}
			back := tc.unit.FromCanonical(got)
			if math.Abs(back-tc.in) > 1e-9 {
				t.Fatalf("FromCanonical(%v)=%v, want %v", got, back, tc.in)
			}
		})
	}
}

func TestUnitConversionZeroFactorTreatedAsIdentity(t *testing.T) {
	u := &UnitDefinition{Code: "X"}
	if got := u.ToCanonical(5); got != 5 {
		t.Fatalf("got %v", got)
	}
}

func TestPageArgs(t *testing.T) {
	p := PageArgs{}
	if p.Limit() != 50 || p.Offset() != 0 {
		t.Fatalf("defaults wrong: limit=%d offset=%d", p.Limit(), p.Offset())
	}
	p = PageArgs{Page: 3, PerPage: 20}
	if p.Offset() != 40 {
		t.Fatalf("offset=%d", p.Offset())
	}
}
