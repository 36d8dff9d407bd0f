package fitment

import (
	"reflect"
	"testing"
)

// TestResolveSetup covers composition of the parser and both geometry
// derivations, plus the diameter-mismatch check.
func TestResolveSetup(t *testing.T) {
	tests := []struct {
		name        string
		fields      Fields
		checkValues func(*testing.T, Setup)
	}{
		{
			name: "complete fields",
			fields: Fields{
				ID:            "front",
				TireSize:      "225/45R17",
				RimDiameterIn: fptr(17),
				RimWidthIn:    fptr(7.5),
				OffsetMM:      fptr(45),
			},
			checkValues: func(t *testing.T, s Setup) {
				if s.Size == nil || s.Size.Notation != NotationMetric {
					t.Fatalf("Size = %+v, want parsed metric size", s.Size)
				}
				if s.Tire == nil {
					t.Fatal("Tire should not be nil")
				}
				if !almostEqual(s.Tire.SectionWidthMM, 230, 1e-9) {
					t.Errorf("Tire.SectionWidthMM = %v, want %v (stretched on 7.5in rim)", s.Tire.SectionWidthMM, 230)
				}
				if s.Wheel == nil {
					t.Fatal("Wheel should not be nil")
				}
				if !almostEqual(s.Wheel.BackspacingMM, 140.25, 1e-9) {
					t.Errorf("Wheel.BackspacingMM = %v, want %v", s.Wheel.BackspacingMM, 140.25)
				}
				if s.Mismatch != nil {
					t.Errorf("Mismatch = %+v, want nil", s.Mismatch)
				}
				if !s.Comparable() {
					t.Error("Comparable() = false, want true")
				}
			},
		},
		{
			name: "unparsable size keeps wheel geometry",
			fields: Fields{
				ID:            "front",
				TireSize:      "huge tires",
				RimDiameterIn: fptr(17),
				RimWidthIn:    fptr(7.5),
				OffsetMM:      fptr(45),
			},
			checkValues: func(t *testing.T, s Setup) {
				if s.Size != nil {
					t.Errorf("Size = %+v, want nil", s.Size)
				}
				if s.Tire != nil {
					t.Errorf("Tire = %+v, want nil", s.Tire)
				}
				if s.Wheel == nil {
					t.Error("Wheel should not be nil")
				}
				if s.Mismatch != nil {
					t.Errorf("Mismatch = %+v, want nil", s.Mismatch)
				}
				if s.Comparable() {
					t.Error("Comparable() = true, want false")
				}
			},
		},
		{
			name: "diameter mismatch flagged",
			fields: Fields{
				ID:            "candidate",
				TireSize:      "225/45R17",
				RimDiameterIn: fptr(18),
				RimWidthIn:    fptr(7.5),
				OffsetMM:      fptr(45),
			},
			checkValues: func(t *testing.T, s Setup) {
				if s.Mismatch == nil {
					t.Fatal("Mismatch should not be nil")
				}
				if s.Mismatch.TireRimIn != 17 {
					t.Errorf("Mismatch.TireRimIn = %v, want %v", s.Mismatch.TireRimIn, 17)
				}
				if s.Mismatch.WheelRimIn != 18 {
					t.Errorf("Mismatch.WheelRimIn = %v, want %v", s.Mismatch.WheelRimIn, 18)
				}
				if s.Comparable() {
					t.Error("Comparable() = true, want false")
				}
				// Geometry still resolves; the mismatch gates usage, not derivation.
				if s.Tire == nil {
					t.Error("Tire should not be nil")
				}
			},
		},
		{
			name: "declared diameter within tolerance",
			fields: Fields{
				ID:            "candidate",
				TireSize:      "225/45R17",
				RimDiameterIn: fptr(17.04),
				RimWidthIn:    fptr(7.5),
				OffsetMM:      fptr(45),
			},
			checkValues: func(t *testing.T, s Setup) {
				if s.Mismatch != nil {
					t.Errorf("Mismatch = %+v, want nil", s.Mismatch)
				}
				if !s.Comparable() {
					t.Error("Comparable() = false, want true")
				}
			},
		},
		{
			name: "no declared diameter skips the mismatch check",
			fields: Fields{
				ID:       "front",
				TireSize: "225/45R17",
			},
			checkValues: func(t *testing.T, s Setup) {
				if s.Mismatch != nil {
					t.Errorf("Mismatch = %+v, want nil", s.Mismatch)
				}
				if s.Wheel != nil {
					t.Errorf("Wheel = %+v, want nil", s.Wheel)
				}
				if !s.Comparable() {
					t.Error("Comparable() = false, want true")
				}
			},
		},
		{
			name: "nil spacer defaults to zero",
			fields: Fields{
				ID:         "front",
				TireSize:   "225/45R17",
				RimWidthIn: fptr(7.5),
				OffsetMM:   fptr(45),
			},
			checkValues: func(t *testing.T, s Setup) {
				if s.Wheel == nil {
					t.Fatal("Wheel should not be nil")
				}
				if s.Wheel.EffectiveOffsetMM != 45 {
					t.Errorf("Wheel.EffectiveOffsetMM = %v, want %v", s.Wheel.EffectiveOffsetMM, 45)
				}
			},
		},
		{
			name: "width correction flows into tire geometry",
			fields: Fields{
				ID:                 "front",
				TireSize:           "225/45R17",
				WidthCorrectionPct: fptr(10),
			},
			checkValues: func(t *testing.T, s Setup) {
				if s.Tire == nil {
					t.Fatal("Tire should not be nil")
				}
				if !almostEqual(s.Tire.SectionWidthMM, 247.5, 1e-9) {
					t.Errorf("Tire.SectionWidthMM = %v, want %v", s.Tire.SectionWidthMM, 247.5)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkValues(t, ResolveSetup(tt.fields))
		})
	}
}

// TestResolveSetup_Idempotent checks that resolution is a pure function of
// its fields.
func TestResolveSetup_Idempotent(t *testing.T) {
	fields := Fields{
		ID:                 "front",
		TireSize:           "245/40R18",
		RimDiameterIn:      fptr(18),
		RimWidthIn:         fptr(8.5),
		OffsetMM:           fptr(40),
		SpacerMM:           fptr(5),
		WidthCorrectionPct: fptr(2),
	}

	first := ResolveSetup(fields)
	second := ResolveSetup(fields)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("ResolveSetup() not deterministic:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}
