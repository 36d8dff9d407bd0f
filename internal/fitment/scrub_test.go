package fitment

import "testing"

// TestEstimateScrubRadius_Projection checks the single-plane projection on
// hand-checkable angles.
func TestEstimateScrubRadius_Projection(t *testing.T) {
	tests := []struct {
		name      string
		setup     Setup
		kingpin   *float64
		hubOffset *float64
		want      float64
	}{
		{
			// A vertical axis projects straight down, so the scrub is just
			// the contact-patch center minus the hub offset.
			name:      "zero kingpin collapses to offsets",
			setup:     baselineFixture(),
			kingpin:   fptr(0),
			hubOffset: fptr(80),
			want:      -125,
		},
		{
			name:      "zero kingpin with compensating hub offset",
			setup:     baselineFixture(),
			kingpin:   fptr(0),
			hubOffset: fptr(-45),
			want:      0,
		},
		{
			name:      "inclined axis on the staggered baseline",
			setup:     baselineFixture(),
			kingpin:   fptr(12),
			hubOffset: fptr(80),
			want:      -57.58768646635249,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateScrubRadius(tt.setup, tt.kingpin, tt.hubOffset)
			if got == nil {
				t.Fatal("EstimateScrubRadius() = nil, want estimate")
			}
			if !almostEqual(*got, tt.want, 1e-6) {
				t.Errorf("EstimateScrubRadius() = %v, want %v", *got, tt.want)
			}
		})
	}
}

// TestEstimateScrubRadius_OffsetTrend checks that reducing offset (more poke)
// moves the scrub radius outboard by exactly the offset change.
func TestEstimateScrubRadius_OffsetTrend(t *testing.T) {
	kingpin, hubOffset := fptr(10), fptr(60)

	at45 := EstimateScrubRadius(offsetVariant("a", 45), kingpin, hubOffset)
	at35 := EstimateScrubRadius(offsetVariant("b", 35), kingpin, hubOffset)
	if at45 == nil || at35 == nil {
		t.Fatal("estimates should be available for complete setups")
	}

	if !almostEqual(*at35-*at45, 10, 1e-9) {
		t.Errorf("scrub delta = %v, want 10 for a 10mm offset drop", *at35-*at45)
	}
}

// TestEstimateScrubRadius_SpacerShifts checks a spacer acts exactly like a
// matching offset reduction.
func TestEstimateScrubRadius_SpacerShifts(t *testing.T) {
	kingpin, hubOffset := fptr(10), fptr(60)

	plain := EstimateScrubRadius(baselineFixture(), kingpin, hubOffset)
	spaced := EstimateScrubRadius(ResolveSetup(Fields{
		ID:            "spaced",
		TireSize:      "225/45R17",
		RimDiameterIn: fptr(17),
		RimWidthIn:    fptr(7.5),
		OffsetMM:      fptr(45),
		SpacerMM:      fptr(5),
	}), kingpin, hubOffset)

	if plain == nil || spaced == nil {
		t.Fatal("estimates should be available for complete setups")
	}
	if !almostEqual(*spaced-*plain, 5, 1e-9) {
		t.Errorf("scrub delta = %v, want 5 for a 5mm spacer", *spaced-*plain)
	}
}

// TestEstimateScrubRadius_MissingInputs checks every nil rule.
func TestEstimateScrubRadius_MissingInputs(t *testing.T) {
	tests := []struct {
		name      string
		setup     Setup
		kingpin   *float64
		hubOffset *float64
	}{
		{
			name:      "nil kingpin",
			setup:     baselineFixture(),
			hubOffset: fptr(80),
		},
		{
			name:    "nil hub offset",
			setup:   baselineFixture(),
			kingpin: fptr(12),
		},
		{
			name:      "no wheel geometry",
			setup:     ResolveSetup(Fields{ID: "s", TireSize: "225/45R17", RimWidthIn: fptr(7.5)}),
			kingpin:   fptr(12),
			hubOffset: fptr(80),
		},
		{
			name:      "no tire geometry",
			setup:     ResolveSetup(Fields{ID: "s", TireSize: "nope", RimWidthIn: fptr(7.5), OffsetMM: fptr(45)}),
			kingpin:   fptr(12),
			hubOffset: fptr(80),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateScrubRadius(tt.setup, tt.kingpin, tt.hubOffset); got != nil {
				t.Errorf("EstimateScrubRadius() = %v, want nil", *got)
			}
		})
	}
}
