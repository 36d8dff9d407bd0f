package fitment

import "testing"

func baselineFixture() Setup {
	return ResolveSetup(Fields{
		ID:            "baseline",
		TireSize:      "225/45R17",
		RimDiameterIn: fptr(17),
		RimWidthIn:    fptr(7.5),
		OffsetMM:      fptr(45),
	})
}

func candidateFixture() Setup {
	return ResolveSetup(Fields{
		ID:            "candidate",
		TireSize:      "245/40R18",
		RimDiameterIn: fptr(18),
		RimWidthIn:    fptr(8.5),
		OffsetMM:      fptr(40),
		SpacerMM:      fptr(5),
	})
}

// TestCompareSetups_Scenario walks the staggered-upgrade example end to end.
func TestCompareSetups_Scenario(t *testing.T) {
	got := CompareSetups(baselineFixture(), candidateFixture())
	if got == nil {
		t.Fatal("CompareSetups() = nil, want result")
	}

	// Candidate overall diameter is 653.2mm against the baseline's 634.3mm.
	if !almostEqual(got.RideHeightDeltaMM, 9.45, 1e-6) {
		t.Errorf("RideHeightDeltaMM = %v, want %v", got.RideHeightDeltaMM, 9.45)
	}
	if got.InnerMoveMM == nil {
		t.Fatal("InnerMoveMM should not be nil")
	}
	if !almostEqual(*got.InnerMoveMM, 2.7, 1e-6) {
		t.Errorf("InnerMoveMM = %v, want %v", *got.InnerMoveMM, 2.7)
	}
	if got.OuterMoveMM == nil {
		t.Fatal("OuterMoveMM should not be nil")
	}
	if !almostEqual(*got.OuterMoveMM, 22.7, 1e-6) {
		t.Errorf("OuterMoveMM = %v, want %v", *got.OuterMoveMM, 22.7)
	}
	if !almostEqual(got.SpeedometerErrorPct, 2.9797, 1e-3) {
		t.Errorf("SpeedometerErrorPct = %v, want ~%v", got.SpeedometerErrorPct, 2.9797)
	}
}

// TestCompareSetups_Identity checks a setup compared against itself reports
// zero everywhere.
func TestCompareSetups_Identity(t *testing.T) {
	s := baselineFixture()

	got := CompareSetups(s, s)
	if got == nil {
		t.Fatal("CompareSetups() = nil, want result")
	}

	if got.RideHeightDeltaMM != 0 {
		t.Errorf("RideHeightDeltaMM = %v, want 0", got.RideHeightDeltaMM)
	}
	if got.SpeedometerErrorPct != 0 {
		t.Errorf("SpeedometerErrorPct = %v, want 0", got.SpeedometerErrorPct)
	}
	if got.InnerMoveMM == nil || *got.InnerMoveMM != 0 {
		t.Errorf("InnerMoveMM = %v, want 0", got.InnerMoveMM)
	}
	if got.OuterMoveMM == nil || *got.OuterMoveMM != 0 {
		t.Errorf("OuterMoveMM = %v, want 0", got.OuterMoveMM)
	}
}

// TestCompareSetups_SpeedometerSign checks the error direction tracks the
// circumference change.
func TestCompareSetups_SpeedometerSign(t *testing.T) {
	smaller := ResolveSetup(Fields{ID: "s", TireSize: "205/40R17"})
	larger := ResolveSetup(Fields{ID: "l", TireSize: "245/45R17"})

	got := CompareSetups(smaller, larger)
	if got == nil {
		t.Fatal("CompareSetups() = nil, want result")
	}
	if got.SpeedometerErrorPct <= 0 {
		t.Errorf("SpeedometerErrorPct = %v, want positive for larger candidate", got.SpeedometerErrorPct)
	}

	got = CompareSetups(larger, smaller)
	if got == nil {
		t.Fatal("CompareSetups() = nil, want result")
	}
	if got.SpeedometerErrorPct >= 0 {
		t.Errorf("SpeedometerErrorPct = %v, want negative for smaller candidate", got.SpeedometerErrorPct)
	}
}

// TestCompareSetups_MissingData checks the nil-result and nil-field rules.
func TestCompareSetups_MissingData(t *testing.T) {
	tests := []struct {
		name      string
		baseline  Setup
		candidate Setup
		wantNil   bool
		wantMoves bool
	}{
		{
			name:      "candidate without wheel inputs keeps diameter deltas",
			baseline:  baselineFixture(),
			candidate: ResolveSetup(Fields{ID: "c", TireSize: "245/40R18"}),
			wantMoves: false,
		},
		{
			name:      "baseline without wheel inputs keeps diameter deltas",
			baseline:  ResolveSetup(Fields{ID: "b", TireSize: "225/45R17"}),
			candidate: candidateFixture(),
			wantMoves: false,
		},
		{
			name:      "unparsable candidate size",
			baseline:  baselineFixture(),
			candidate: ResolveSetup(Fields{ID: "c", TireSize: "not a size", RimWidthIn: fptr(8.5), OffsetMM: fptr(40)}),
			wantNil:   true,
		},
		{
			name:      "unparsable baseline size",
			baseline:  ResolveSetup(Fields{ID: "b", TireSize: ""}),
			candidate: candidateFixture(),
			wantNil:   true,
		},
		{
			name:     "mismatched candidate is excluded",
			baseline: baselineFixture(),
			candidate: ResolveSetup(Fields{
				ID:            "c",
				TireSize:      "245/40R18",
				RimDiameterIn: fptr(17),
				RimWidthIn:    fptr(8.5),
				OffsetMM:      fptr(40),
			}),
			wantNil: true,
		},
		{
			name: "mismatched baseline is excluded",
			baseline: ResolveSetup(Fields{
				ID:            "b",
				TireSize:      "225/45R17",
				RimDiameterIn: fptr(18),
				RimWidthIn:    fptr(7.5),
				OffsetMM:      fptr(45),
			}),
			candidate: candidateFixture(),
			wantNil:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareSetups(tt.baseline, tt.candidate)

			if tt.wantNil {
				if got != nil {
					t.Errorf("CompareSetups() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("CompareSetups() = nil, want result")
			}

			if tt.wantMoves {
				if got.InnerMoveMM == nil || got.OuterMoveMM == nil {
					t.Error("lateral moves should not be nil")
				}
			} else {
				if got.InnerMoveMM != nil {
					t.Errorf("InnerMoveMM = %v, want nil", *got.InnerMoveMM)
				}
				if got.OuterMoveMM != nil {
					t.Errorf("OuterMoveMM = %v, want nil", *got.OuterMoveMM)
				}
			}

			if got.RideHeightDeltaMM == 0 {
				t.Error("RideHeightDeltaMM = 0, want nonzero diameter delta")
			}
		})
	}
}
