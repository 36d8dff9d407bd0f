package main

import (
	"fmt"

	"fitment-platform/internal/fitment"
)

// DemoFitmentCalculation walks the fitment engine end to end without a database
func main() {
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("FITMENT PLATFORM - CALCULATION DEMONSTRATION")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()

	// Size parsing across both notations, odd spacing, and bad input.
	fmt.Println("SIZE PARSING")
	fmt.Println("─────────────────────────────────────────────────────────────")
	for _, raw := range []string{
		"225/45R17",
		"31X10.5R15",
		"225 / 45 r 17",
		"265/70-17",
		"banana",
	} {
		parsed := fitment.ParseTireSize(raw)
		if parsed == nil {
			fmt.Printf("  %-15q → NULL (unparsable)\n", raw)
			continue
		}
		fmt.Printf("  %-15q → %s (%s)\n", raw, parsed, parsed.Notation)
	}
	fmt.Println()

	// Resolve the baseline setup.
	baseline := fitment.ResolveSetup(fitment.Fields{
		ID:            "oem",
		TireSize:      "225/45R17",
		RimDiameterIn: fptr(17),
		RimWidthIn:    fptr(7.5),
		OffsetMM:      fptr(45),
	})

	fmt.Println("BASELINE SETUP: 225/45R17 on 7.5x17 ET45")
	fmt.Println("─────────────────────────────────────────────────────────────")
	printGeometry(baseline)
	fmt.Println()

	// A working session: one baseline, three candidates, one of them
	// declared on a wheel its tire cannot seat on.
	session := fitment.Session{}.
		WithBaseline(baseline).
		WithCandidate(fitment.ResolveSetup(fitment.Fields{
			ID:            "staggered-18",
			TireSize:      "245/40R18",
			RimDiameterIn: fptr(18),
			RimWidthIn:    fptr(8.5),
			OffsetMM:      fptr(40),
			SpacerMM:      fptr(5),
		})).
		WithCandidate(fitment.ResolveSetup(fitment.Fields{
			ID:            "poke-17",
			TireSize:      "225/45R17",
			RimDiameterIn: fptr(17),
			RimWidthIn:    fptr(7.5),
			OffsetMM:      fptr(35),
		})).
		WithCandidate(fitment.ResolveSetup(fitment.Fields{
			ID:            "wrong-wheel",
			TireSize:      "245/40R18",
			RimDiameterIn: fptr(17),
			RimWidthIn:    fptr(8.5),
			OffsetMM:      fptr(40),
		})).
		WithSelected("staggered-18")

	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("CANDIDATE COMPARISONS")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Printf("Baseline state: %s | selected: %s\n\n", session.BaselineState(), session.SelectedID)

	clearances := fitment.Clearances{InnerMM: fptr(10), OuterMM: fptr(15)}

	for i, comparison := range session.Comparisons() {
		fmt.Printf("Candidate: %s\n", comparison.SetupID)
		fmt.Println("─────────────────────────────────────────────────────────────")

		if comparison.Mismatch != nil {
			fmt.Printf("  ✗ BLOCKED: tire requires a %g\" rim but wheel is %g\"\n\n",
				comparison.Mismatch.TireRimIn, comparison.Mismatch.WheelRimIn)
			continue
		}
		if comparison.Result == nil {
			fmt.Println("  comparison unavailable")
			fmt.Println()
			continue
		}

		fmt.Printf("  Ride Height Delta:   %+.2f mm\n", comparison.Result.RideHeightDeltaMM)
		if comparison.Result.InnerMoveMM != nil {
			fmt.Printf("  Inner Move:          %+.2f mm\n", *comparison.Result.InnerMoveMM)
		}
		if comparison.Result.OuterMoveMM != nil {
			fmt.Printf("  Outer Move:          %+.2f mm\n", *comparison.Result.OuterMoveMM)
		}
		fmt.Printf("  Speedometer Error:   %+.2f%%\n", comparison.Result.SpeedometerErrorPct)

		verdicts := fitment.EvaluateClearances(*session.Baseline, session.Candidates[i], clearances, fitment.DefaultThresholds)
		printVerdict("Inner", verdicts.Inner)
		printVerdict("Outer", verdicts.Outer)
		fmt.Println()
	}

	// Scrub-radius estimates for the selected candidate.
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("SCRUB RADIUS (kingpin 12°, hub offset 80mm)")
	fmt.Println("════════════════════════════════════════════════════════════════")

	kingpin, hubOffset := fptr(12), fptr(80)
	baseScrub := fitment.EstimateScrubRadius(*session.Baseline, kingpin, hubOffset)
	selScrub := fitment.EstimateScrubRadius(*session.Selected(), kingpin, hubOffset)
	if baseScrub != nil && selScrub != nil {
		fmt.Printf("Baseline:   %+.2f mm\n", *baseScrub)
		fmt.Printf("Selected:   %+.2f mm\n", *selScrub)
		fmt.Printf("Delta:      %+.2f mm\n", *selScrub-*baseScrub)
	}
	fmt.Println()

	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("✅ CALCULATION DEMONSTRATION COMPLETE")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("The system successfully:")
	fmt.Println("  ✓ Parsed metric and flotation tire sizes")
	fmt.Println("  ✓ Derived tire and wheel geometry (stretch, backspacing)")
	fmt.Println("  ✓ Compared candidates against a baseline")
	fmt.Println("  ✓ Blocked a tire that cannot seat on its declared wheel")
	fmt.Println("  ✓ Issued clearance verdicts and scrub-radius estimates")
	fmt.Println()
	fmt.Println("With a database, this would:")
	fmt.Println("  • Persist sessions in fitment_sessions / fitment_setups tables")
	fmt.Println("  • Recompute every stored setup fresh on load")
	fmt.Println("  • Serve calculations via REST API endpoints")
	fmt.Println("  • Provide real-time metrics and monitoring")
	fmt.Println()
}

func printGeometry(s fitment.Setup) {
	if s.Tire == nil {
		fmt.Println("  tire size did not parse")
		return
	}
	fmt.Printf("  Section Width:     %.1f mm\n", s.Tire.SectionWidthMM)
	fmt.Printf("  Sidewall:          %.1f mm\n", s.Tire.SidewallMM)
	fmt.Printf("  Overall Diameter:  %.1f mm\n", s.Tire.OverallDiameterMM)
	fmt.Printf("  Circumference:     %.1f mm\n", s.Tire.CircumferenceMM)
	fmt.Printf("  Revs/Mile:         %.1f\n", s.Tire.RevolutionsPerMile)
	if s.Wheel != nil {
		fmt.Printf("  Backspacing:       %.1f mm\n", s.Wheel.BackspacingMM)
		fmt.Printf("  Frontspacing:      %.1f mm\n", s.Wheel.FrontspacingMM)
	}
}

func printVerdict(side string, v *fitment.ClearanceVerdict) {
	if v == nil {
		return
	}
	mark := "✓"
	if !v.Passed {
		mark = "✗"
	}
	fmt.Printf("  %s %s clearance:    %.2f mm remaining (min %.2f)\n",
		mark, side, v.ResultingClearanceMM, v.MinimumRequiredMM)
}

func fptr(v float64) *float64 {
	return &v
}
