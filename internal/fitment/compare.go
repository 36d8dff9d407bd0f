package fitment

// ComparisonResult holds the deltas between a candidate setup and the
// baseline it is judged against. Lateral moves are nil when either setup
// lacks wheel geometry; "no result" and "zero delta" are different answers.
type ComparisonResult struct {
	RideHeightDeltaMM   float64  `json:"ride_height_delta_mm"`
	InnerMoveMM         *float64 `json:"inner_move_mm,omitempty"`
	OuterMoveMM         *float64 `json:"outer_move_mm,omitempty"`
	SpeedometerErrorPct float64  `json:"speedometer_error_pct"`
}

// CompareSetups computes the deltas of candidate relative to baseline.
// It returns nil unless both setups are comparable (tire geometry present,
// no diameter mismatch).
//
// Ride height tracks the static loaded radius, approximated as half the
// overall-diameter delta. Positive inner move is the wheel moving toward the
// chassis; positive outer move is more poke. The speedometer, calibrated to
// the baseline circumference, under-reads on a larger candidate, which is
// reported as a positive error percentage.
func CompareSetups(baseline, candidate Setup) *ComparisonResult {
	if !baseline.Comparable() || !candidate.Comparable() {
		return nil
	}

	result := &ComparisonResult{
		RideHeightDeltaMM:   (candidate.Tire.OverallDiameterMM - baseline.Tire.OverallDiameterMM) / 2,
		SpeedometerErrorPct: (candidate.Tire.CircumferenceMM/baseline.Tire.CircumferenceMM - 1) * 100,
	}

	if baseline.Wheel != nil && candidate.Wheel != nil {
		inner := candidate.Wheel.BackspacingMM - baseline.Wheel.BackspacingMM
		outer := candidate.Wheel.FrontspacingMM - baseline.Wheel.FrontspacingMM
		result.InnerMoveMM = &inner
		result.OuterMoveMM = &outer
	}

	return result
}
