package fitment

// DefaultThresholds is the minimum clearance applied when the caller does
// not supply thresholds of their own.
var DefaultThresholds = Thresholds{InnerMinMM: 3, OuterMinMM: 3}

// Clearances carries the user-measured gaps on the baseline setup. A nil
// side means the user never measured it, so no verdict can be given there.
type Clearances struct {
	InnerMM *float64 `json:"inner_mm,omitempty"`
	OuterMM *float64 `json:"outer_mm,omitempty"`
}

// Thresholds sets the minimum acceptable remaining clearance per side.
type Thresholds struct {
	InnerMinMM float64 `json:"inner_min_mm"`
	OuterMinMM float64 `json:"outer_min_mm"`
}

// ClearanceVerdict is the pass/fail outcome for one side.
type ClearanceVerdict struct {
	ResultingClearanceMM float64 `json:"resulting_clearance_mm"`
	MinimumRequiredMM    float64 `json:"minimum_required_mm"`
	Passed               bool    `json:"passed"`
}

// ClearanceVerdicts holds at most one verdict per side. A nil side means
// "unknown", either because the user supplied no baseline measurement for it
// or because the lateral delta could not be computed.
type ClearanceVerdicts struct {
	Inner *ClearanceVerdict `json:"inner,omitempty"`
	Outer *ClearanceVerdict `json:"outer,omitempty"`
}

// EvaluateClearances checks whether the candidate still fits within the
// gaps measured on the baseline. Movement toward an obstruction consumes
// clearance, so each side's delta is subtracted from the user's measurement
// before checking it against the threshold.
func EvaluateClearances(baseline, candidate Setup, clearances Clearances, thresholds Thresholds) ClearanceVerdicts {
	result := CompareSetups(baseline, candidate)
	if result == nil {
		return ClearanceVerdicts{}
	}

	return ClearanceVerdicts{
		Inner: sideVerdict(clearances.InnerMM, result.InnerMoveMM, thresholds.InnerMinMM),
		Outer: sideVerdict(clearances.OuterMM, result.OuterMoveMM, thresholds.OuterMinMM),
	}
}

func sideVerdict(measuredMM, moveMM *float64, minRequiredMM float64) *ClearanceVerdict {
	if measuredMM == nil || moveMM == nil {
		return nil
	}

	remaining := *measuredMM - *moveMM
	return &ClearanceVerdict{
		ResultingClearanceMM: remaining,
		MinimumRequiredMM:    minRequiredMM,
		Passed:               remaining >= minRequiredMM,
	}
}
