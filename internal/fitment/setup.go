package fitment

import "math"

// rimMatchToleranceIn absorbs fractional-inch rounding between a tire's
// nominal rim diameter and the declared wheel diameter. Anything beyond it
// means the tire physically cannot seat on the wheel.
const rimMatchToleranceIn = 0.05

// Fields carries the raw inputs a setup is resolved from. Optional numeric
// fields are pointers so that "not entered" stays distinct from zero; blank
// or non-numeric form values must arrive here as nil, never as 0.
type Fields struct {
	ID                 string   `json:"id"`
	TireSize           string   `json:"tire_size"`
	RimDiameterIn      *float64 `json:"rim_diameter_in,omitempty"`
	RimWidthIn         *float64 `json:"rim_width_in,omitempty"`
	OffsetMM           *float64 `json:"offset_mm,omitempty"`
	SpacerMM           *float64 `json:"spacer_mm,omitempty"`
	WidthCorrectionPct *float64 `json:"width_correction_pct,omitempty"`
}

// DiameterMismatch records a tire whose nominal rim diameter cannot seat on
// the declared wheel. A setup carrying one is invalid for comparison.
type DiameterMismatch struct {
	TireRimIn  float64 `json:"tire_rim_in"`
	WheelRimIn float64 `json:"wheel_rim_in"`
}

// Setup is a snapshot of one tire/wheel combination: the raw fields it was
// resolved from plus everything derivable from them. Nil derived fields mean
// the corresponding inputs were missing or unparsable, not that the values
// are zero. Setups are value objects; none of their pointer fields are
// mutated after resolution.
type Setup struct {
	Fields   Fields            `json:"fields"`
	Size     *ParsedSize       `json:"size,omitempty"`
	Tire     *TireGeometry     `json:"tire,omitempty"`
	Wheel    *WheelGeometry    `json:"wheel,omitempty"`
	Mismatch *DiameterMismatch `json:"mismatch,omitempty"`
}

// ResolveSetup builds a complete setup snapshot from raw field values. It is
// total: unparsable sizes and missing wheel inputs produce nil derived fields
// rather than errors. Each call resolves from scratch; edits to fields never
// mutate a previously resolved setup.
func ResolveSetup(f Fields) Setup {
	s := Setup{Fields: f}

	correction := 0.0
	if f.WidthCorrectionPct != nil {
		correction = *f.WidthCorrectionPct
	}
	spacer := 0.0
	if f.SpacerMM != nil {
		spacer = *f.SpacerMM
	}

	if size := ParseTireSize(f.TireSize); size != nil {
		s.Size = size
		tire := ComputeTireGeometry(*size, correction, f.RimWidthIn)
		s.Tire = &tire

		if f.RimDiameterIn != nil && math.Abs(float64(size.RimDiameterIn)-*f.RimDiameterIn) > rimMatchToleranceIn {
			s.Mismatch = &DiameterMismatch{
				TireRimIn:  float64(size.RimDiameterIn),
				WheelRimIn: *f.RimDiameterIn,
			}
		}
	}

	s.Wheel = ComputeWheelGeometry(f.RimWidthIn, f.OffsetMM, spacer)

	return s
}

// Comparable reports whether the setup may participate in a comparison:
// its tire geometry resolved and its rim diameters agree. A mismatched
// setup is hard-invalid and must be surfaced as a blocking error, never
// silently compared.
func (s Setup) Comparable() bool {
	return s.Tire != nil && s.Mismatch == nil
}
