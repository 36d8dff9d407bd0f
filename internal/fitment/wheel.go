package fitment

// WheelGeometry holds the lateral measurements derived from rim width,
// offset, and spacer. All values are millimeters.
//
// Sign convention follows ET offset: positive offset moves the mounting face
// toward the vehicle centerline, increasing backspacing; negative offset
// increases frontspacing (poke). Backspacing plus frontspacing always equals
// the rim width.
type WheelGeometry struct {
	EffectiveOffsetMM float64 `json:"effective_offset_mm"`
	HalfWidthMM       float64 `json:"half_width_mm"`
	BackspacingMM     float64 `json:"backspacing_mm"`
	FrontspacingMM    float64 `json:"frontspacing_mm"`
}

// ComputeWheelGeometry derives wheel measurements from rim width and offset.
// It returns nil when either rimWidthIn or offsetMM is unknown, keeping
// "not entered" distinct from a zero offset. A spacer pushes the wheel
// outward, so it is subtracted from the stamped offset.
func ComputeWheelGeometry(rimWidthIn, offsetMM *float64, spacerMM float64) *WheelGeometry {
	if rimWidthIn == nil || offsetMM == nil {
		return nil
	}

	effective := *offsetMM - spacerMM
	halfWidth := *rimWidthIn * mmPerInch / 2

	return &WheelGeometry{
		EffectiveOffsetMM: effective,
		HalfWidthMM:       halfWidth,
		BackspacingMM:     halfWidth + effective,
		FrontspacingMM:    halfWidth - effective,
	}
}
