package fitment

import "math"

// EstimateScrubRadius estimates the scrub radius of a setup from the kingpin
// inclination angle and the steering-axis offset at hub height. It returns
// nil when the setup lacks tire or wheel geometry or either input is unknown.
//
// The steering axis is projected from hub height down to the ground in a
// single plane: axisRun = (overallDiameter/2) * tan(kingpin), so the axis
// meets the ground at hubOffset - axisRun. The contact-patch center is
// approximated as -effectiveOffset. Positive scrub means the contact patch
// sits outboard of the steering axis. This is a coarse single-plane
// estimate, not a suspension model; treat the sign and trend as meaningful,
// not the third decimal.
func EstimateScrubRadius(s Setup, kingpinInclinationDeg, hubOffsetMM *float64) *float64 {
	if s.Tire == nil || s.Wheel == nil || kingpinInclinationDeg == nil || hubOffsetMM == nil {
		return nil
	}

	axisRun := s.Tire.OverallDiameterMM / 2 * math.Tan(*kingpinInclinationDeg*math.Pi/180)
	axisAtGround := *hubOffsetMM - axisRun
	contactCenter := -s.Wheel.EffectiveOffsetMM

	scrub := contactCenter - axisAtGround
	return &scrub
}
