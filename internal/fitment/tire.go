package fitment

import "math"

const (
	mmPerInch = 25.4
	mmPerMile = 1609344

	// nominalRimFactor estimates the rim width a metric tire is specified
	// for, as a fraction of its section width. The resulting half-inch-step
	// stretch rule is a rough empirical model; its exact form is kept for
	// output parity with established fitment tables.
	nominalRimFactor = 0.8
	stretchStepIn    = 0.5
	stretchStepMM    = 5.0
)

// TireGeometry holds the physical measurements derived from a parsed tire
// size. All lengths are millimeters; RimDiameterIn stays in inches because
// that is how rims are specified and matched.
type TireGeometry struct {
	RimDiameterIn      float64 `json:"rim_diameter_in"`
	SectionWidthMM     float64 `json:"section_width_mm"`
	SidewallMM         float64 `json:"sidewall_mm"`
	OverallDiameterMM  float64 `json:"overall_diameter_mm"`
	CircumferenceMM    float64 `json:"circumference_mm"`
	RevolutionsPerMile float64 `json:"revolutions_per_mile"`
}

// ComputeTireGeometry derives tire measurements from a parsed size.
//
// widthCorrectionPct scales the reported section width to model brand-to-brand
// variance from the nominal size (0 = nominal). rimWidthIn, when supplied,
// additionally stretches a metric tire's section width by 5mm per half inch of
// rim width above the estimated nominal rim; flotation sizes never stretch.
// Sidewall and overall diameter always derive from the nominal size, so the
// overall-diameter invariant (rim + two sidewalls) holds for every output.
//
// A flotation size whose stated overall diameter is smaller than its rim
// produces a negative sidewall; the value is returned as computed rather than
// rejected, and callers decide what to surface.
func ComputeTireGeometry(size ParsedSize, widthCorrectionPct float64, rimWidthIn *float64) TireGeometry {
	var sectionWidth, sidewall, overall float64

	switch size.Notation {
	case NotationFlotation:
		sectionWidth = size.SectionWidthIn * mmPerInch
		overall = size.OverallDiameterIn * mmPerInch
		sidewall = (overall - float64(size.RimDiameterIn)*mmPerInch) / 2
		sectionWidth *= 1 + widthCorrectionPct/100
	default:
		sectionWidth = float64(size.SectionWidthMM)
		sidewall = sectionWidth * float64(size.AspectRatioPct) / 100
		overall = float64(size.RimDiameterIn)*mmPerInch + 2*sidewall
		sectionWidth *= 1 + widthCorrectionPct/100
		if rimWidthIn != nil {
			sectionWidth += stretchMM(sectionWidth, *rimWidthIn)
		}
	}

	circumference := overall * math.Pi

	return TireGeometry{
		RimDiameterIn:      float64(size.RimDiameterIn),
		SectionWidthMM:     sectionWidth,
		SidewallMM:         sidewall,
		OverallDiameterMM:  overall,
		CircumferenceMM:    circumference,
		RevolutionsPerMile: mmPerMile / circumference,
	}
}

// stretchMM returns the section-width adjustment for mounting a metric tire
// on a rim wider or narrower than its nominal rim: 5mm per half-inch step,
// negative when the rim is narrower than nominal.
func stretchMM(sectionWidthMM, rimWidthIn float64) float64 {
	nominalRimIn := sectionWidthMM / mmPerInch * nominalRimFactor
	steps := math.Round((rimWidthIn - nominalRimIn) / stretchStepIn)
	return steps * stretchStepMM
}
