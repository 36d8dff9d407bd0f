package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fitment-platform/internal/config"
	"fitment-platform/internal/fitment"
	"fitment-platform/internal/services"
	"fitment-platform/pkg/logging"
	"fitment-platform/pkg/metrics"
)

// setupFlags groups the per-setup command-line flags. Values stay strings
// until parsing so that an unset flag becomes nil, never zero.
type setupFlags struct {
	size        *string
	rimDiameter *string
	rimWidth    *string
	offset      *string
	spacer      *string
	correction  *string
}

func registerSetupFlags(prefix, noun string) *setupFlags {
	return &setupFlags{
		size:        flag.String(prefix+"-size", "", fmt.Sprintf("%s tire size, e.g. 225/45R17 or 31X10.5R15", noun)),
		rimDiameter: flag.String(prefix+"-rim-diameter", "", fmt.Sprintf("%s rim diameter in inches", noun)),
		rimWidth:    flag.String(prefix+"-rim-width", "", fmt.Sprintf("%s rim width in inches", noun)),
		offset:      flag.String(prefix+"-offset", "", fmt.Sprintf("%s wheel offset (ET) in mm", noun)),
		spacer:      flag.String(prefix+"-spacer", "", fmt.Sprintf("%s spacer thickness in mm", noun)),
		correction:  flag.String(prefix+"-correction", "", fmt.Sprintf("%s section-width correction in percent", noun)),
	}
}

func (f *setupFlags) fields(id, prefix string) (fitment.Fields, error) {
	out := fitment.Fields{ID: id, TireSize: *f.size}

	var err error
	if out.RimDiameterIn, err = optFloat(prefix+"-rim-diameter", *f.rimDiameter); err != nil {
		return out, err
	}
	if out.RimWidthIn, err = optFloat(prefix+"-rim-width", *f.rimWidth); err != nil {
		return out, err
	}
	if out.OffsetMM, err = optFloat(prefix+"-offset", *f.offset); err != nil {
		return out, err
	}
	if out.SpacerMM, err = optFloat(prefix+"-spacer", *f.spacer); err != nil {
		return out, err
	}
	if out.WidthCorrectionPct, err = optFloat(prefix+"-correction", *f.correction); err != nil {
		return out, err
	}
	return out, nil
}

// optFloat parses an optional numeric flag. Empty means "not entered" and
// maps to nil, which the engine keeps distinct from zero.
func optFloat(name, value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid -%s: %q is not a number", name, value)
	}
	return &v, nil
}

func main() {
	baselineFlags := registerSetupFlags("baseline", "Baseline")
	candidateFlags := registerSetupFlags("candidate", "Candidate")
	innerClearance := flag.String("inner-clearance", "", "Measured inner clearance on the baseline in mm")
	outerClearance := flag.String("outer-clearance", "", "Measured outer clearance on the baseline in mm")
	innerMin := flag.String("inner-min", "", "Minimum acceptable inner clearance in mm (default 3)")
	outerMin := flag.String("outer-min", "", "Minimum acceptable outer clearance in mm (default 3)")
	kingpin := flag.String("kingpin", "", "Kingpin inclination angle in degrees")
	hubOffset := flag.String("hub-offset", "", "Steering-axis offset at hub height in mm")
	flag.Parse()

	if *baselineFlags.size == "" {
		fmt.Fprintln(os.Stderr, "missing required -baseline-size")
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logLevel := logging.WarnLevel
	if cfg.Logging.Level == "debug" {
		logLevel = logging.DebugLevel
	}

	logger := logging.NewStructuredLogger("fitment-cli", "1.0.0", logLevel)

	ctx := context.Background()

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("fitment_cli")

	// Initialize services
	fitmentService := services.NewFitmentService(logger, metricsCollector)

	request, err := buildRequest(baselineFlags, candidateFlags, *innerClearance, *outerClearance, *innerMin, *outerMin, *kingpin, *hubOffset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Single-setup mode: no candidate given, report the baseline alone.
	if *candidateFlags.size == "" {
		setup := fitmentService.ResolveSetup(ctx, request.Baseline)
		if setup.Tire == nil {
			fmt.Fprintf(os.Stderr, "cannot parse baseline tire size %q\n", request.Baseline.TireSize)
			os.Exit(1)
		}
		if setup.Mismatch != nil {
			fmt.Fprintf(os.Stderr, "baseline tire requires a %g in rim but wheel is %g in\n",
				setup.Mismatch.TireRimIn, setup.Mismatch.WheelRimIn)
			os.Exit(1)
		}

		fmt.Println(strings.Repeat("=", 80))
		fmt.Println("SETUP REPORT")
		fmt.Println(strings.Repeat("=", 80))
		printSetup("Baseline", setup)

		if request.KingpinInclinationDeg != nil && request.HubOffsetMM != nil {
			scrub := fitmentService.EstimateScrub(ctx, request.Baseline, request.KingpinInclinationDeg, request.HubOffsetMM)
			fmt.Println()
			fmt.Printf("Scrub Radius:       %s\n", fmtOpt(scrub, "mm"))
		}
		return
	}

	report, err := fitmentService.Compare(ctx, *request)
	if err != nil {
		var mismatchErr *services.MismatchError
		if errors.As(err, &mismatchErr) {
			fmt.Fprintln(os.Stderr, mismatchErr.Error())
			os.Exit(1)
		}
		logger.Fatal(ctx, "[CLI_ERROR] Comparison failed", logging.Fields{}, err)
	}

	if report.Baseline.Tire == nil {
		fmt.Fprintf(os.Stderr, "cannot parse baseline tire size %q\n", request.Baseline.TireSize)
		os.Exit(1)
	}

	printReport(report)
}

func buildRequest(baselineFlags, candidateFlags *setupFlags, innerClearance, outerClearance, innerMin, outerMin, kingpin, hubOffset string) (*services.ComparisonRequest, error) {
	baseline, err := baselineFlags.fields("baseline", "baseline")
	if err != nil {
		return nil, err
	}
	candidate, err := candidateFlags.fields("candidate", "candidate")
	if err != nil {
		return nil, err
	}

	request := &services.ComparisonRequest{
		Baseline:  baseline,
		Candidate: candidate,
	}

	if request.Clearances.InnerMM, err = optFloat("inner-clearance", innerClearance); err != nil {
		return nil, err
	}
	if request.Clearances.OuterMM, err = optFloat("outer-clearance", outerClearance); err != nil {
		return nil, err
	}

	innerMinVal, err := optFloat("inner-min", innerMin)
	if err != nil {
		return nil, err
	}
	outerMinVal, err := optFloat("outer-min", outerMin)
	if err != nil {
		return nil, err
	}
	if innerMinVal != nil || outerMinVal != nil {
		thresholds := fitment.DefaultThresholds
		if innerMinVal != nil {
			thresholds.InnerMinMM = *innerMinVal
		}
		if outerMinVal != nil {
			thresholds.OuterMinMM = *outerMinVal
		}
		request.Thresholds = &thresholds
	}

	if request.KingpinInclinationDeg, err = optFloat("kingpin", kingpin); err != nil {
		return nil, err
	}
	if request.HubOffsetMM, err = optFloat("hub-offset", hubOffset); err != nil {
		return nil, err
	}

	return request, nil
}

func printReport(report *services.ComparisonReport) {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("FITMENT REPORT")
	fmt.Println(strings.Repeat("=", 80))
	printSetup("Baseline", report.Baseline)
	fmt.Println()
	printSetup("Candidate", report.Candidate)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("COMPARISON")
	fmt.Println(strings.Repeat("=", 80))

	if report.Result == nil {
		fmt.Println("Comparison unavailable: the candidate tire size did not parse")
		return
	}

	fmt.Printf("Ride Height Delta:  %+.2f mm\n", report.Result.RideHeightDeltaMM)
	fmt.Printf("Inner Move:         %s\n", fmtOptSigned(report.Result.InnerMoveMM, "mm (toward chassis)"))
	fmt.Printf("Outer Move:         %s\n", fmtOptSigned(report.Result.OuterMoveMM, "mm (poke)"))
	fmt.Printf("Speedometer Error:  %+.2f%%\n", report.Result.SpeedometerErrorPct)

	if report.Verdicts.Inner != nil || report.Verdicts.Outer != nil {
		fmt.Println()
		fmt.Println("CLEARANCE VERDICTS")
		printVerdict("Inner", report.Verdicts.Inner)
		printVerdict("Outer", report.Verdicts.Outer)
	}

	if report.Scrub != nil {
		fmt.Println()
		fmt.Println("SCRUB RADIUS")
		fmt.Printf("Baseline:           %s\n", fmtOpt(report.Scrub.BaselineMM, "mm"))
		fmt.Printf("Candidate:          %s\n", fmtOpt(report.Scrub.CandidateMM, "mm"))
		fmt.Printf("Delta:              %s\n", fmtOptSigned(report.Scrub.DeltaMM, "mm"))
	}
}

func printSetup(label string, s fitment.Setup) {
	fmt.Printf("%s: %s\n", label, describeSetup(s))
	if s.Tire == nil {
		fmt.Println("  tire size did not parse")
		return
	}

	fmt.Printf("  Section Width:    %.1f mm\n", s.Tire.SectionWidthMM)
	fmt.Printf("  Sidewall:         %.1f mm\n", s.Tire.SidewallMM)
	fmt.Printf("  Overall Diameter: %.1f mm\n", s.Tire.OverallDiameterMM)
	fmt.Printf("  Circumference:    %.1f mm\n", s.Tire.CircumferenceMM)
	fmt.Printf("  Revs/Mile:        %.1f\n", s.Tire.RevolutionsPerMile)

	if s.Wheel != nil {
		fmt.Printf("  Effective Offset: %.1f mm\n", s.Wheel.EffectiveOffsetMM)
		fmt.Printf("  Backspacing:      %.1f mm\n", s.Wheel.BackspacingMM)
		fmt.Printf("  Frontspacing:     %.1f mm\n", s.Wheel.FrontspacingMM)
	}
}

func describeSetup(s fitment.Setup) string {
	desc := s.Fields.TireSize
	if s.Size != nil {
		desc = s.Size.String()
	}
	if s.Fields.RimWidthIn != nil && s.Fields.RimDiameterIn != nil {
		desc += fmt.Sprintf(" on %gx%g", *s.Fields.RimWidthIn, *s.Fields.RimDiameterIn)
	}
	if s.Fields.OffsetMM != nil {
		desc += fmt.Sprintf(" ET%g", *s.Fields.OffsetMM)
	}
	if s.Fields.SpacerMM != nil && *s.Fields.SpacerMM != 0 {
		desc += fmt.Sprintf(" +%gmm spacer", *s.Fields.SpacerMM)
	}
	return desc
}

func printVerdict(side string, v *fitment.ClearanceVerdict) {
	if v == nil {
		fmt.Printf("%s:              not measured\n", side)
		return
	}

	outcome := "PASS"
	if !v.Passed {
		outcome = "FAIL"
	}
	fmt.Printf("%s:              %.2f mm remaining (min %.2f) %s\n",
		side, v.ResultingClearanceMM, v.MinimumRequiredMM, outcome)
}

func fmtOpt(v *float64, unit string) string {
	if v == nil {
		return "unavailable"
	}
	return fmt.Sprintf("%.2f %s", *v, unit)
}

func fmtOptSigned(v *float64, unit string) string {
	if v == nil {
		return "unavailable"
	}
	return fmt.Sprintf("%+.2f %s", *v, unit)
}
