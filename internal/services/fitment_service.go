package services

import (
	"context"
	"fmt"

	"fitment-platform/internal/fitment"
	"fitment-platform/pkg/logging"
	"fitment-platform/pkg/metrics"
)

// FitmentService runs the fitment engine on behalf of the API and CLI,
// adding logging and metrics around the pure calculations. It holds no
// state and no database handle; resolved setups are never cached.
type FitmentService struct {
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewFitmentService creates a new fitment service
func NewFitmentService(logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *FitmentService {
	return &FitmentService{
		logger:  logger,
		metrics: metricsCollector,
	}
}

// MismatchError reports a setup whose tire cannot seat on its declared
// wheel. It blocks comparison; callers must surface it, never coerce it.
type MismatchError struct {
	SetupID  string
	Mismatch fitment.DiameterMismatch
}

func (e *MismatchError) Error() string {
	label := "setup"
	if e.SetupID != "" {
		label = fmt.Sprintf("setup %s", e.SetupID)
	}
	return fmt.Sprintf("%s: tire requires a %g in rim but wheel is %g in",
		label, e.Mismatch.TireRimIn, e.Mismatch.WheelRimIn)
}

// IsTransient returns false as mismatches are permanent for the given inputs.
func (e *MismatchError) IsTransient() bool {
	return false
}

// ComparisonRequest carries the raw inputs for one baseline/candidate
// comparison. Thresholds fall back to the engine defaults when nil. Kingpin
// and hub offset are optional steering-geometry inputs; when both are
// present the report includes scrub-radius estimates.
type ComparisonRequest struct {
	Baseline              fitment.Fields      `json:"baseline"`
	Candidate             fitment.Fields      `json:"candidate"`
	Clearances            fitment.Clearances  `json:"clearances"`
	Thresholds            *fitment.Thresholds `json:"thresholds,omitempty"`
	KingpinInclinationDeg *float64            `json:"kingpin_inclination_deg,omitempty"`
	HubOffsetMM           *float64            `json:"hub_offset_mm,omitempty"`
}

// ComparisonReport is the full outcome of a comparison: both resolved
// setups, the deltas, clearance verdicts, and optional scrub estimates.
// Result is nil when either setup lacks tire geometry; that is an answer,
// not an error.
type ComparisonReport struct {
	Baseline   fitment.Setup             `json:"baseline"`
	Candidate  fitment.Setup             `json:"candidate"`
	Result     *fitment.ComparisonResult `json:"result,omitempty"`
	Verdicts   fitment.ClearanceVerdicts `json:"verdicts"`
	Thresholds fitment.Thresholds        `json:"thresholds"`
	Scrub      *ScrubReport              `json:"scrub,omitempty"`
}

// ScrubReport pairs per-setup scrub-radius estimates with their delta.
// Each value is nil when the corresponding setup lacks the geometry to
// estimate from.
type ScrubReport struct {
	BaselineMM  *float64 `json:"baseline_mm,omitempty"`
	CandidateMM *float64 `json:"candidate_mm,omitempty"`
	DeltaMM     *float64 `json:"delta_mm,omitempty"`
}

// ParseSize parses a raw tire-size string
func (s *FitmentService) ParseSize(ctx context.Context, raw string) *fitment.ParsedSize {
	parsed := fitment.ParseTireSize(raw)

	notation := "invalid"
	if parsed != nil {
		notation = string(parsed.Notation)
	}
	s.metrics.RecordSizeParse(notation)

	s.logger.Debug(ctx, "[SIZE_PARSE] Tire size parsed", logging.Fields{
		"input":    raw,
		"notation": notation,
	})

	return parsed
}

// ResolveSetup resolves raw fields into a full setup snapshot
func (s *FitmentService) ResolveSetup(ctx context.Context, f fitment.Fields) fitment.Setup {
	setup := fitment.ResolveSetup(f)
	s.metrics.SetupResolutionsTotal.Inc()

	notation := "invalid"
	if setup.Size != nil {
		notation = string(setup.Size.Notation)
	}
	s.metrics.RecordSizeParse(notation)

	if setup.Mismatch != nil {
		s.metrics.DiameterMismatchesTotal.Inc()
		s.logger.Warn(ctx, "[SETUP_MISMATCH] Tire and wheel rim diameters disagree", logging.Fields{
			"setup_id":     f.ID,
			"tire_size":    f.TireSize,
			"tire_rim_in":  setup.Mismatch.TireRimIn,
			"wheel_rim_in": setup.Mismatch.WheelRimIn,
		})
	}

	return setup
}

// Compare resolves both setups and computes deltas, clearance verdicts, and
// optional scrub estimates. A diameter mismatch on either setup is a blocking
// *MismatchError. An incomparable pair (missing tire geometry) is not an
// error: the report comes back with a nil Result.
func (s *FitmentService) Compare(ctx context.Context, req ComparisonRequest) (*ComparisonReport, error) {
	timer := s.metrics.NewTimer(s.metrics.ComparisonDuration)
	defer timer.ObserveDuration()

	baseline := s.ResolveSetup(ctx, req.Baseline)
	candidate := s.ResolveSetup(ctx, req.Candidate)

	if baseline.Mismatch != nil {
		s.metrics.RecordComparison("mismatch")
		return nil, &MismatchError{SetupID: req.Baseline.ID, Mismatch: *baseline.Mismatch}
	}
	if candidate.Mismatch != nil {
		s.metrics.RecordComparison("mismatch")
		return nil, &MismatchError{SetupID: req.Candidate.ID, Mismatch: *candidate.Mismatch}
	}

	thresholds := fitment.DefaultThresholds
	if req.Thresholds != nil {
		thresholds = *req.Thresholds
	}

	report := &ComparisonReport{
		Baseline:   baseline,
		Candidate:  candidate,
		Result:     fitment.CompareSetups(baseline, candidate),
		Thresholds: thresholds,
	}

	if report.Result == nil {
		s.metrics.RecordComparison("unavailable")
	} else {
		s.metrics.RecordComparison("ok")
		report.Verdicts = fitment.EvaluateClearances(baseline, candidate, req.Clearances, thresholds)
		if report.Verdicts.Inner != nil {
			s.metrics.RecordClearanceVerdict("inner", report.Verdicts.Inner.Passed)
		}
		if report.Verdicts.Outer != nil {
			s.metrics.RecordClearanceVerdict("outer", report.Verdicts.Outer.Passed)
		}
	}

	if req.KingpinInclinationDeg != nil && req.HubOffsetMM != nil {
		report.Scrub = s.scrubReport(baseline, candidate, req.KingpinInclinationDeg, req.HubOffsetMM)
	}

	s.logger.Info(ctx, "[COMPARE_COMPLETE] Comparison computed", logging.Fields{
		"baseline_size":  req.Baseline.TireSize,
		"candidate_size": req.Candidate.TireSize,
		"has_result":     report.Result != nil,
	})

	return report, nil
}

// EstimateScrub resolves a setup and estimates its scrub radius. Nil means
// the setup or steering inputs were incomplete.
func (s *FitmentService) EstimateScrub(ctx context.Context, f fitment.Fields, kingpinInclinationDeg, hubOffsetMM *float64) *float64 {
	setup := s.ResolveSetup(ctx, f)

	scrub := fitment.EstimateScrubRadius(setup, kingpinInclinationDeg, hubOffsetMM)
	if scrub != nil {
		s.metrics.ScrubEstimatesTotal.Inc()
	}

	s.logger.Debug(ctx, "[SCRUB_ESTIMATE] Scrub radius estimated", logging.Fields{
		"setup_id":  f.ID,
		"tire_size": f.TireSize,
		"available": scrub != nil,
	})

	return scrub
}

func (s *FitmentService) scrubReport(baseline, candidate fitment.Setup, kingpinInclinationDeg, hubOffsetMM *float64) *ScrubReport {
	report := &ScrubReport{
		BaselineMM:  fitment.EstimateScrubRadius(baseline, kingpinInclinationDeg, hubOffsetMM),
		CandidateMM: fitment.EstimateScrubRadius(candidate, kingpinInclinationDeg, hubOffsetMM),
	}

	if report.BaselineMM != nil {
		s.metrics.ScrubEstimatesTotal.Inc()
	}
	if report.CandidateMM != nil {
		s.metrics.ScrubEstimatesTotal.Inc()
	}
	if report.BaselineMM != nil && report.CandidateMM != nil {
		delta := *report.CandidateMM - *report.BaselineMM
		report.DeltaMM = &delta
	}

	return report
}
