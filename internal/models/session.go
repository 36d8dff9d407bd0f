package models

import (
	"fmt"
	"strings"
	"time"

	"fitment-platform/internal/fitment"
)

// Roles a stored setup can play within a session.
const (
	RoleBaseline  = "baseline"
	RoleCandidate = "candidate"
)

// Display modes a client can save with a session. All stored values are
// millimeters regardless of mode; the mode only records how the saving
// client was formatting them.
const (
	UnitModeMetric   = "metric"
	UnitModeImperial = "imperial"
)

// SessionRecord is a named fitment session as persisted: the user's label,
// display preference, clearance measurements, and last selection. The setups
// themselves live in SetupRecord rows keyed by SessionID.
type SessionRecord struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	UnitMode         string    `json:"unit_mode" db:"unit_mode"`
	SelectedToken    string    `json:"selected_token,omitempty" db:"selected_token"`
	InnerClearanceMM *float64  `json:"inner_clearance_mm,omitempty" db:"inner_clearance_mm"`
	OuterClearanceMM *float64  `json:"outer_clearance_mm,omitempty" db:"outer_clearance_mm"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Clearances returns the measured baseline gaps stored on the session, in
// the engine's optional-value form.
func (s *SessionRecord) Clearances() fitment.Clearances {
	return fitment.Clearances{
		InnerMM: s.InnerClearanceMM,
		OuterMM: s.OuterClearanceMM,
	}
}

// Validate checks the session header fields. Derived geometry is never
// validated here; sessions store raw inputs only and are recomputed on read.
func (s *SessionRecord) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{
			Field:   "name",
			Value:   s.Name,
			Message: "session name is required",
		}
	}

	if s.UnitMode != UnitModeMetric && s.UnitMode != UnitModeImperial {
		return &ValidationError{
			Field:   "unit_mode",
			Value:   s.UnitMode,
			Message: "unit_mode must be metric or imperial",
		}
	}

	if s.InnerClearanceMM != nil && *s.InnerClearanceMM < 0 {
		return &ValidationError{
			Field:   "inner_clearance_mm",
			Value:   fmt.Sprintf("%g", *s.InnerClearanceMM),
			Message: "measured clearance cannot be negative",
		}
	}

	if s.OuterClearanceMM != nil && *s.OuterClearanceMM < 0 {
		return &ValidationError{
			Field:   "outer_clearance_mm",
			Value:   fmt.Sprintf("%g", *s.OuterClearanceMM),
			Message: "measured clearance cannot be negative",
		}
	}

	return nil
}

// SetupRecord captures the raw input fields of one setup under a session.
// Only raw values are stored; parsed sizes and geometry are recomputed from
// these fields on every read, so engine fixes apply to old sessions too.
//
// Token is the setup identity the client works with (and the value
// SessionRecord.SelectedToken points at); ID is storage identity only.
type SetupRecord struct {
	ID                 string    `json:"id" db:"id"`
	SessionID          string    `json:"session_id" db:"session_id"`
	Role               string    `json:"role" db:"role"`
	Position           int       `json:"position" db:"position"`
	Token              string    `json:"token" db:"token"`
	TireSize           string    `json:"tire_size" db:"tire_size"`
	RimDiameterIn      *float64  `json:"rim_diameter_in,omitempty" db:"rim_diameter_in"`
	RimWidthIn         *float64  `json:"rim_width_in,omitempty" db:"rim_width_in"`
	OffsetMM           *float64  `json:"offset_mm,omitempty" db:"offset_mm"`
	SpacerMM           *float64  `json:"spacer_mm,omitempty" db:"spacer_mm"`
	WidthCorrectionPct *float64  `json:"width_correction_pct,omitempty" db:"width_correction_pct"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// NewSetupRecord captures raw engine fields for storage under a session.
// The storage ID is left empty; the service layer assigns it on save.
func NewSetupRecord(sessionID, role string, position int, f fitment.Fields) *SetupRecord {
	return &SetupRecord{
		SessionID:          sessionID,
		Role:               role,
		Position:           position,
		Token:              f.ID,
		TireSize:           f.TireSize,
		RimDiameterIn:      f.RimDiameterIn,
		RimWidthIn:         f.RimWidthIn,
		OffsetMM:           f.OffsetMM,
		SpacerMM:           f.SpacerMM,
		WidthCorrectionPct: f.WidthCorrectionPct,
		CreatedAt:          time.Now().UTC(),
	}
}

// ToFields reconstructs the raw engine inputs this record captured, ready
// for a fresh ResolveSetup call.
func (r *SetupRecord) ToFields() fitment.Fields {
	return fitment.Fields{
		ID:                 r.Token,
		TireSize:           r.TireSize,
		RimDiameterIn:      r.RimDiameterIn,
		RimWidthIn:         r.RimWidthIn,
		OffsetMM:           r.OffsetMM,
		SpacerMM:           r.SpacerMM,
		WidthCorrectionPct: r.WidthCorrectionPct,
	}
}

// Validate checks the raw fields are storable. It intentionally does not
// require a parsable tire size: sessions may capture work in progress, and
// unparsable sizes resolve to null geometry on read rather than being lost.
func (r *SetupRecord) Validate() error {
	if r.Role != RoleBaseline && r.Role != RoleCandidate {
		return &ValidationError{
			Field:   "role",
			Value:   r.Role,
			Message: "role must be baseline or candidate",
		}
	}

	if r.Role == RoleCandidate && strings.TrimSpace(r.Token) == "" {
		return &ValidationError{
			Field:   "token",
			Value:   r.Token,
			Message: "candidate setups require an identity token",
		}
	}

	if r.Position < 0 {
		return &ValidationError{
			Field:   "position",
			Value:   fmt.Sprintf("%d", r.Position),
			Message: "position cannot be negative",
		}
	}

	if r.RimDiameterIn != nil && *r.RimDiameterIn <= 0 {
		return &ValidationError{
			Field:   "rim_diameter_in",
			Value:   fmt.Sprintf("%g", *r.RimDiameterIn),
			Message: "rim diameter must be positive",
		}
	}

	if r.RimWidthIn != nil && *r.RimWidthIn <= 0 {
		return &ValidationError{
			Field:   "rim_width_in",
			Value:   fmt.Sprintf("%g", *r.RimWidthIn),
			Message: "rim width must be positive",
		}
	}

	if r.SpacerMM != nil && *r.SpacerMM < 0 {
		return &ValidationError{
			Field:   "spacer_mm",
			Value:   fmt.Sprintf("%g", *r.SpacerMM),
			Message: "spacer thickness cannot be negative",
		}
	}

	if r.WidthCorrectionPct != nil && *r.WidthCorrectionPct <= -100 {
		return &ValidationError{
			Field:   "width_correction_pct",
			Value:   fmt.Sprintf("%g", *r.WidthCorrectionPct),
			Message: "width correction must be greater than -100",
		}
	}

	return nil
}

// ValidationError represents a rejected input field.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsTransient returns false as validation errors are permanent.
func (e *ValidationError) IsTransient() bool {
	return false
}
