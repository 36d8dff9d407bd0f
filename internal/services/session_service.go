package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fitment-platform/internal/fitment"
	"fitment-platform/internal/models"
	"fitment-platform/internal/repository"
	"fitment-platform/pkg/logging"
	"fitment-platform/pkg/metrics"
)

// SessionService persists and rebuilds fitment sessions. Only raw input
// fields are ever stored; every read resolves the setups from scratch, so
// engine fixes reach previously saved sessions.
type SessionService struct {
	repo    repository.SessionRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewSessionService creates a new session service
func NewSessionService(repo repository.SessionRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *SessionService {
	return &SessionService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// SessionInput is the payload accepted when saving a session. Baseline and
// candidates carry raw engine fields; a session may be saved mid-work with
// no baseline, an unparsable size, or even a mismatched baseline, and the
// stored state reproduces that situation on load.
type SessionInput struct {
	Name             string           `json:"name"`
	UnitMode         string           `json:"unit_mode,omitempty"`
	SelectedToken    string           `json:"selected_token,omitempty"`
	InnerClearanceMM *float64         `json:"inner_clearance_mm,omitempty"`
	OuterClearanceMM *float64         `json:"outer_clearance_mm,omitempty"`
	Baseline         *fitment.Fields  `json:"baseline,omitempty"`
	Candidates       []fitment.Fields `json:"candidates,omitempty"`
}

// SessionView is a stored session with everything recomputed: resolved
// setups, baseline state, per-candidate comparisons, and clearance verdicts
// against the session's measured gaps.
type SessionView struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	UnitMode         string    `json:"unit_mode"`
	SelectedToken    string    `json:"selected_token,omitempty"`
	InnerClearanceMM *float64  `json:"inner_clearance_mm,omitempty"`
	OuterClearanceMM *float64  `json:"outer_clearance_mm,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	BaselineState fitment.BaselineState `json:"baseline_state"`
	Baseline      *fitment.Setup        `json:"baseline,omitempty"`
	Candidates    []CandidateView       `json:"candidates"`
}

// CandidateView pairs a resolved candidate with its comparison outcome.
// Comparison and Verdicts are nil whenever the baseline cannot anchor them.
type CandidateView struct {
	Setup      fitment.Setup              `json:"setup"`
	Comparison *fitment.ComparisonResult  `json:"comparison,omitempty"`
	Verdicts   *fitment.ClearanceVerdicts `json:"verdicts,omitempty"`
}

// SaveSession validates the input, assigns storage IDs, and persists the
// session with its raw setup fields. The returned view reflects the state a
// subsequent GetSession would compute.
func (s *SessionService) SaveSession(ctx context.Context, input SessionInput) (*SessionView, error) {
	now := time.Now().UTC()

	record := &models.SessionRecord{
		ID:               uuid.New().String(),
		Name:             input.Name,
		UnitMode:         input.UnitMode,
		SelectedToken:    input.SelectedToken,
		InnerClearanceMM: input.InnerClearanceMM,
		OuterClearanceMM: input.OuterClearanceMM,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if record.UnitMode == "" {
		record.UnitMode = models.UnitModeMetric
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	setups := make([]*models.SetupRecord, 0, len(input.Candidates)+1)
	if input.Baseline != nil {
		setups = append(setups, models.NewSetupRecord(record.ID, models.RoleBaseline, 0, *input.Baseline))
	}

	seen := make(map[string]bool, len(input.Candidates))
	for i, fields := range input.Candidates {
		rec := models.NewSetupRecord(record.ID, models.RoleCandidate, i, fields)
		if seen[rec.Token] {
			return nil, &models.ValidationError{
				Field:   "candidates",
				Value:   rec.Token,
				Message: "candidate tokens must be unique",
			}
		}
		seen[rec.Token] = true
		setups = append(setups, rec)
	}

	for _, rec := range setups {
		rec.ID = uuid.New().String()
		if err := rec.Validate(); err != nil {
			return nil, err
		}
	}

	if record.SelectedToken != "" && !tokenStored(setups, record.SelectedToken) {
		return nil, &models.ValidationError{
			Field:   "selected_token",
			Value:   record.SelectedToken,
			Message: "selected token does not name a setup in this session",
		}
	}

	if err := s.repo.CreateSession(ctx, record, setups); err != nil {
		return nil, err
	}

	s.metrics.RecordSessionOp("save")
	s.logger.Info(ctx, "[SESSION_SAVE] Session saved", logging.Fields{
		"session_id":  record.ID,
		"name":        record.Name,
		"setup_count": len(setups),
	})

	return s.buildView(record, setups), nil
}

// GetSession loads a session and recomputes every derived value from the
// stored raw fields.
func (s *SessionService) GetSession(ctx context.Context, id string) (*SessionView, error) {
	record, setups, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSessionOp("load")

	return s.buildView(record, setups), nil
}

// ListSessions retrieves session headers with pagination
func (s *SessionService) ListSessions(ctx context.Context, limit, offset int) ([]*models.SessionRecord, int, error) {
	sessions, total, err := s.repo.ListSessions(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	s.metrics.RecordSessionOp("list")

	return sessions, total, nil
}

// DeleteSession removes a stored session
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return err
	}

	s.metrics.RecordSessionOp("delete")
	s.logger.Info(ctx, "[SESSION_DELETE] Session deleted", logging.Fields{
		"session_id": id,
	})

	return nil
}

// HealthCheck performs a service health check
func (s *SessionService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

// buildView reconstructs the working session from stored raw fields and
// recomputes comparisons and verdicts. A stored selection that no longer
// names a setup is dropped rather than surfaced dangling.
func (s *SessionService) buildView(record *models.SessionRecord, setups []*models.SetupRecord) *SessionView {
	session := fitment.Session{}
	for _, rec := range setups {
		setup := fitment.ResolveSetup(rec.ToFields())
		if rec.Role == models.RoleBaseline {
			session = session.WithBaseline(setup)
		} else {
			session = session.WithCandidate(setup)
		}
	}
	session = session.WithSelected(record.SelectedToken)

	view := &SessionView{
		ID:               record.ID,
		Name:             record.Name,
		UnitMode:         record.UnitMode,
		SelectedToken:    session.SelectedID,
		InnerClearanceMM: record.InnerClearanceMM,
		OuterClearanceMM: record.OuterClearanceMM,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
		BaselineState:    session.BaselineState(),
		Baseline:         session.Baseline,
		Candidates:       make([]CandidateView, 0, len(session.Candidates)),
	}

	comparisons := session.Comparisons()
	clearances := record.Clearances()

	for i, candidate := range session.Candidates {
		cv := CandidateView{Setup: candidate}
		if comparisons != nil {
			cv.Comparison = comparisons[i].Result
			if comparisons[i].Result != nil {
				verdicts := fitment.EvaluateClearances(*session.Baseline, candidate, clearances, fitment.DefaultThresholds)
				cv.Verdicts = &verdicts
			}
		}
		view.Candidates = append(view.Candidates, cv)
	}

	return view
}

func tokenStored(setups []*models.SetupRecord, token string) bool {
	for _, rec := range setups {
		if rec.Token == token {
			return true
		}
	}
	return false
}
