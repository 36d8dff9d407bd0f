package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitment-platform/internal/fitment"
	"fitment-platform/internal/models"
	"fitment-platform/internal/repository"
)

// stubSessionRepository keeps sessions in memory, newest first, mirroring
// the behavior the real repository gets from the database.
type stubSessionRepository struct {
	sessions map[string]*models.SessionRecord
	setups   map[string][]*models.SetupRecord
	order    []string
}

func newStubRepository() *stubSessionRepository {
	return &stubSessionRepository{
		sessions: make(map[string]*models.SessionRecord),
		setups:   make(map[string][]*models.SetupRecord),
	}
}

func (r *stubSessionRepository) CreateSession(_ context.Context, session *models.SessionRecord, setups []*models.SetupRecord) error {
	r.sessions[session.ID] = session
	r.setups[session.ID] = setups
	r.order = append([]string{session.ID}, r.order...)
	return nil
}

func (r *stubSessionRepository) GetSession(_ context.Context, id string) (*models.SessionRecord, []*models.SetupRecord, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, nil, &repository.NotFoundError{Resource: "fitment_session", ID: id}
	}
	return session, r.setups[id], nil
}

func (r *stubSessionRepository) ListSessions(_ context.Context, limit, offset int) ([]*models.SessionRecord, int, error) {
	total := len(r.order)
	var out []*models.SessionRecord
	for i := offset; i < total && len(out) < limit; i++ {
		out = append(out, r.sessions[r.order[i]])
	}
	return out, total, nil
}

func (r *stubSessionRepository) DeleteSession(_ context.Context, id string) error {
	if _, ok := r.sessions[id]; !ok {
		return &repository.NotFoundError{Resource: "fitment_session", ID: id}
	}
	delete(r.sessions, id)
	delete(r.setups, id)
	for i, stored := range r.order {
		if stored == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *stubSessionRepository) HealthCheck(_ context.Context) error {
	return nil
}

func newSessionService(repo repository.SessionRepository) *SessionService {
	return NewSessionService(repo, newTestLogger(), testMetrics)
}

func validInput() SessionInput {
	baseline := baselineFields()
	return SessionInput{
		Name:             "summer wheels",
		UnitMode:         models.UnitModeMetric,
		InnerClearanceMM: fptr(10),
		OuterClearanceMM: fptr(15),
		Baseline:         &baseline,
		Candidates:       []fitment.Fields{candidateFields()},
	}
}

func TestSessionService_SaveSession(t *testing.T) {
	repo := newStubRepository()
	service := newSessionService(repo)
	ctx := context.Background()

	view, err := service.SaveSession(ctx, validInput())
	if err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	if view.ID == "" {
		t.Error("view ID should be assigned")
	}
	if view.BaselineState != fitment.BaselineValid {
		t.Errorf("BaselineState = %v, want valid", view.BaselineState)
	}
	if len(view.Candidates) != 1 {
		t.Fatalf("candidate count = %d, want 1", len(view.Candidates))
	}
	if view.Candidates[0].Comparison == nil {
		t.Error("saved view should carry a computed comparison")
	}
	if view.Candidates[0].Verdicts == nil {
		t.Error("saved view should carry clearance verdicts")
	}

	stored := repo.setups[view.ID]
	if len(stored) != 2 {
		t.Fatalf("stored setup count = %d, want 2", len(stored))
	}
	if stored[0].Role != models.RoleBaseline {
		t.Errorf("first stored role = %q, want baseline", stored[0].Role)
	}
	if stored[0].ID == "" || stored[1].ID == "" {
		t.Error("setup records should have storage IDs assigned")
	}
	if stored[0].ID == stored[1].ID {
		t.Error("setup records should have distinct storage IDs")
	}
	if stored[1].Token != "candidate" {
		t.Errorf("candidate token = %q, want %q", stored[1].Token, "candidate")
	}
}

func TestSessionService_SaveSession_Validation(t *testing.T) {
	service := newSessionService(newStubRepository())
	ctx := context.Background()

	tests := []struct {
		name      string
		mutate    func(*SessionInput)
		wantField string
	}{
		{
			name:      "empty name",
			mutate:    func(in *SessionInput) { in.Name = "  " },
			wantField: "name",
		},
		{
			name:      "invalid unit mode",
			mutate:    func(in *SessionInput) { in.UnitMode = "furlongs" },
			wantField: "unit_mode",
		},
		{
			name: "duplicate candidate tokens",
			mutate: func(in *SessionInput) {
				in.Candidates = append(in.Candidates, candidateFields())
			},
			wantField: "candidates",
		},
		{
			name:      "selection names no setup",
			mutate:    func(in *SessionInput) { in.SelectedToken = "phantom" },
			wantField: "selected_token",
		},
		{
			name: "candidate without token",
			mutate: func(in *SessionInput) {
				in.Candidates = []fitment.Fields{{TireSize: "245/40R18"}}
			},
			wantField: "token",
		},
		{
			name:      "negative clearance",
			mutate:    func(in *SessionInput) { in.InnerClearanceMM = fptr(-1) },
			wantField: "inner_clearance_mm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			_, err := service.SaveSession(ctx, input)

			var validationErr *models.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("SaveSession() error = %v, want *models.ValidationError", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", validationErr.Field, tt.wantField)
			}
		})
	}
}

func TestSessionService_SaveSession_SelectionTargets(t *testing.T) {
	service := newSessionService(newStubRepository())
	ctx := context.Background()

	// Both the baseline token and a candidate token are selectable.
	for _, token := range []string{"baseline", "candidate"} {
		input := validInput()
		input.SelectedToken = token

		view, err := service.SaveSession(ctx, input)
		if err != nil {
			t.Fatalf("SaveSession(selected=%q) error = %v", token, err)
		}
		if view.SelectedToken != token {
			t.Errorf("SelectedToken = %q, want %q", view.SelectedToken, token)
		}
	}
}

func TestSessionService_GetSession_RecomputesFromRawFields(t *testing.T) {
	repo := newStubRepository()
	service := newSessionService(repo)
	ctx := context.Background()

	saved, err := service.SaveSession(ctx, validInput())
	if err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	view, err := service.GetSession(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}

	if view.BaselineState != fitment.BaselineValid {
		t.Fatalf("BaselineState = %v, want valid", view.BaselineState)
	}
	if view.Baseline == nil || view.Baseline.Tire == nil {
		t.Fatal("baseline should resolve with tire geometry")
	}
	if len(view.Candidates) != 1 {
		t.Fatalf("candidate count = %d, want 1", len(view.Candidates))
	}

	comparison := view.Candidates[0].Comparison
	if comparison == nil {
		t.Fatal("comparison = nil, want recomputed result")
	}
	if !almostEqual(comparison.RideHeightDeltaMM, 9.45, 1e-6) {
		t.Errorf("RideHeightDeltaMM = %v, want 9.45", comparison.RideHeightDeltaMM)
	}

	verdicts := view.Candidates[0].Verdicts
	if verdicts == nil || verdicts.Inner == nil || verdicts.Outer == nil {
		t.Fatal("verdicts should be computed from the stored clearances")
	}
	if !verdicts.Inner.Passed {
		t.Error("inner verdict should pass")
	}
	if verdicts.Outer.Passed {
		t.Error("outer verdict should fail")
	}
}

func TestSessionService_GetSession_RejectedBaselineGatesComparisons(t *testing.T) {
	repo := newStubRepository()
	service := newSessionService(repo)
	ctx := context.Background()

	input := validInput()
	input.Baseline.RimDiameterIn = fptr(18)

	saved, err := service.SaveSession(ctx, input)
	if err != nil {
		t.Fatalf("SaveSession() error = %v; a mismatched baseline is storable work in progress", err)
	}
	if saved.BaselineState != fitment.BaselineRejected {
		t.Fatalf("BaselineState = %v, want rejected", saved.BaselineState)
	}

	view, err := service.GetSession(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}

	if view.BaselineState != fitment.BaselineRejected {
		t.Errorf("BaselineState = %v, want rejected", view.BaselineState)
	}
	if view.Baseline == nil || view.Baseline.Mismatch == nil {
		t.Fatal("rejected baseline should be returned with its mismatch")
	}
	for _, candidate := range view.Candidates {
		if candidate.Comparison != nil {
			t.Error("comparisons must stay gated off under a rejected baseline")
		}
		if candidate.Verdicts != nil {
			t.Error("verdicts must stay gated off under a rejected baseline")
		}
	}
}

func TestSessionService_GetSession_DanglingSelectionDropped(t *testing.T) {
	repo := newStubRepository()
	service := newSessionService(repo)
	ctx := context.Background()

	// Store a record whose selection points at nothing, bypassing save-time
	// validation the way a manual edit or partial delete would.
	now := time.Now().UTC()
	record := &models.SessionRecord{
		ID:        "11111111-1111-1111-1111-111111111111",
		Name:      "stale selection",
		UnitMode:  models.UnitModeMetric,
		CreatedAt: now,
		UpdatedAt: now,

		SelectedToken: "gone",
	}
	baseline := models.NewSetupRecord(record.ID, models.RoleBaseline, 0, baselineFields())
	baseline.ID = "22222222-2222-2222-2222-222222222222"
	if err := repo.CreateSession(ctx, record, []*models.SetupRecord{baseline}); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	view, err := service.GetSession(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if view.SelectedToken != "" {
		t.Errorf("SelectedToken = %q, want empty for a dangling selection", view.SelectedToken)
	}
}

func TestSessionService_GetSession_NotFound(t *testing.T) {
	service := newSessionService(newStubRepository())

	_, err := service.GetSession(context.Background(), "missing")

	var notFound *repository.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("GetSession() error = %v, want *repository.NotFoundError", err)
	}
}

func TestSessionService_ListAndDelete(t *testing.T) {
	repo := newStubRepository()
	service := newSessionService(repo)
	ctx := context.Background()

	first, err := service.SaveSession(ctx, validInput())
	if err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	second := validInput()
	second.Name = "winter wheels"
	saved, err := service.SaveSession(ctx, second)
	if err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	sessions, total, err := service.ListSessions(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if total != 2 || len(sessions) != 2 {
		t.Fatalf("ListSessions() = %d sessions, total %d, want 2/2", len(sessions), total)
	}
	if sessions[0].ID != saved.ID {
		t.Errorf("first listed session = %q, want newest %q", sessions[0].ID, saved.ID)
	}

	if err := service.DeleteSession(ctx, first.ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}

	_, total, err = service.ListSessions(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if total != 1 {
		t.Errorf("total after delete = %d, want 1", total)
	}

	var notFound *repository.NotFoundError
	if err := service.DeleteSession(ctx, first.ID); !errors.As(err, &notFound) {
		t.Errorf("DeleteSession() error = %v, want *repository.NotFoundError", err)
	}
}
