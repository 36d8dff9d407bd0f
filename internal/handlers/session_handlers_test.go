package handlers

import (
	"net/http"
	"testing"

	"fitment-platform/internal/fitment"
	"fitment-platform/internal/services"
)

func sessionInput(name string) services.SessionInput {
	baseline := baselineFields()
	return services.SessionInput{
		Name:             name,
		InnerClearanceMM: fptr(10),
		OuterClearanceMM: fptr(15),
		Baseline:         &baseline,
		Candidates:       []fitment.Fields{candidateFields()},
	}
}

func TestSaveSessionEndpoint(t *testing.T) {
	router := newTestRouter(newStubRepository())

	rec := doJSON(t, router, "POST", "/api/sessions", sessionInput("summer wheels"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	var view services.SessionView
	decode(t, rec, &view)
	if view.ID == "" {
		t.Error("saved session should carry an assigned ID")
	}
	if view.BaselineState != fitment.BaselineValid {
		t.Errorf("baseline_state = %v, want valid", view.BaselineState)
	}
	if len(view.Candidates) != 1 || view.Candidates[0].Comparison == nil {
		t.Error("saved view should include the recomputed comparison")
	}
}

func TestSaveSessionEndpoint_ValidationIs400(t *testing.T) {
	router := newTestRouter(newStubRepository())

	input := sessionInput("")

	rec := doJSON(t, router, "POST", "/api/sessions", input)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}

	var response ErrorResponse
	decode(t, rec, &response)
	if response.Message == "" {
		t.Error("validation failure should explain itself")
	}
}

func TestGetSessionEndpoint(t *testing.T) {
	router := newTestRouter(newStubRepository())

	rec := doJSON(t, router, "POST", "/api/sessions", sessionInput("summer wheels"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d, want 201", rec.Code)
	}
	var saved services.SessionView
	decode(t, rec, &saved)

	rec = doJSON(t, router, "GET", "/api/sessions/"+saved.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var view services.SessionView
	decode(t, rec, &view)
	if view.ID != saved.ID {
		t.Errorf("loaded ID = %q, want %q", view.ID, saved.ID)
	}
	if view.Baseline == nil || view.Baseline.Tire == nil {
		t.Error("loaded session should carry freshly resolved baseline geometry")
	}

	rec = doJSON(t, router, "GET", "/api/sessions/does-not-exist", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown session", rec.Code)
	}
}

func TestListSessionsEndpoint(t *testing.T) {
	router := newTestRouter(newStubRepository())

	for _, name := range []string{"first", "second", "third"} {
		rec := doJSON(t, router, "POST", "/api/sessions", sessionInput(name))
		if rec.Code != http.StatusCreated {
			t.Fatalf("save status = %d, want 201", rec.Code)
		}
	}

	rec := doJSON(t, router, "GET", "/api/sessions?page=1&limit=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var response PaginatedResponse
	decode(t, rec, &response)
	if response.Total != 3 {
		t.Errorf("total = %d, want 3", response.Total)
	}
	if response.TotalPages != 2 {
		t.Errorf("total_pages = %d, want 2", response.TotalPages)
	}
	if response.Limit != 2 {
		t.Errorf("limit = %d, want 2", response.Limit)
	}
}

func TestDeleteSessionEndpoint(t *testing.T) {
	router := newTestRouter(newStubRepository())

	rec := doJSON(t, router, "POST", "/api/sessions", sessionInput("doomed"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d, want 201", rec.Code)
	}
	var saved services.SessionView
	decode(t, rec, &saved)

	rec = doJSON(t, router, "DELETE", "/api/sessions/"+saved.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204; body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, "DELETE", "/api/sessions/"+saved.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for repeated delete", rec.Code)
	}

	rec = doJSON(t, router, "GET", "/api/sessions/"+saved.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 after delete", rec.Code)
	}
}

func TestHealthCheckEndpoint(t *testing.T) {
	repo := newStubRepository()
	router := newTestRouter(repo)

	rec := doJSON(t, router, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var status map[string]string
	decode(t, rec, &status)
	if status["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", status["status"])
	}

	repo.failing = true
	rec = doJSON(t, router, "GET", "/health", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when the store is down", rec.Code)
	}
	decode(t, rec, &status)
	if status["status"] != "degraded" {
		t.Errorf("status = %q, want degraded", status["status"])
	}
}
