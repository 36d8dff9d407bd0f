package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"fitment-platform/internal/models"
	"fitment-platform/internal/repository"
	"fitment-platform/internal/services"
	"fitment-platform/pkg/logging"
	"fitment-platform/pkg/metrics"
)

// SessionHandler handles session API endpoints
type SessionHandler struct {
	sessionService *services.SessionService
	logger         *logging.StructuredLogger
	metrics        *metrics.Collector
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	sessionService *services.SessionService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
		metrics:        metricsCollector,
	}
}

// SaveSession handles POST /api/sessions
func (h *SessionHandler) SaveSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/sessions").Observe(duration.Seconds())
	}()

	var input services.SessionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, r, h.metrics, "invalid JSON body", http.StatusBadRequest)
		return
	}

	view, err := h.sessionService.SaveSession(ctx, input)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			h.metrics.RecordAPIError("validation_error", "/api/sessions")
			sendError(w, r, h.metrics, validationErr.Message, http.StatusBadRequest)
			return
		}

		h.logger.Error(ctx, "[API_SAVE_SESSION_ERROR] Failed to save session", logging.Fields{
			"name": input.Name,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/sessions")
		sendError(w, r, h.metrics, "failed to save session", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/sessions", "POST", "201")
	sendJSON(w, view, http.StatusCreated)
}

// ListSessions handles GET /api/sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/sessions").Observe(duration.Seconds())
	}()

	pageStr := r.URL.Query().Get("page")
	limitStr := r.URL.Query().Get("limit")

	// Default pagination
	page := 1
	limit := 20

	if pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	offset := (page - 1) * limit

	sessions, total, err := h.sessionService.ListSessions(ctx, limit, offset)
	if err != nil {
		h.logger.Error(ctx, "[API_LIST_SESSIONS_ERROR] Failed to list sessions", logging.Fields{
			"page":  page,
			"limit": limit,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/sessions")
		sendError(w, r, h.metrics, "failed to retrieve sessions", http.StatusInternalServerError)
		return
	}

	totalPages := (total + limit - 1) / limit

	response := PaginatedResponse{
		Data:       sessions,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}

	h.metrics.RecordAPIRequest("/api/sessions", "GET", "200")
	sendJSON(w, response, http.StatusOK)
}

// GetSession handles GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/sessions/{id}").Observe(duration.Seconds())
	}()

	id := mux.Vars(r)["id"]

	view, err := h.sessionService.GetSession(ctx, id)
	if err != nil {
		var notFound *repository.NotFoundError
		if errors.As(err, &notFound) {
			sendError(w, r, h.metrics, notFound.Error(), http.StatusNotFound)
			return
		}

		h.logger.Error(ctx, "[API_GET_SESSION_ERROR] Failed to get session", logging.Fields{
			"session_id": id,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/sessions/{id}")
		sendError(w, r, h.metrics, "failed to retrieve session", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/sessions/{id}", "GET", "200")
	sendJSON(w, view, http.StatusOK)
}

// DeleteSession handles DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/sessions/{id}").Observe(duration.Seconds())
	}()

	id := mux.Vars(r)["id"]

	if err := h.sessionService.DeleteSession(ctx, id); err != nil {
		var notFound *repository.NotFoundError
		if errors.As(err, &notFound) {
			sendError(w, r, h.metrics, notFound.Error(), http.StatusNotFound)
			return
		}

		h.logger.Error(ctx, "[API_DELETE_SESSION_ERROR] Failed to delete session", logging.Fields{
			"session_id": id,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/sessions/{id}")
		sendError(w, r, h.metrics, "failed to delete session", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/sessions/{id}", "DELETE", "204")
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health
func (h *SessionHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.sessionService.HealthCheck(ctx); err != nil {
		h.logger.Error(ctx, "[HEALTH_CHECK_ERROR] Health check failed", logging.Fields{}, err)
		sendJSON(w, map[string]string{
			"status":    "degraded",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}, http.StatusServiceUnavailable)
		return
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	sendJSON(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// RegisterRoutes registers all session API routes
func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/sessions", h.SaveSession).Methods("POST")
	router.HandleFunc("/api/sessions", h.ListSessions).Methods("GET")
	router.HandleFunc("/api/sessions/{id}", h.GetSession).Methods("GET")
	router.HandleFunc("/api/sessions/{id}", h.DeleteSession).Methods("DELETE")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
