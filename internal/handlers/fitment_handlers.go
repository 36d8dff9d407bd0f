package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"fitment-platform/internal/fitment"
	"fitment-platform/internal/services"
	"fitment-platform/pkg/logging"
	"fitment-platform/pkg/metrics"
)

// FitmentHandler handles calculation API endpoints
type FitmentHandler struct {
	fitmentService *services.FitmentService
	logger         *logging.StructuredLogger
	metrics        *metrics.Collector
}

// NewFitmentHandler creates a new fitment handler
func NewFitmentHandler(
	fitmentService *services.FitmentService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *FitmentHandler {
	return &FitmentHandler{
		fitmentService: fitmentService,
		logger:         logger,
		metrics:        metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// ParseResponse echoes the raw input with its parse outcome. Parsed is
// deliberately not omitempty: clients distinguish "unparsable" by an
// explicit null.
type ParseResponse struct {
	Input  string              `json:"input"`
	Parsed *fitment.ParsedSize `json:"parsed"`
}

// ScrubRequest carries one setup plus the steering-geometry inputs.
type ScrubRequest struct {
	Setup                 fitment.Fields `json:"setup"`
	KingpinInclinationDeg *float64       `json:"kingpin_inclination_deg,omitempty"`
	HubOffsetMM           *float64       `json:"hub_offset_mm,omitempty"`
}

// ScrubResponse reports the estimate, null when it cannot be computed.
type ScrubResponse struct {
	ScrubRadiusMM *float64 `json:"scrub_radius_mm"`
}

// ParseSize handles GET /api/fitment/parse
func (h *FitmentHandler) ParseSize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/fitment/parse").Observe(duration.Seconds())
	}()

	size := r.URL.Query().Get("size")
	if size == "" {
		sendError(w, r, h.metrics, "missing size query parameter", http.StatusBadRequest)
		return
	}

	response := ParseResponse{
		Input:  size,
		Parsed: h.fitmentService.ParseSize(ctx, size),
	}

	h.metrics.RecordAPIRequest("/api/fitment/parse", "GET", "200")
	sendJSON(w, response, http.StatusOK)
}

// ResolveSetup handles POST /api/fitment/setup
func (h *FitmentHandler) ResolveSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/fitment/setup").Observe(duration.Seconds())
	}()

	var fields fitment.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		sendError(w, r, h.metrics, "invalid JSON body", http.StatusBadRequest)
		return
	}

	setup := h.fitmentService.ResolveSetup(ctx, fields)

	h.metrics.RecordAPIRequest("/api/fitment/setup", "POST", "200")
	sendJSON(w, setup, http.StatusOK)
}

// Compare handles POST /api/fitment/compare
func (h *FitmentHandler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/fitment/compare").Observe(duration.Seconds())
	}()

	var req services.ComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, r, h.metrics, "invalid JSON body", http.StatusBadRequest)
		return
	}

	report, err := h.fitmentService.Compare(ctx, req)
	if err != nil {
		var mismatchErr *services.MismatchError
		if errors.As(err, &mismatchErr) {
			h.metrics.RecordAPIError("diameter_mismatch", "/api/fitment/compare")
			sendError(w, r, h.metrics, mismatchErr.Error(), http.StatusUnprocessableEntity)
			return
		}

		h.logger.Error(ctx, "[API_COMPARE_ERROR] Comparison failed", logging.Fields{
			"baseline_size":  req.Baseline.TireSize,
			"candidate_size": req.Candidate.TireSize,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/fitment/compare")
		sendError(w, r, h.metrics, "failed to compute comparison", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/fitment/compare", "POST", "200")
	sendJSON(w, report, http.StatusOK)
}

// EstimateScrub handles POST /api/fitment/scrub
func (h *FitmentHandler) EstimateScrub(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/fitment/scrub").Observe(duration.Seconds())
	}()

	var req ScrubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, r, h.metrics, "invalid JSON body", http.StatusBadRequest)
		return
	}

	response := ScrubResponse{
		ScrubRadiusMM: h.fitmentService.EstimateScrub(ctx, req.Setup, req.KingpinInclinationDeg, req.HubOffsetMM),
	}

	h.metrics.RecordAPIRequest("/api/fitment/scrub", "POST", "200")
	sendJSON(w, response, http.StatusOK)
}

// RegisterRoutes registers all calculation API routes
func (h *FitmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/fitment/parse", h.ParseSize).Methods("GET")
	router.HandleFunc("/api/fitment/setup", h.ResolveSetup).Methods("POST")
	router.HandleFunc("/api/fitment/compare", h.Compare).Methods("POST")
	router.HandleFunc("/api/fitment/scrub", h.EstimateScrub).Methods("POST")
}

// sendJSON sends a JSON response
func sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func sendError(w http.ResponseWriter, r *http.Request, metricsCollector *metrics.Collector, message string, statusCode int) {
	metricsCollector.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	sendJSON(w, response, statusCode)
}
