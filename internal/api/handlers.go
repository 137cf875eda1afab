package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/sentinelstack/sentinel-rca/internal/intake"
	"github.com/sentinelstack/sentinel-rca/internal/metrics"
	"github.com/sentinelstack/sentinel-rca/internal/services"
	"github.com/sentinelstack/sentinel-rca/internal/utils"
)

// Handler exposes the analysis service over HTTP/JSON.
type Handler struct {
	svc    *services.AnalysisService
	logger *slog.Logger
}

// NewHandler constructs the HTTP handler set.
func NewHandler(svc *services.AnalysisService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes builds the router with all API endpoints registered.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/analyze", h.handleAnalyze).Methods(http.MethodPost)
	v1.HandleFunc("/root-causes", h.handleListRootCauses).Methods(http.MethodGet)
	v1.HandleFunc("/remediation/categories", h.handleCategories).Methods(http.MethodGet)

	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	return r
}

// handleAnalyze runs one analysis over the posted batch and returns the
// ranked report. Individual bad records are skipped and counted, never fatal;
// a malformed envelope fails the run and is counted as an errored analysis.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	batch, err := intake.DecodeBatch(r.Body)
	if err != nil {
		metrics.ObserveAnalysis(time.Since(start), metrics.OutcomeError)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.svc.Run(r.Context(), batch.Records)
	if err != nil {
		h.logger.Error("analysis run failed", slog.Any("error", err))
		metrics.ObserveAnalysis(time.Since(start), metrics.OutcomeError)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	report.SkippedRecords += batch.Skipped

	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleListRootCauses(w http.ResponseWriter, r *http.Request) {
	service := r.URL.Query().Get("service")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := utils.ParseRFC3339(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be an RFC3339 timestamp")
			return
		}
		since = t
	}

	results, err := h.svc.History(r.Context(), service, limit)
	if err != nil {
		h.logger.Error("history lookup failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list root causes")
		return
	}
	if !since.IsZero() {
		filtered := results[:0]
		for _, res := range results {
			if !res.AnalysisTimestamp.Before(since) {
				filtered = append(filtered, res)
			}
		}
		results = filtered
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(results),
		"root_causes": results,
	})
}

func (h *Handler) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": h.svc.Categories(),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
