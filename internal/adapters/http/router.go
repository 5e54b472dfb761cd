package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kirillkom/content-moderation/internal/core/domain"
	"github.com/kirillkom/content-moderation/internal/core/ports"
)

type Router struct {
	enqueuer ports.ReviewEnqueuer
	reports  ports.ReportRepository
}

func NewRouter(enqueuer ports.ReviewEnqueuer, reports ports.ReportRepository) *Router {
	return &Router{
		enqueuer: enqueuer,
		reports:  reports,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/reviews", rt.enqueueReview)
	mux.HandleFunc("/v1/reviews/", rt.getReportByID)
	return requestIDMiddleware(accessLogMiddleware(mux))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) enqueueReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		ContentID   string `json:"content_id"`
		ContentType string `json:"content_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	task := domain.ReviewTask{
		ContentID:   req.ContentID,
		ContentType: req.ContentType,
	}
	if err := rt.enqueuer.Enqueue(r.Context(), task); err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":     "queued",
		"content_id": task.ContentID,
	})
}

func (rt *Router) getReportByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/reviews/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "report id is required"})
		return
	}

	report, err := rt.reports.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
