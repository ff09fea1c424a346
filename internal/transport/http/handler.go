package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"joyfeed/internal/aggregate"
	"joyfeed/internal/logger"
	"joyfeed/internal/metrics"
)

type storyProvider interface {
	Stories(ctx context.Context, q aggregate.Query) (*aggregate.Result, error)
}

type Handler struct {
	provider storyProvider
	stats    *metrics.Metrics
}

func NewHandler(provider storyProvider, stats *metrics.Metrics) *Handler {
	return &Handler{provider: provider, stats: stats}
}

// getNews handles GET /api/news?q=&category=&region=&fast=.
func (h *Handler) getNews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
		return
	}

	params := r.URL.Query()
	fast, _ := strconv.ParseBool(params.Get("fast"))
	q := aggregate.Query{
		Text:     params.Get("q"),
		Category: params.Get("category"),
		Region:   params.Get("region"),
		Fast:     fast,
	}

	res, err := h.provider.Stories(r.Context(), q)
	if err != nil {
		logger.Error("failed to serve stories", "error", err)
		respondWithError(w, http.StatusInternalServerError, "aggregation failed", err.Error())
		return
	}

	// Filtered responses are derived per request and must not be cached by
	// intermediaries; region-scoped base responses may be.
	if q.BypassesCache() {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=300")
	}
	respondWithJSON(w, http.StatusOK, res)
}

// healthCheck reports pipeline health from the metrics status flags.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	stats := h.stats.GetStats()

	status := "ok"
	code := http.StatusOK
	if healthy, ok := stats["is_healthy"].(bool); ok && !healthy {
		status = "error"
		code = http.StatusServiceUnavailable
	}
	respondWithJSON(w, code, map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

// getMetrics dumps the full metrics snapshot.
func (h *Handler) getMetrics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.stats.GetStats())
}

func respondWithError(w http.ResponseWriter, code int, message, details string) {
	body := map[string]string{"error": message}
	if details != "" {
		body["details"] = details
	}
	respondWithJSON(w, code, body)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}
