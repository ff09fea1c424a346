package http

import "net/http"

// NewServer wires the API routes behind logging and CORS middleware.
func NewServer(h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/news", h.getNews)
	mux.HandleFunc("/api/health", h.healthCheck)
	mux.HandleFunc("/api/metrics", h.getMetrics)

	var handler http.Handler = mux
	handler = loggingMiddleware(handler)
	handler = corsMiddleware(handler)
	return handler
}
