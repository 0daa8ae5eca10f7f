package api

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"

	"github.com/gometeo/tripview/internal/api/handlers"
)

// NewRouter собирает страницу, JSON API и цепочку middleware.
func NewRouter(h *handlers.SearchHandler, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()

	// страница
	router.HandleFunc("/", h.Index).Methods("GET")
	router.HandleFunc("/search", h.SearchPage).Methods("GET")

	// API маршруты
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/search", h.SearchJSON).Methods("GET")
	api.HandleFunc("/search/stream", h.SearchStream).Methods("GET")
	api.HandleFunc("/health", h.HealthCheck).Methods("GET")

	router.Use(recoveryMiddleware(logger))
	router.Use(loggingMiddleware(logger))
	router.Use(handlers.SessionMiddleware)

	return router
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rw, r)

			logger.Info("HTTP запрос",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"user_agent", r.UserAgent(),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Перехвачена паника", "error", err, "stack", string(debug.Stack()))
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Кастомный ResponseWriter для отслеживания статуса
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush нужен для server-sent events через обертку
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
