package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new HTTP router with configured routes, middleware, and handlers.
// It sets up download and file routes, health check, and Prometheus metrics endpoint.
func NewRouter(runner DownloadRunner, files FileStore, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	handler := NewDownloadHandler(runner, files, logger)

	r.Post("/download", handler.Download)
	r.Get("/progress", handler.Progress)

	r.Get("/download_file/{filename}", handler.ServeFile)
	r.Post("/delete/{filename}", handler.DeleteFile)

	r.Route("/files", func(r chi.Router) {
		r.Get("/", handler.ListFiles)
		r.Delete("/{filename}", handler.DeleteFile)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
