// Package server serves the generated web_app directory over HTTP so the
// converted data can be previewed in a browser.
package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/nconklindev/excipients/internal/config"
	"github.com/nconklindev/excipients/internal/logging"
	"github.com/nconklindev/excipients/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var mimeTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// MimeType returns the Content-Type served for a file name.
func MimeType(name string) string {
	if t, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return "application/octet-stream"
}

// CacheControl returns the Cache-Control header for a file name. Data files
// change on every conversion and are never cached.
func CacheControl(name string) string {
	if strings.HasSuffix(name, ".json") {
		return "no-cache"
	}
	return "public, max-age=3600"
}

// Server represents the HTTP server
type Server struct {
	server   *http.Server
	router   chi.Router
	config   *config.ServerConfig
	registry *prometheus.Registry
}

// NewServer creates a new server instance
func NewServer(cfg *config.ServerConfig) *Server {
	router := chi.NewRouter()

	s := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Addr(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:   router,
		config:   cfg,
		registry: prometheus.NewRegistry(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	collector := metrics.NewCollector(s.registry)

	s.router.Use(middleware.RequestID)
	s.router.Use(loggingMiddleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(collector.Middleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.router.Get("/*", s.serveFile)
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	dir, err := filepath.Abs(s.config.WebDir)
	if err != nil {
		dir = s.config.WebDir
	}
	logging.Info("Starting preview server", "url", "http://"+s.server.Addr, "dir", dir)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down preview server")
	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		return s.server.Close()
	}
	logging.Info("Server exited gracefully")
	return nil
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if name == "/" {
		name = "/index.html"
	}
	filePath := filepath.Join(s.config.WebDir, filepath.FromSlash(name))

	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		writePage(w, http.StatusNotFound, "404 - Page not found",
			fmt.Sprintf("The requested file <code>%s</code> does not exist", html.EscapeString(name)))
		return
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		logging.Error("Failed to read file", "file", filePath, "error", err)
		writePage(w, http.StatusInternalServerError, "500 - Server error",
			"An error occurred while reading the file")
		return
	}

	w.Header().Set("Content-Type", MimeType(name))
	w.Header().Set("Cache-Control", CacheControl(name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write response", "file", filePath, "error", err)
	}
}

func writePage(w http.ResponseWriter, code int, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>%[1]s</title>
  <style>
    body { font-family: Arial, sans-serif; text-align: center; padding: 50px; }
    h1 { color: #e74c3c; }
  </style>
</head>
<body>
  <h1>%[1]s</h1>
  <p>%[2]s</p>
  <a href="/">Back to home</a>
</body>
</html>
`, title, body)
}
