package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hpungsan/kcal/internal/config"
	"github.com/hpungsan/kcal/internal/logger"
	"github.com/hpungsan/kcal/internal/tracker"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// NewServer creates and configures the HTTP server for the kcal web UI.
// display must be the View tr was constructed with.
func NewServer(tr *tracker.Tracker, display *Display, cfg *config.Config, log *logger.Logger, version string) *http.Server {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "web")

	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		log.Fatal("failed to create template sub-FS", "error", err)
	}

	// Create sub-FS for static files (strip "static/" prefix)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatal("failed to create static sub-FS", "error", err)
	}

	h := &Handlers{
		tracker:  tr,
		display:  display,
		renderer: NewRenderer(templateSub, version, log),
	}

	mux := http.NewServeMux()
	h.routes(mux)

	// Static file server
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port),
		Handler:           securityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// routes registers the page and API handlers using Go 1.22+ pattern syntax.
func (h *Handlers) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleDashboard)
	mux.HandleFunc("POST /meals", h.HandleAdd)
	mux.HandleFunc("POST /workouts", h.HandleAdd)
	mux.HandleFunc("DELETE /{kind}/{id}", h.HandleRemove)
	mux.HandleFunc("POST /{kind}/{id}/delete", h.HandleRemove)
	mux.HandleFunc("POST /limit", h.HandleSetLimit)
	mux.HandleFunc("POST /reset", h.HandleReset)
	mux.HandleFunc("GET /report", h.HandleReport)
	mux.HandleFunc("GET /api/summary", h.HandleSummary)
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("kcal UI running", "url", "http://"+srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
