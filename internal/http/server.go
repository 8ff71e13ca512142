// Package http serves the web UI and the JSON API. Handlers stay thin: they
// parse forms, call into the services, and translate errors into flash
// messages or JSON error bodies.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tally/internal/auth"
	"tally/internal/export"
	"tally/internal/ledger"
	"tally/internal/report"
	appweb "tally/web"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	http.Server
	templates *template.Template
	sessions  *sessionManager

	auth     *auth.Service
	ledger   *ledger.Service
	reports  *report.Engine
	exporter *export.Service

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
// A template or static FS problem fails construction; better to refuse to
// start than to serve 500s on every page.
func NewServer(addr string, authSvc *auth.Service, txSvc *ledger.Service, reports *report.Engine, exporter *export.Service, sessionSecret string, sessionTTL time.Duration) (*Server, error) {
	s := &Server{
		sessions:  newSessionManager(sessionSecret, sessionTTL),
		auth:      authSvc,
		ledger:    txSvc,
		reports:   reports,
		exporter:  exporter,
		startedAt: time.Now(),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	r := chi.NewRouter()
	r.Use(s.withRequestLog)

	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	r.Handle("/static/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
		static.ServeHTTP(w, r)
	}))

	r.Get("/", s.handleHome)
	r.Get("/healthz", s.handleHealth)
	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	// Pages behind a session; unauthenticated requests bounce to the login
	// page.
	r.Group(func(r chi.Router) {
		r.Use(s.requirePage)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/add", s.handleAddForm)
		r.Post("/add", s.handleAdd)
		r.Get("/transactions", s.handleTransactions)
		r.Post("/delete/{id}", s.handleDelete)
		r.Get("/edit/{id}", s.handleEditForm)
		r.Post("/edit/{id}", s.handleEdit)
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/profile", s.handleProfile)
		r.Get("/export", s.handleExport)
	})

	// JSON API; unauthenticated requests get a 401 body instead of a
	// redirect.
	r.Group(func(r chi.Router) {
		r.Use(s.requireAPI)
		r.Get("/api/monthly", s.handleAPIMonthly)
		r.Get("/api/categories", s.handleAPICategories)
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s, nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withRequestLog adds security headers, a request id, and start/finish log
// lines to every request.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.DebugContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

type contextKey string

const (
	userKey      contextKey = "user"
	requestIDKey contextKey = "request_id"
)

// requirePage redirects unauthenticated browsers to the login page.
func (s *Server) requirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := s.sessions.user(r)
		if !ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, username)))
	})
}

// requireAPI rejects unauthenticated API calls with a JSON 401.
func (s *Server) requireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := s.sessions.user(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauth"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, username)))
	})
}

// currentUser returns the authenticated username placed in the context by the
// session middleware.
func currentUser(r *http.Request) string {
	username, _ := r.Context().Value(userKey).(string)
	return username
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
