package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"ForecastBoard/internal/dashboard"
	"ForecastBoard/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// DefaultSessionTTL is how long an idle browser session is kept.
const DefaultSessionTTL = 12 * time.Hour

// Server serves the dashboard.
type Server struct {
	Controller *dashboard.Controller
	Sessions   *SessionStore
}

// NewServer creates the dashboard server.
func NewServer(ctrl *dashboard.Controller, sessions *SessionStore) *Server {
	if sessions == nil {
		sessions = NewSessionStore(DefaultSessionTTL)
	}
	return &Server{Controller: ctrl, Sessions: sessions}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handleIndex)
	r.Post("/add", s.handleAdd)
	r.Get("/api/view", s.handleView)
	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

// HTTPServer wraps the routes in an http.Server. There is no write timeout: a render blocks
// on backend calls that carry no deadline of their own.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
