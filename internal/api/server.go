// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Staninbui/wood/internal/core"
	"github.com/Staninbui/wood/internal/store"
)

// Server holds the dependencies for our API.
type Server struct {
	app   *core.App
	db    *sql.DB
	store *store.Store
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{
		app:   app,
		db:    app.DB(),
		store: app.Store(),
	}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics

	// OAuth flow and session endpoints
	r.Get("/api/auth/login", s.handleAuthLogin)
	r.Get("/api/auth/callback", s.handleAuthCallback)
	r.Post("/api/auth/logout", s.handleAuthLogout)
	r.Get("/api/auth/status", s.handleAuthStatus)

	r.Get("/api/version", s.handleGetVersion)

	r.Group(func(r chi.Router) {
		r.Use(s.AuthMiddleware)

		r.Route("/api", func(r chi.Router) {
			// Report task lifecycle
			r.Post("/reports/generate", s.handleGenerateReport)
			r.Get("/reports/status", s.handleReportStatus)
			r.Get("/reports/recent", s.handleRecentReports)

			// Task operations
			r.Post("/tasks/query", s.handleQueryTasks)
			r.Get("/tasks/{taskID}/download", s.handleDownloadReport)
			r.Post("/tasks/{taskID}/enrich", s.handleEnrichTask)
			r.Get("/tasks/{taskID}/progress", s.handleGetProgress)
			r.Get("/tasks/{taskID}/progress/stream", s.handleStreamProgress)
			r.Delete("/tasks/{taskID}/progress", s.handleDeleteProgress)
			r.Get("/tasks/{taskID}/artifact", s.handleDownloadArtifact)

			// Admin Job Triggers
			r.Route("/admin", func(r chi.Router) {
				r.Get("/jobs/status", s.handleGetAdminJobsStatus)
				r.Post("/jobs/run", s.handleRunAdminJob)
			})
		})
	})

	// WebSocket route
	r.Get("/ws/progress", func(w http.ResponseWriter, r *http.Request) {
		s.app.WsHub().ServeWs(w, r)
	})

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.Ping(); err != nil {
			RespondWithError(w, http.StatusServiceUnavailable, "Database connection failed")
			return
		}
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{
		"version": s.app.Version(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
