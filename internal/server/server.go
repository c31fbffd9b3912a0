package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/keepsakehq/keepsake/internal/journal"
	"github.com/keepsakehq/keepsake/internal/store"
)

// Server is the keepsake HTTP API server.
type Server struct {
	db      *store.DB
	journal *journal.Journal
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server with the given database, journal, and version string.
func New(db *store.DB, j *journal.Journal, version string) *Server {
	s := &Server{
		db:      db,
		journal: j,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)
		r.Get("/streak", s.handleStreak)
		r.Get("/moods", s.handleMoods)

		r.Post("/memories", s.handleSaveMemory)
		r.Get("/memories", s.handleTimeline)
		r.Get("/memories/{dayKey}", s.handleGetMemory)
		r.Get("/memories/{dayKey}/photo", s.handleGetPhoto)
		r.Get("/memories/{dayKey}/card", s.handleGetCard)
	})

	r.Get("/*", spaHandler())

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}
