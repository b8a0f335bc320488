// Package server exposes the lifelog HTTP API: one endpoint to submit
// a message to the conversational pipeline, plus health and record
// inspection endpoints.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lifelog/internal/engine"
	"lifelog/internal/store"
)

// Server is the lifelog HTTP API server.
type Server struct {
	db      *store.DB
	ctrl    *engine.Controller
	router  chi.Router
	log     *log.Logger
	version string
	started time.Time
}

// New creates a Server around the turn controller.
func New(db *store.DB, ctrl *engine.Controller, logger *log.Logger, version string) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		db:      db,
		ctrl:    ctrl,
		log:     logger,
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
		r.Post("/messages", s.handleMessage)
		r.Get("/records", s.handleRecords)
	})

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

// handleMessage runs one conversational turn. The user id doubles as
// the thread id, so each user's turns are processed in order while
// different users proceed concurrently.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, `{"error":"user_id required"}`, http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, `{"error":"text required"}`, http.StatusBadRequest)
		return
	}

	reply, err := s.ctrl.HandleTurn(r.Context(), req.UserID, req.Text)
	if err != nil {
		s.log.Error("turn failed", "user", req.UserID, "err", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"response": reply})
}

const defaultRecordLimit = 50

// handleRecords lists stored records for a user, optionally filtered
// by type or start date.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, `{"error":"user_id required"}`, http.StatusBadRequest)
		return
	}

	var (
		recs []store.StoredRecord
		err  error
	)
	if typ := r.URL.Query().Get("type"); typ != "" {
		recs, err = s.db.RecentRecordsByType(userID, typ, defaultRecordLimit)
	} else {
		since := r.URL.Query().Get("since")
		if since == "" {
			since = time.Now().AddDate(0, 0, -30).Format("2006-01-02")
		}
		recs, err = s.db.RecordsSince(userID, since)
	}
	if err != nil {
		s.log.Error("record query failed", "user", userID, "err", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"records": recs,
		"count":   len(recs),
	})
}
