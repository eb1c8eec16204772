package server

import (
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/mellon2025/sinjin/internal/config"
	"github.com/mellon2025/sinjin/internal/store"
)

type Server struct {
	store    store.Store
	cfg      config.Config
	sessions *sessionStore
	clock    clockwork.Clock
}

func New(st store.Store, cfg config.Config) *Server {
	return NewWithClock(st, cfg, clockwork.NewRealClock())
}

// NewWithClock injects the clock used for timer anchors. Tests pass a
// fake clock so countdown behavior is deterministic.
func NewWithClock(st store.Store, cfg config.Config, clock clockwork.Clock) *Server {
	return &Server{
		store:    st,
		cfg:      cfg,
		sessions: newSessionStore(st),
		clock:    clock,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleHomeView)
	mux.HandleFunc("GET /admin", s.handleAdminView)
	mux.HandleFunc("GET /login", s.handleLoginView)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/auth/me", s.handleMe)

	mux.HandleFunc("GET /api/teams", s.handleListTeams)
	mux.HandleFunc("POST /api/teams", s.handleCreateTeam)
	mux.HandleFunc("GET /api/teams/{id}", s.handleGetTeam)
	mux.HandleFunc("PUT /api/teams/{id}", s.handleUpdateTeam)
	mux.HandleFunc("DELETE /api/teams/{id}", s.handleDeleteTeam)
	mux.HandleFunc("GET /api/teams/{id}/members", s.handleListTeamMembers)
	mux.HandleFunc("POST /api/teams/{id}/join", s.handleJoinTeam)
	mux.HandleFunc("POST /api/teams/leave", s.handleLeaveTeam)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/questions", s.handleListQuestions)
	mux.HandleFunc("POST /api/questions", s.handleCreateQuestion)
	mux.HandleFunc("DELETE /api/questions/{id}", s.handleDeleteQuestion)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)

	mux.HandleFunc("GET /api/events", s.handleListEvents)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}
