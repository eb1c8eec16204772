package server

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mellon2025/sinjin/internal/web"
)

func (s *Server) handleHomeView(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	templ.Handler(web.Home(s.cfg.PollIntervalSeconds)).ServeHTTP(w, r)
}

func (s *Server) handleAdminView(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.CurrentUser(r.Context(), r); err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	templ.Handler(web.Admin(s.cfg.PollIntervalSeconds)).ServeHTTP(w, r)
}

func (s *Server) handleLoginView(w http.ResponseWriter, r *http.Request) {
	templ.Handler(web.Login()).ServeHTTP(w, r)
}
