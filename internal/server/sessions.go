package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/mellon2025/sinjin/internal/db"
	"github.com/mellon2025/sinjin/internal/store"
)

const sessionCookie = "sq_session"

var errNoSession = errors.New("no active session")

// sessionStore issues and resolves cookie sessions persisted through
// the Store, so logins survive restarts when a database is attached.
type sessionStore struct {
	store store.Store
}

func newSessionStore(st store.Store) *sessionStore {
	return &sessionStore{store: st}
}

func (s *sessionStore) Create(ctx context.Context, w http.ResponseWriter, userID int) error {
	id := uuid.NewString()
	if err := s.store.SaveSession(ctx, &db.Session{ID: id, UserID: userID}); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *sessionStore) CurrentUser(ctx context.Context, r *http.Request) (*db.User, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, errNoSession
	}
	session, err := s.store.GetSession(ctx, cookie.Value)
	if err != nil {
		return nil, errNoSession
	}
	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, errNoSession
	}
	return user, nil
}

func (s *sessionStore) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		_ = s.store.DeleteSession(ctx, cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
