package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"gorm.io/datatypes"

	"github.com/mellon2025/sinjin/internal/db"
	"github.com/mellon2025/sinjin/internal/store"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"message": message,
	})
}

// writeStoreError maps store sentinels onto the API error taxonomy.
func writeStoreError(w http.ResponseWriter, err error, label string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, label+" not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusBadRequest, label+" already exists")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

// requireUser resolves the session user or writes a 401. Mutations are
// gated on an authenticated session only; admin-or-not is not an API
// distinction.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (*db.User, bool) {
	user, err := s.sessions.CurrentUser(r.Context(), r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return user, true
}

// appendEvent records an audit row. Failures are logged, never
// surfaced: the audit trail must not fail the mutation it describes.
func (s *Server) appendEvent(r *http.Request, eventType string, userID *int, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("event payload marshal failed type=%s error=%v", eventType, err)
		return
	}
	event := &db.Event{
		Type:      eventType,
		UserID:    userID,
		Payload:   datatypes.JSON(data),
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.store.AppendEvent(r.Context(), event); err != nil {
		log.Printf("append event failed type=%s error=%v", eventType, err)
	}
}
