package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/mellon2025/sinjin/internal/db"
	"github.com/mellon2025/sinjin/internal/game"
)

// handleGetSettings is the read side of the polling protocol. It
// returns only the authoritative anchor fields; every client derives
// remaining time locally, so two clients polling at different instants
// still agree.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// parseSettingsUpdate decodes a partial settings payload. Key presence
// decides what changes; an explicit null clears a round slot.
func parseSettingsUpdate(body io.Reader) (game.Update, error) {
	var update game.Update
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&fields); err != nil {
		return update, fmt.Errorf("settings payload is invalid")
	}
	for key, raw := range fields {
		switch key {
		case "command":
			var value string
			if err := json.Unmarshal(raw, &value); err != nil {
				return update, fmt.Errorf("command must be a string")
			}
			command, err := game.ParseCommand(value)
			if err != nil {
				return update, err
			}
			update.Command = &command
		case "timerDuration":
			var value int
			if err := json.Unmarshal(raw, &value); err != nil {
				return update, fmt.Errorf("timerDuration must be an integer")
			}
			update.TimerDuration = &value
		case "currentRoundTeam1Id":
			var value *int
			if err := json.Unmarshal(raw, &value); err != nil {
				return update, fmt.Errorf("currentRoundTeam1Id must be an integer or null")
			}
			update.RoundTeam1 = game.OptionalID{Set: true, Value: value}
		case "currentRoundTeam2Id":
			var value *int
			if err := json.Unmarshal(raw, &value); err != nil {
				return update, fmt.Errorf("currentRoundTeam2Id must be an integer or null")
			}
			update.RoundTeam2 = game.OptionalID{Set: true, Value: value}
		case "currentPhase":
			var value string
			if err := json.Unmarshal(raw, &value); err != nil {
				return update, fmt.Errorf("currentPhase must be a string")
			}
			update.CurrentPhase = &value
		default:
			return update, fmt.Errorf("unknown settings field %q", key)
		}
	}
	return update, nil
}

// handleUpdateSettings is the single writer path for the competition
// record: timer commands, duration changes, and round pairing all land
// here. The command, when present, is translated before other fields
// apply. Concurrent admins race at last-write-wins granularity.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	update, err := parseSettingsUpdate(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := update.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := s.clock.Now().UTC()
	settings, err := s.store.UpdateSettings(r.Context(), func(settings *db.Settings) error {
		update.Apply(settings, now)
		return nil
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	if update.Command != nil {
		s.appendEvent(r, "timer_"+string(*update.Command), &user.ID, map[string]any{
			"timerDuration": settings.TimerDuration,
			"timerActive":   settings.TimerActive,
		})
		log.Printf("timer command applied command=%s duration=%d active=%t user_id=%d",
			*update.Command, settings.TimerDuration, settings.TimerActive, user.ID)
	}
	if update.RoundTeam1.Set || update.RoundTeam2.Set {
		s.appendEvent(r, "round_paired", &user.ID, map[string]any{
			"team1Id": settings.CurrentRoundTeam1ID,
			"team2Id": settings.CurrentRoundTeam2ID,
		})
		log.Printf("round pairing updated team1=%v team2=%v user_id=%d",
			idOrNone(settings.CurrentRoundTeam1ID), idOrNone(settings.CurrentRoundTeam2ID), user.ID)
	}
	if update.TimerDuration != nil && update.Command == nil {
		log.Printf("timer duration updated duration=%d user_id=%d", settings.TimerDuration, user.ID)
	}

	writeJSON(w, http.StatusOK, settings)
}

func idOrNone(id *int) any {
	if id == nil {
		return "none"
	}
	return *id
}
