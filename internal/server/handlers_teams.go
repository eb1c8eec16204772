package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mellon2025/sinjin/internal/db"
)

type createTeamRequest struct {
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	LogoURL    *string `json:"logoUrl"`
	Type       string  `json:"type"`
	InviteCode *string `json:"inviteCode"`
}

type joinTeamRequest struct {
	InviteCode string `json:"inviteCode"`
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.store.ListTeams(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load teams")
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req createTeamRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "team payload is invalid")
		return
	}
	name, err := validateTeamName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	color, err := validateColor(req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	teamType, err := validateTeamType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	inviteCode := req.InviteCode
	if teamType == db.TeamTypeInviteOnly && (inviteCode == nil || strings.TrimSpace(*inviteCode) == "") {
		code := strings.ToUpper(uuid.NewString()[:8])
		inviteCode = &code
	}
	team := &db.Team{
		Name:       name,
		Color:      color,
		LogoURL:    req.LogoURL,
		Type:       teamType,
		InviteCode: inviteCode,
	}
	if err := s.store.CreateTeam(r.Context(), team); err != nil {
		writeStoreError(w, err, "team name")
		return
	}
	role := db.TeamRoleFounder
	if _, err := s.store.UpdateUserTeam(r.Context(), user.ID, &team.ID, &role); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to assign founder")
		return
	}
	s.appendEvent(r, "team_created", &user.ID, map[string]any{"teamId": team.ID, "name": team.Name})
	log.Printf("team created team_id=%d name=%s founder_id=%d", team.ID, team.Name, user.ID)
	writeJSON(w, http.StatusCreated, team)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	team, err := s.store.GetTeam(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "team")
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// handleUpdateTeam applies a partial team update. Key presence decides
// which fields change; points is an absolute set with no floor or
// ceiling applied here.
func (s *Server) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "team payload is invalid")
		return
	}
	var pointsChanged bool
	var newPoints int
	team, err := s.store.UpdateTeam(r.Context(), id, func(team *db.Team) error {
		for key, raw := range fields {
			switch key {
			case "name":
				var value string
				if err := json.Unmarshal(raw, &value); err != nil {
					return errValidation("name must be a string")
				}
				name, err := validateTeamName(value)
				if err != nil {
					return errValidation(err.Error())
				}
				team.Name = name
			case "color":
				var value string
				if err := json.Unmarshal(raw, &value); err != nil {
					return errValidation("color must be a string")
				}
				color, err := validateColor(value)
				if err != nil {
					return errValidation(err.Error())
				}
				team.Color = color
			case "logoUrl":
				var value *string
				if err := json.Unmarshal(raw, &value); err != nil {
					return errValidation("logoUrl must be a string or null")
				}
				if value != nil && len(*value) > maxLogoURLLength {
					return errValidation("logoUrl is too long")
				}
				team.LogoURL = value
			case "type":
				var value string
				if err := json.Unmarshal(raw, &value); err != nil {
					return errValidation("type must be a string")
				}
				teamType, err := validateTeamType(value)
				if err != nil {
					return errValidation(err.Error())
				}
				team.Type = teamType
			case "inviteCode":
				var value *string
				if err := json.Unmarshal(raw, &value); err != nil {
					return errValidation("inviteCode must be a string or null")
				}
				if value != nil && len(*value) > maxInviteCodeLen {
					return errValidation("inviteCode is too long")
				}
				team.InviteCode = value
			case "points":
				var value int
				if err := json.Unmarshal(raw, &value); err != nil {
					return errValidation("points must be an integer")
				}
				team.Points = value
				pointsChanged = true
				newPoints = value
			case "rank":
				var value int
				if err := json.Unmarshal(raw, &value); err != nil {
					return errValidation("rank must be an integer")
				}
				team.Rank = value
			default:
				return errValidation("unknown team field " + key)
			}
		}
		return nil
	})
	if err != nil {
		var verr validationError
		if asValidation(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeStoreError(w, err, "team")
		return
	}
	if pointsChanged {
		s.appendEvent(r, "team_points_adjusted", &user.ID, map[string]any{"teamId": team.ID, "points": newPoints})
		log.Printf("team points adjusted team_id=%d points=%d user_id=%d", team.ID, newPoints, user.ID)
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) handleListTeamMembers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	if _, err := s.store.GetTeam(r.Context(), id); err != nil {
		writeStoreError(w, err, "team")
		return
	}
	members, err := s.store.ListTeamMembers(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load team members")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	if err := s.store.DeleteTeam(r.Context(), id); err != nil {
		writeStoreError(w, err, "team")
		return
	}
	s.appendEvent(r, "team_deleted", &user.ID, map[string]any{"teamId": id})
	log.Printf("team deleted team_id=%d user_id=%d", id, user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleJoinTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid team id")
		return
	}
	var req joinTeamRequest
	_ = readJSON(r.Body, &req)

	team, err := s.store.GetTeam(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "team")
		return
	}
	if team.Type == db.TeamTypeInviteOnly {
		if team.InviteCode == nil || req.InviteCode != *team.InviteCode {
			writeError(w, http.StatusBadRequest, "invalid invite code")
			return
		}
	}
	role := db.TeamRoleMember
	updated, err := s.store.UpdateUserTeam(r.Context(), user.ID, &team.ID, &role)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	log.Printf("user joined team user_id=%d team_id=%d", user.ID, team.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleLeaveTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	updated, err := s.store.UpdateUserTeam(r.Context(), user.ID, nil, nil)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	log.Printf("user left team user_id=%d", user.ID)
	writeJSON(w, http.StatusOK, updated)
}
