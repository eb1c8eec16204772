package game

import (
	"fmt"
	"time"

	"github.com/mellon2025/sinjin/internal/db"
)

// Phases reserved on the settings record. Nothing drives transitions
// between them yet; the field is accepted and validated only.
const (
	PhaseIdle      = "idle"
	PhaseTeam1Turn = "team1_turn"
	PhaseTeam2Turn = "team2_turn"
)

// OptionalID distinguishes the three states of a nullable id in a
// partial update: absent (Set false), explicit null (Set true, Value
// nil), and set (Set true, Value non-nil).
type OptionalID struct {
	Set   bool
	Value *int
}

// Update is a partial mutation of the settings record. Nil or unset
// fields leave the stored value untouched.
type Update struct {
	Command       *Command
	TimerDuration *int
	RoundTeam1    OptionalID
	RoundTeam2    OptionalID
	CurrentPhase  *string
}

func (u Update) Validate() error {
	if u.TimerDuration != nil && *u.TimerDuration <= 0 {
		return fmt.Errorf("timerDuration must be positive, got %d", *u.TimerDuration)
	}
	if u.CurrentPhase != nil {
		switch *u.CurrentPhase {
		case PhaseIdle, PhaseTeam1Turn, PhaseTeam2Turn:
		default:
			return fmt.Errorf("unknown phase %q", *u.CurrentPhase)
		}
	}
	return nil
}

// Apply writes the update onto the settings record. The timer command,
// when present, is applied before the other fields. Either round slot
// may be set, cleared, or left alone independently; the two slots are
// not validated against each other. Duration changes never rescale a
// running countdown, they only affect future derivations.
func (u Update) Apply(s *db.Settings, now time.Time) {
	if u.Command != nil {
		u.Command.Apply(s, now)
	}
	if u.TimerDuration != nil {
		s.TimerDuration = *u.TimerDuration
	}
	if u.RoundTeam1.Set {
		s.CurrentRoundTeam1ID = u.RoundTeam1.Value
	}
	if u.RoundTeam2.Set {
		s.CurrentRoundTeam2ID = u.RoundTeam2.Value
	}
	if u.CurrentPhase != nil {
		s.CurrentPhase = *u.CurrentPhase
	}
}
