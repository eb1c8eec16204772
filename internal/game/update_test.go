package game

import (
	"testing"
	"time"

	"github.com/mellon2025/sinjin/internal/db"
)

func intPtr(v int) *int { return &v }

func TestUpdateValidate(t *testing.T) {
	if err := (Update{}).Validate(); err != nil {
		t.Fatalf("expected empty update to validate, got %v", err)
	}
	if err := (Update{TimerDuration: intPtr(0)}).Validate(); err == nil {
		t.Fatal("expected zero duration to be rejected")
	}
	if err := (Update{TimerDuration: intPtr(-5)}).Validate(); err == nil {
		t.Fatal("expected negative duration to be rejected")
	}
	phase := "team1_turn"
	if err := (Update{CurrentPhase: &phase}).Validate(); err != nil {
		t.Fatalf("expected known phase to validate, got %v", err)
	}
	bad := "halftime"
	if err := (Update{CurrentPhase: &bad}).Validate(); err == nil {
		t.Fatal("expected unknown phase to be rejected")
	}
}

func TestUpdateRoundSlotsArePartial(t *testing.T) {
	settings := &db.Settings{ID: db.SettingsID, TimerDuration: 120}
	now := time.Now()

	update := Update{RoundTeam1: OptionalID{Set: true, Value: intPtr(5)}}
	update.Apply(settings, now)
	if settings.CurrentRoundTeam1ID == nil || *settings.CurrentRoundTeam1ID != 5 {
		t.Fatal("expected team1 slot set to 5")
	}

	update = Update{RoundTeam2: OptionalID{Set: true, Value: intPtr(7)}}
	update.Apply(settings, now)
	if settings.CurrentRoundTeam1ID == nil || *settings.CurrentRoundTeam1ID != 5 {
		t.Fatal("expected team1 slot untouched by team2 update")
	}
	if settings.CurrentRoundTeam2ID == nil || *settings.CurrentRoundTeam2ID != 7 {
		t.Fatal("expected team2 slot set to 7")
	}

	update = Update{RoundTeam1: OptionalID{Set: true}}
	update.Apply(settings, now)
	if settings.CurrentRoundTeam1ID != nil {
		t.Fatal("expected explicit null to clear team1 slot")
	}
	if settings.CurrentRoundTeam2ID == nil || *settings.CurrentRoundTeam2ID != 7 {
		t.Fatal("expected team2 slot to survive team1 clear")
	}
}

func TestUpdateAllowsIdenticalRoundTeams(t *testing.T) {
	settings := &db.Settings{ID: db.SettingsID, TimerDuration: 120}
	update := Update{
		RoundTeam1: OptionalID{Set: true, Value: intPtr(3)},
		RoundTeam2: OptionalID{Set: true, Value: intPtr(3)},
	}
	if err := update.Validate(); err != nil {
		t.Fatalf("expected identical slots to be permitted, got %v", err)
	}
	update.Apply(settings, time.Now())
	if *settings.CurrentRoundTeam1ID != 3 || *settings.CurrentRoundTeam2ID != 3 {
		t.Fatal("expected both slots to hold team 3")
	}
}

func TestUpdateCommandAppliedBeforeFields(t *testing.T) {
	settings := &db.Settings{ID: db.SettingsID, TimerDuration: 120}
	now := time.Now()
	command := CommandStart
	duration := 90
	update := Update{Command: &command, TimerDuration: &duration}
	update.Apply(settings, now)

	if !settings.TimerActive {
		t.Fatal("expected command to apply")
	}
	if settings.TimerDuration != 90 {
		t.Fatalf("expected duration 90, got %d", settings.TimerDuration)
	}
	if got := Remaining(settings, now); got != 90*time.Second {
		t.Fatalf("expected remaining from updated duration, got %v", got)
	}
}
