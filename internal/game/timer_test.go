package game

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/mellon2025/sinjin/internal/db"
)

func TestRemainingWhileRunning(t *testing.T) {
	cases := []struct {
		name     string
		duration int
		elapsed  time.Duration
		want     time.Duration
	}{
		{"just started", 120, 0, 120 * time.Second},
		{"mid countdown", 120, 10 * time.Second, 110 * time.Second},
		{"sub-second elapsed", 120, 1500 * time.Millisecond, 118500 * time.Millisecond},
		{"last second", 120, 119 * time.Second, time.Second},
		{"exactly expired", 120, 120 * time.Second, 0},
		{"past expiry", 120, 500 * time.Second, 0},
		{"short timer", 5, 2 * time.Second, 3 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clock := clockwork.NewFakeClock()
			start := clock.Now()
			settings := &db.Settings{
				ID:             db.SettingsID,
				TimerDuration:  tc.duration,
				TimerActive:    true,
				TimerStartTime: &start,
			}
			clock.Advance(tc.elapsed)
			if got := Remaining(settings, clock.Now()); got != tc.want {
				t.Fatalf("expected remaining %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRemainingIdleIsFullDuration(t *testing.T) {
	settings := &db.Settings{ID: db.SettingsID, TimerDuration: 120}
	if got := Remaining(settings, time.Now()); got != 120*time.Second {
		t.Fatalf("expected full duration, got %v", got)
	}
	if got := Fraction(settings, time.Now()); got != 1 {
		t.Fatalf("expected fraction 1, got %f", got)
	}
}

func TestRemainingZeroDuration(t *testing.T) {
	clock := clockwork.NewFakeClock()
	start := clock.Now()
	settings := &db.Settings{
		ID:             db.SettingsID,
		TimerDuration:  0,
		TimerActive:    true,
		TimerStartTime: &start,
	}
	if got := Remaining(settings, clock.Now()); got != 0 {
		t.Fatalf("expected zero remaining, got %v", got)
	}
	if got := Fraction(settings, clock.Now()); got != 0 {
		t.Fatalf("expected zero fraction, got %f", got)
	}
}

func TestStartRestartsClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	settings := &db.Settings{ID: db.SettingsID, TimerDuration: 120}

	CommandStart.Apply(settings, clock.Now())
	first := *settings.TimerStartTime
	clock.Advance(30 * time.Second)
	CommandStart.Apply(settings, clock.Now())

	if !settings.TimerActive {
		t.Fatal("expected timer active after start")
	}
	if !settings.TimerStartTime.After(first) {
		t.Fatal("expected second start to overwrite the start anchor")
	}
	if got := Remaining(settings, clock.Now()); got != 120*time.Second {
		t.Fatalf("expected restart from full duration, got %v", got)
	}
}

func TestStopFreezesRemaining(t *testing.T) {
	clock := clockwork.NewFakeClock()
	settings := &db.Settings{ID: db.SettingsID, TimerDuration: 120}

	CommandStart.Apply(settings, clock.Now())
	clock.Advance(10 * time.Second)
	CommandStop.Apply(settings, clock.Now())

	if settings.TimerActive {
		t.Fatal("expected timer inactive after stop")
	}
	if settings.TimerStartTime == nil {
		t.Fatal("expected stop to retain the start anchor")
	}

	frozen := Remaining(settings, clock.Now())
	if frozen != 110*time.Second {
		t.Fatalf("expected 110s frozen, got %v", frozen)
	}
	clock.Advance(20 * time.Second)
	if got := Remaining(settings, clock.Now()); got != frozen {
		t.Fatalf("expected no decay while stopped, got %v then %v", frozen, got)
	}
}

func TestStopWhenNotRunningIsNoop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	settings := &db.Settings{ID: db.SettingsID, TimerDuration: 120}

	CommandStop.Apply(settings, clock.Now())
	if settings.TimerStartTime != nil || settings.TimerStopTime != nil {
		t.Fatal("expected stop on idle timer to leave anchors untouched")
	}

	CommandStart.Apply(settings, clock.Now())
	clock.Advance(10 * time.Second)
	CommandStop.Apply(settings, clock.Now())
	frozen := Remaining(settings, clock.Now())

	clock.Advance(5 * time.Second)
	CommandStop.Apply(settings, clock.Now())
	if got := Remaining(settings, clock.Now()); got != frozen {
		t.Fatalf("expected repeated stop to keep frozen value %v, got %v", frozen, got)
	}
}

func TestResetYieldsFullDuration(t *testing.T) {
	clock := clockwork.NewFakeClock()
	settings := &db.Settings{ID: db.SettingsID, TimerDuration: 120}

	CommandStart.Apply(settings, clock.Now())
	clock.Advance(45 * time.Second)
	CommandReset.Apply(settings, clock.Now())

	if settings.TimerActive || settings.TimerStartTime != nil || settings.TimerStopTime != nil {
		t.Fatal("expected reset to clear all anchors")
	}
	if got := Remaining(settings, clock.Now()); got != 120*time.Second {
		t.Fatalf("expected full duration after reset, got %v", got)
	}
}

func TestDurationChangeDoesNotRescaleRunningTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	settings := &db.Settings{ID: db.SettingsID, TimerDuration: 120}

	CommandStart.Apply(settings, clock.Now())
	clock.Advance(10 * time.Second)

	duration := 60
	update := Update{TimerDuration: &duration}
	update.Apply(settings, clock.Now())

	// Still anchored at the original start; only the budget changed.
	if got := Remaining(settings, clock.Now()); got != 50*time.Second {
		t.Fatalf("expected 50s against the new duration, got %v", got)
	}
	if settings.TimerStartTime == nil || !settings.TimerActive {
		t.Fatal("expected running timer to keep its anchors")
	}
}

func TestParseCommand(t *testing.T) {
	for _, raw := range []string{"start", "stop", "reset"} {
		if _, err := ParseCommand(raw); err != nil {
			t.Fatalf("expected %q to parse, got %v", raw, err)
		}
	}
	for _, raw := range []string{"", "pause", "START", "resume"} {
		if _, err := ParseCommand(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestFraction(t *testing.T) {
	clock := clockwork.NewFakeClock()
	start := clock.Now()
	settings := &db.Settings{
		ID:             db.SettingsID,
		TimerDuration:  120,
		TimerActive:    true,
		TimerStartTime: &start,
	}
	clock.Advance(10 * time.Second)
	got := Fraction(settings, clock.Now())
	want := 110.0 / 120.0
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected fraction %f, got %f", want, got)
	}
}
