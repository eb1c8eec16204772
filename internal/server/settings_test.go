package server

import (
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func settingsRemaining(t *testing.T, body map[string]any, now time.Time) float64 {
	t.Helper()
	duration := body["timerDuration"].(float64)
	if duration <= 0 {
		return 0
	}
	active, _ := body["timerActive"].(bool)
	startRaw, _ := body["timerStartTime"].(string)
	stopRaw, _ := body["timerStopTime"].(string)
	parse := func(raw string) time.Time {
		t.Helper()
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			t.Fatalf("parse timestamp %q: %v", raw, err)
		}
		return parsed
	}
	clamp := func(seconds float64) float64 {
		return math.Max(0, math.Min(duration, seconds))
	}
	if active && startRaw != "" {
		return clamp(duration - now.Sub(parse(startRaw)).Seconds())
	}
	if startRaw != "" && stopRaw != "" {
		return clamp(duration - parse(stopRaw).Sub(parse(startRaw)).Seconds())
	}
	return duration
}

func TestGetSettingsCreatesDefaults(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	resp := doRequest(t, client, ts, http.MethodGet, "/api/settings", nil)
	wantStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["timerDuration"].(float64) != 120 {
		t.Fatalf("expected default duration 120, got %v", body["timerDuration"])
	}
	if body["timerActive"].(bool) {
		t.Fatal("timer should start inactive")
	}
	if body["currentPhase"] != "idle" {
		t.Fatalf("expected idle phase, got %v", body["currentPhase"])
	}
}

// TestTimerCountdownFlow walks a full round: start, read while
// running, stop and verify the countdown freezes, then reset.
func TestTimerCountdownFlow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := newTestServerWithClock(t, clock)
	client := newTestClient(t)
	registerUser(t, client, ts, "ada")

	resp := doRequest(t, client, ts, http.MethodPut, "/api/settings", map[string]any{
		"command": "start",
	})
	wantStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if !body["timerActive"].(bool) {
		t.Fatal("start should activate the timer")
	}

	clock.Advance(10 * time.Second)
	resp = doRequest(t, client, ts, http.MethodGet, "/api/settings", nil)
	body = decodeBody(t, resp)
	remaining := settingsRemaining(t, body, clock.Now().UTC())
	if math.Abs(remaining-110) > 0.001 {
		t.Fatalf("expected 110s remaining after 10s, got %v", remaining)
	}
	if fraction := remaining / body["timerDuration"].(float64); math.Abs(fraction-110.0/120.0) > 0.001 {
		t.Fatalf("expected fraction near 0.9167, got %v", fraction)
	}

	resp = doRequest(t, client, ts, http.MethodPut, "/api/settings", map[string]any{
		"command": "stop",
	})
	wantStatus(t, resp, http.StatusOK)
	body = decodeBody(t, resp)
	if body["timerActive"].(bool) {
		t.Fatal("stop should deactivate the timer")
	}

	clock.Advance(20 * time.Second)
	resp = doRequest(t, client, ts, http.MethodGet, "/api/settings", nil)
	body = decodeBody(t, resp)
	remaining = settingsRemaining(t, body, clock.Now().UTC())
	if math.Abs(remaining-110) > 0.001 {
		t.Fatalf("stopped timer should stay frozen at 110s, got %v", remaining)
	}

	resp = doRequest(t, client, ts, http.MethodPut, "/api/settings", map[string]any{
		"command": "reset",
	})
	wantStatus(t, resp, http.StatusOK)
	body = decodeBody(t, resp)
	if body["timerActive"].(bool) {
		t.Fatal("reset should deactivate the timer")
	}
	if body["timerStartTime"] != nil || body["timerStopTime"] != nil {
		t.Fatalf("reset should clear anchors, got start=%v stop=%v",
			body["timerStartTime"], body["timerStopTime"])
	}
	if remaining := settingsRemaining(t, body, clock.Now().UTC()); remaining != 120 {
		t.Fatalf("reset timer should show full duration, got %v", remaining)
	}
}

func TestTimerRestartFromStop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := newTestServerWithClock(t, clock)
	client := newTestClient(t)
	registerUser(t, client, ts, "ada")

	doRequest(t, client, ts, http.MethodPut, "/api/settings", map[string]any{"command": "start"})
	clock.Advance(30 * time.Second)
	doRequest(t, client, ts, http.MethodPut, "/api/settings", map[string]any{"command": "stop"})
	clock.Advance(5 * time.Second)

	resp := doRequest(t, client, ts, http.MethodPut, "/api/settings", map[string]any{"command": "start"})
	wantStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["timerStopTime"] != nil {
		t.Fatalf("restart should clear the stop anchor, got %v", body["timerStopTime"])
	}
	if remaining := settingsRemaining(t, body, clock.Now().UTC()); remaining != 120 {
		t.Fatalf("restart should begin from full duration, got %v", remaining)
	}
}

func TestUpdateSettingsRoundPairing(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)
	registerUser(t, client, ts, "ada")
	team1 := createTeam(t, client, ts, "Falcons")

	resp := doRequest(t, client, ts, http.MethodPut, "/api/settings", map[string]any{
		"currentRoundTeam1Id": team1,
	})
	wantStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if int(body["currentRoundTeam1Id"].(float64)) != team1 {
		t.Fatalf("expected team1 slot %d, got %v", team1, body["currentRoundTeam1Id"])
	}
	if body["currentRoundTeam2Id"] != nil {
		t.Fatalf("untouched slot should stay empty, got %v", body["currentRoundTeam2Id"])
	}

	resp = doRequest(t, client, ts, http.MethodPut, "/api/settings", map[string]any{
		"currentRoundTeam1Id": nil,
	})
	wantStatus(t, resp, http.StatusOK)
	body = decodeBody(t, resp)
	if body["currentRoundTeam1Id"] != nil {
		t.Fatalf("explicit null should clear the slot, got %v", body["currentRoundTeam1Id"])
	}
}

func TestGetSettingsToleratesNullFields(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)

	resp := doRequest(t, client, ts, http.MethodGet, "/api/settings", nil)
	wantStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	for _, key := range []string{"timerStartTime", "timerStopTime", "currentRoundTeam1Id", "currentRoundTeam2Id"} {
		if body[key] != nil {
			t.Fatalf("fresh record should have null %s, got %v", key, body[key])
		}
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	ts := newTestServer(t)
	client := newTestClient(t)
	registerUser(t, client, ts, "ada")

	cases := []map[string]any{
		{"command": "pause"},
		{"timerDuration": 0},
		{"timerDuration": -5},
		{"currentPhase": "halftime"},
		{"unknownField": 1},
	}
	for _, payload := range cases {
		resp := doRequest(t, client, ts, http.MethodPut, "/api/settings", payload)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("payload %v: expected 400, got %d", payload, resp.StatusCode)
		}
	}
}

func TestUpdateSettingsDurationChange(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ts := newTestServerWithClock(t, clock)
	client := newTestClient(t)
	registerUser(t, client, ts, "ada")

	doRequest(t, client, ts, http.MethodPut, "/api/settings", map[string]any{"command": "start"})
	clock.Advance(10 * time.Second)

	resp := doRequest(t, client, ts, http.MethodPut, "/api/settings", map[string]any{
		"timerDuration": 60,
	})
	wantStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if !body["timerActive"].(bool) {
		t.Fatal("duration change must not stop a running timer")
	}
	remaining := settingsRemaining(t, body, clock.Now().UTC())
	if math.Abs(remaining-50) > 0.001 {
		t.Fatalf("expected 50s remaining against the new duration, got %v", remaining)
	}
}
