// Package client is a typed HTTP client for the quiz API. It is used
// by the scoreboard command and by any external tool that follows a
// competition over the polling protocol.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Settings mirrors the server's round record. Remaining time is never
// transmitted; callers derive it from the anchors.
type Settings struct {
	TimerDuration       int        `json:"timerDuration"`
	TimerActive         bool       `json:"timerActive"`
	TimerStartTime      *time.Time `json:"timerStartTime"`
	TimerStopTime       *time.Time `json:"timerStopTime"`
	CurrentRoundTeam1ID *int       `json:"currentRoundTeam1Id"`
	CurrentRoundTeam2ID *int       `json:"currentRoundTeam2Id"`
	CurrentPhase        string     `json:"currentPhase"`
}

// Remaining derives the countdown at the given instant.
func (s Settings) Remaining(now time.Time) time.Duration {
	duration := time.Duration(s.TimerDuration) * time.Second
	if duration <= 0 {
		return 0
	}
	clamp := func(d time.Duration) time.Duration {
		if d < 0 {
			return 0
		}
		if d > duration {
			return duration
		}
		return d
	}
	if s.TimerActive && s.TimerStartTime != nil {
		return clamp(duration - now.Sub(*s.TimerStartTime))
	}
	if s.TimerStartTime != nil && s.TimerStopTime != nil {
		return clamp(duration - s.TimerStopTime.Sub(*s.TimerStartTime))
	}
	return duration
}

// Fraction returns Remaining as a share of the configured duration.
func (s Settings) Fraction(now time.Time) float64 {
	if s.TimerDuration <= 0 {
		return 0
	}
	total := time.Duration(s.TimerDuration) * time.Second
	return float64(s.Remaining(now)) / float64(total)
}

type Team struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	LogoURL     *string `json:"logoUrl"`
	Type        string  `json:"type"`
	Points      int     `json:"points"`
	Rank        int     `json:"rank"`
	MemberCount int     `json:"memberCount"`
}

type apiError struct {
	Message string `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("GET %s: %s", path, apiErr.Message)
		}
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	var settings Settings
	err := c.get(ctx, "/api/settings", &settings)
	return settings, err
}

func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	var teams []Team
	err := c.get(ctx, "/api/teams", &teams)
	return teams, err
}

func (c *Client) put(ctx context.Context, path string, fields map[string]any, sessionCookie *http.Cookie, dest any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionCookie != nil {
		req.AddCookie(sessionCookie)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("PUT %s: %s", path, apiErr.Message)
		}
		return fmt.Errorf("PUT %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// UpdateSettings sends a partial settings update. The caller supplies
// only the fields to change; the session cookie authenticates the
// request, so this path is for admin tooling.
func (c *Client) UpdateSettings(ctx context.Context, fields map[string]any, sessionCookie *http.Cookie) (Settings, error) {
	var settings Settings
	err := c.put(ctx, "/api/settings", fields, sessionCookie, &settings)
	return settings, err
}

// UpdateTeamPoints sets a team's points to an absolute value.
func (c *Client) UpdateTeamPoints(ctx context.Context, teamID, points int, sessionCookie *http.Cookie) (Team, error) {
	var team Team
	err := c.put(ctx, fmt.Sprintf("/api/teams/%d", teamID), map[string]any{"points": points}, sessionCookie, &team)
	return team, err
}
