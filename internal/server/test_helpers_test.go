package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/mellon2025/sinjin/internal/config"
	"github.com/mellon2025/sinjin/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(store.NewMemory(), config.Default())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newTestServerWithClock(t *testing.T, clock clockwork.Clock) *httptest.Server {
	t.Helper()
	srv := NewWithClock(store.NewMemory(), config.Default(), clock)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// newTestClient returns a client with a cookie jar so session cookies
// survive across requests.
func newTestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func doRequest(t *testing.T, client *http.Client, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var body []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	return body
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

// registerUser creates an account and leaves the session cookie in the
// client's jar.
func registerUser(t *testing.T, client *http.Client, ts *httptest.Server, username string) {
	t.Helper()
	resp := doRequest(t, client, ts, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"password": "secret123",
	})
	wantStatus(t, resp, http.StatusCreated)
}

func itoa(value int) string {
	return strconv.Itoa(value)
}

func createTeam(t *testing.T, client *http.Client, ts *httptest.Server, name string) int {
	t.Helper()
	resp := doRequest(t, client, ts, http.MethodPost, "/api/teams", map[string]string{
		"name": name,
	})
	wantStatus(t, resp, http.StatusCreated)
	body := decodeBody(t, resp)
	return int(body["id"].(float64))
}
