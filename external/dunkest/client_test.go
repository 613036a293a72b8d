package dunkest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stavrosdim/hooprank/internal/platform/logging"
	"github.com/stavrosdim/hooprank/internal/usecase"
)

func newTestClient(t *testing.T, serverURL string, maxRetries int) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		BaseURL:    serverURL,
		Token:      "secret-token",
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
		Logger:     logging.NewNop(),
	})
}

func TestFetchTeamPreviewMapsPlayersAndDefaults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/fantasy-teams/1608378/preview" {
			t.Errorf("unexpected path %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		_, _ = w.Write([]byte(`{
			"data": {
				"players": [
					{
						"id": 42,
						"first_name": "Giannis",
						"last_name": "Antetokounmpo",
						"position": {"name": "Forward"},
						"team": {"abbreviation": "MIL"},
						"pts": 51.5,
						"quotation": 30.2,
						"is_captain": true,
						"captain_multiplier": 2,
						"court_position": 1
					},
					{"id": 7, "last_name": "Bench"}
				]
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	players, err := client.FetchTeamPreview(context.Background(), 1608378)
	if err != nil {
		t.Fatalf("FetchTeamPreview() error = %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("len(players) = %d, want 2", len(players))
	}

	full := players[0]
	if full.FullName() != "Giannis Antetokounmpo" || full.Position != "Forward" || full.ClubAbbr != "MIL" {
		t.Fatalf("mapped player mismatch: %+v", full)
	}
	if full.Points != 51.5 || !full.IsCaptain || full.CaptainMultiplier != 2 || full.CourtPosition != 1 {
		t.Fatalf("mapped scoring fields mismatch: %+v", full)
	}

	sparse := players[1]
	if sparse.Points != 0 || sparse.IsCaptain || sparse.CaptainMultiplier != 1 || sparse.CourtPosition != 0 {
		t.Fatalf("absent fields must default to 0/false/1/0, got %+v", sparse)
	}
}

func TestFetchTeamPreviewRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data": {"players": [{"id": 1, "pts": 3}]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	players, err := client.FetchTeamPreview(context.Background(), 99)
	if err != nil {
		t.Fatalf("FetchTeamPreview() error = %v", err)
	}
	if len(players) != 1 || players[0].Points != 3 {
		t.Fatalf("unexpected players after retry: %+v", players)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("request count = %d, want 2", got)
	}
}

func TestFetchTeamPreviewDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "not found"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3)
	if _, err := client.FetchTeamPreview(context.Background(), 99); err == nil {
		t.Fatal("want error on 404")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("request count = %d, want 1", got)
	}
}

func TestFetchTeamPreviewRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>maintenance</html>`},
		{name: "missing data", body: `{"status": "ok"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, 0)
			if _, err := client.FetchTeamPreview(context.Background(), 5); err == nil {
				t.Fatal("want error for malformed payload")
			}
		})
	}
}

func TestFetchTeamPreviewSurfacesUnauthorized(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3)
	_, err := client.FetchTeamPreview(context.Background(), 99)
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expired tokens must not be retried, request count = %d", got)
	}
}

func TestFetchTeamPreviewValidatesTeamID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://127.0.0.1:0", 0)
	_, err := client.FetchTeamPreview(context.Background(), 0)
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(`dial failed: Authorization: Bearer secret-token`, "secret-token")
	if strings.Contains(got, "secret-token") {
		t.Fatalf("token leaked: %q", got)
	}
}
