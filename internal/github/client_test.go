package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gistgate/internal/config"
	"github.com/gistgate/internal/domain"
	"golang.org/x/oauth2"
)

// newTestClient points a client at a fake GitHub served by httptest
func newTestClient(handler http.Handler) (*Client, func()) {
	server := httptest.NewServer(handler)

	client := NewClient(config.GitHubOAuthConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		CallbackURL:  "http://localhost:4012/github/callback",
	})
	client.apiBaseURL = server.URL
	client.oauth.Endpoint = oauth2.Endpoint{
		AuthURL:  server.URL + "/login/oauth/authorize",
		TokenURL: server.URL + "/login/oauth/access_token",
	}

	return client, server.Close
}

func TestAuthCodeURLCarriesState(t *testing.T) {
	client := NewClient(config.GitHubOAuthConfig{ClientID: "abc"})

	url := client.AuthCodeURL("state-xyz")
	if url == "" {
		t.Fatal("Expected non-empty auth code URL")
	}
	if want := "state=state-xyz"; !strings.Contains(url, want) {
		t.Errorf("Expected URL to contain %q, got %s", want, url)
	}
	if want := "client_id=abc"; !strings.Contains(url, want) {
		t.Errorf("Expected URL to contain %q, got %s", want, url)
	}
}

func TestExchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gho_test","token_type":"bearer"}`))
	})
	client, cleanup := newTestClient(mux)
	defer cleanup()

	token, err := client.Exchange(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Exchange failed: %v", err)
	}
	if token != "gho_test" {
		t.Errorf("Expected token gho_test, got %s", token)
	}
}

func TestExchangeFailureIsProviderAuthFailed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad code", http.StatusBadRequest)
	})
	client, cleanup := newTestClient(mux)
	defer cleanup()

	_, err := client.Exchange(context.Background(), "bad-code")
	if !errors.Is(err, domain.ErrProviderAuthFailed) {
		t.Errorf("Expected ErrProviderAuthFailed, got %v", err)
	}
}

func TestFetchProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token gho_test" {
			http.Error(w, "bad token", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":583231,"login":"octocat","email":"octo@example.com"}`))
	})
	client, cleanup := newTestClient(mux)
	defer cleanup()

	profile, err := client.FetchProfile(context.Background(), "gho_test")
	if err != nil {
		t.Fatalf("FetchProfile failed: %v", err)
	}
	if profile.ID != "583231" {
		t.Errorf("Expected profile id 583231, got %s", profile.ID)
	}
	if profile.Login != "octocat" {
		t.Errorf("Expected login octocat, got %s", profile.Login)
	}
}

func TestFetchProfileEmptyIsFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})
	client, cleanup := newTestClient(mux)
	defer cleanup()

	_, err := client.FetchProfile(context.Background(), "gho_test")
	if !errors.Is(err, domain.ErrProviderAuthFailed) {
		t.Errorf("Expected ErrProviderAuthFailed for empty profile, got %v", err)
	}
}

func TestListGists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gists", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"g1","description":"notes","html_url":"https://gist.github.com/g1","public":true,
			 "files":{"notes.md":{"filename":"notes.md","language":"Markdown"}}},
			{"id":"g2","description":"","html_url":"https://gist.github.com/g2","public":false,"files":{}}
		]`))
	})
	client, cleanup := newTestClient(mux)
	defer cleanup()

	gists, err := client.ListGists(context.Background(), "gho_test")
	if err != nil {
		t.Fatalf("ListGists failed: %v", err)
	}
	if len(gists) != 2 {
		t.Fatalf("Expected 2 gists, got %d", len(gists))
	}
	if gists[0].ID != "g1" || gists[0].Files["notes.md"].Language != "Markdown" {
		t.Errorf("Unexpected first gist: %+v", gists[0])
	}
}

func TestCheckToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "token live" {
			w.Write([]byte(`{"id":1,"login":"x"}`))
			return
		}
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	})
	client, cleanup := newTestClient(mux)
	defer cleanup()

	valid, err := client.CheckToken(context.Background(), "live")
	if err != nil || !valid {
		t.Errorf("Expected live token to validate, got %v %v", valid, err)
	}
	valid, err = client.CheckToken(context.Background(), "revoked")
	if err != nil {
		t.Fatalf("CheckToken failed: %v", err)
	}
	if valid {
		t.Error("Expected revoked token to be invalid")
	}
}
