// Package github integrates with the GitHub OAuth provider and REST API.
// It performs the authorization-code exchange, profile fetches and gist
// listing on behalf of the auth and member flows.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gistgate/internal/config"
	"github.com/gistgate/internal/domain"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const defaultAPIBaseURL = "https://api.github.com"

// requestTimeout bounds every provider call; a timeout surfaces as a
// provider auth failure, never as a hung request.
const requestTimeout = 10 * time.Second

// Client talks to GitHub. The zero http.Client is replaced by a timeout-bound
// one; tests inject their own transport and API base URL.
type Client struct {
	oauth      *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
}

// NewClient creates a GitHub client from the OAuth app configuration.
func NewClient(cfg config.GitHubOAuthConfig) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     githuboauth.Endpoint,
		},
		apiBaseURL: defaultAPIBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// AuthCodeURL builds the provider authorization URL for the given state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange swaps an authorization code for an access token.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", domain.WrapProviderAuthFailed("code exchange", err)
	}
	if token.AccessToken == "" {
		return "", domain.WrapProviderAuthFailed("code exchange", fmt.Errorf("empty access token"))
	}
	return token.AccessToken, nil
}

// githubUser is the subset of the /user payload the linking flow needs.
type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

// FetchProfile loads the authenticated user's profile for the token.
func (c *Client) FetchProfile(ctx context.Context, token string) (domain.Profile, error) {
	var gu githubUser
	if err := c.getJSON(ctx, "/user", token, &gu); err != nil {
		return domain.Profile{}, domain.WrapProviderAuthFailed("profile fetch", err)
	}
	if gu.ID == 0 {
		return domain.Profile{}, domain.WrapProviderAuthFailed("profile fetch", fmt.Errorf("empty profile"))
	}
	return domain.Profile{
		ID:    strconv.FormatInt(gu.ID, 10),
		Login: gu.Login,
		Email: gu.Email,
	}, nil
}

// GistFile describes one file inside a gist.
type GistFile struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	RawURL   string `json:"raw_url"`
}

// Gist is a single gist as returned by GET /gists.
type Gist struct {
	ID          string              `json:"id"`
	Description string              `json:"description"`
	HTMLURL     string              `json:"html_url"`
	Public      bool                `json:"public"`
	CreatedAt   time.Time           `json:"created_at"`
	Files       map[string]GistFile `json:"files"`
}

// ListGists fetches the token owner's gists.
func (c *Client) ListGists(ctx context.Context, token string) ([]Gist, error) {
	var gists []Gist
	if err := c.getJSON(ctx, "/gists", token, &gists); err != nil {
		return nil, err
	}
	return gists, nil
}

// CheckToken reports whether a stored access token is still accepted by the
// provider. A 401 means revoked; other failures are errors, not verdicts.
func (c *Client) CheckToken(ctx context.Context, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+"/user", nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "token "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("github api returned status %d", resp.StatusCode)
	}
	return true, nil
}

func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github api %s returned status %d: %s", path, resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
