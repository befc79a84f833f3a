package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a local account. A user must carry at least one
// authentication method: a password hash, a linked GitHub identity, or both.
// Username and email are optional because GitHub-only accounts created via
// the confirmation flow start with neither.
type User struct {
	ID           string     `json:"id" db:"id"`
	Username     *string    `json:"username" db:"username"`
	Email        *string    `json:"email" db:"email"`
	PasswordHash *string    `json:"-" db:"password_hash"` // Never expose the hash in JSON
	GithubID     *string    `json:"github_id" db:"github_id"`
	GithubToken  *string    `json:"-" db:"github_token"` // Latest provider token only, no history
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// HasGithubLink reports whether the user has a GitHub identity attached.
func (u *User) HasGithubLink() bool {
	return u.GithubID != nil && *u.GithubID != ""
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	if u.GithubID != nil {
		return "github:" + *u.GithubID
	}
	return u.ID
}

// NewLocalUser creates a password-backed user with a generated UUID.
func NewLocalUser(username, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New().String(),
		Username:     &username,
		Email:        &email,
		PasswordHash: &passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewGithubUser creates a GitHub-only user with a generated UUID. No username
// or email is assigned; the account is identified by the provider id alone.
func NewGithubUser(githubID, githubToken string) *User {
	now := time.Now().UTC()
	return &User{
		ID:          uuid.New().String(),
		GithubID:    &githubID,
		GithubToken: &githubToken,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Profile is the subset of the GitHub user payload the linking flow needs.
type Profile struct {
	ID    string `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

// Empty reports whether the provider returned a usable profile.
func (p Profile) Empty() bool {
	return p.ID == ""
}
