package domain

import "context"

// ============================================================================
// Secondary Ports (Driven Collaborators)
// ============================================================================

// CredentialStore defines the port for user record persistence. Uniqueness of
// username, email and github id is guaranteed by the store itself (atomic
// insert-if-absent), not by callers.
type CredentialStore interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByGithubID(ctx context.Context, githubID string) (*User, error)
	IsUsernameInUse(ctx context.Context, username string) (bool, error)
	IsEmailInUse(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateGithubToken(ctx context.Context, userID, token string) error
	ClearGithubToken(ctx context.Context, userID string) error
	ListGithubLinkedUsers(ctx context.Context) ([]*User, error)
}

// PasswordHasher defines the port for password hashing and verification.
// Implementations must use a salted, slow hash with a timing-safe compare.
type PasswordHasher interface {
	Hash(ctx context.Context, secret string) (string, error)
	Verify(ctx context.Context, digest, secret string) (bool, error)
}

// Provider defines the port for the external OAuth provider integration.
// Exchange and FetchProfile perform network calls and honor context
// cancellation; implementations apply their own request timeout.
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
	FetchProfile(ctx context.Context, token string) (Profile, error)
}
