// Package auth implements the authentication strategies and the account
// linking policy that decides what happens after a GitHub login.
package auth

import (
	"context"

	"github.com/gistgate/internal/domain"
)

// LocalStrategy authenticates username+password against the credential store.
type LocalStrategy struct {
	users  domain.CredentialStore
	hasher domain.PasswordHasher
}

// NewLocalStrategy wires the local strategy to its collaborators.
func NewLocalStrategy(users domain.CredentialStore, hasher domain.PasswordHasher) *LocalStrategy {
	return &LocalStrategy{users: users, hasher: hasher}
}

// Authenticate resolves a username and password to an outcome. An unknown
// username and a wrong password yield distinct failure reasons; callers
// decide how much of that distinction to surface.
func (s *LocalStrategy) Authenticate(ctx context.Context, username, password string) domain.AuthOutcome {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return domain.Failure(domain.ErrUserNotFound)
		}
		return domain.Failure(err)
	}

	// A GitHub-only account has no hash and can never match
	if user.PasswordHash == nil {
		return domain.Failure(domain.ErrInvalidPassword)
	}

	ok, err := s.hasher.Verify(ctx, *user.PasswordHash, password)
	if err != nil {
		return domain.Failure(domain.WrapStoreOperation("password verify", err))
	}
	if !ok {
		return domain.Failure(domain.ErrInvalidPassword)
	}

	return domain.Success(user)
}
