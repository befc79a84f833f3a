package auth

import (
	"context"

	"github.com/gistgate/internal/domain"
)

// OAuthStrategy resolves the result of a completed provider exchange to a
// local account. It consumes the token and profile; the HTTP exchange itself
// lives in the provider client.
type OAuthStrategy struct {
	users domain.CredentialStore
}

// NewOAuthStrategy wires the strategy to the credential store.
func NewOAuthStrategy(users domain.CredentialStore) *OAuthStrategy {
	return &OAuthStrategy{users: users}
}

// Authenticate maps a provider token and profile to an outcome:
//   - empty token or profile: Failure, the exchange did not really succeed
//   - profile linked to a user: Success, with the stored token refreshed
//   - profile unknown: Deferred, the linking policy decides what happens
//
// No account is ever created here.
func (s *OAuthStrategy) Authenticate(ctx context.Context, token string, profile domain.Profile) domain.AuthOutcome {
	if token == "" || profile.Empty() {
		return domain.Failure(domain.ErrProviderAuthFailed)
	}

	user, err := s.users.GetUserByGithubID(ctx, profile.ID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			return domain.Deferred(profile, token)
		}
		return domain.Failure(err)
	}

	// The token slot holds the latest value only; every login overwrites
	if err := s.users.UpdateGithubToken(ctx, user.ID, token); err != nil {
		return domain.Failure(err)
	}
	user.GithubToken = &token

	return domain.Success(user)
}
