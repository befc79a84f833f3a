package auth

import (
	"context"
	"errors"

	"github.com/gistgate/internal/domain"
)

// DecisionKind discriminates what the linking policy tells the caller to do.
type DecisionKind int

const (
	// DecisionLogin means a local account is resolved; issue a session.
	DecisionLogin DecisionKind = iota
	// DecisionConfirm means no local account exists and the visitor has not
	// confirmed registration yet; route to the confirmation view.
	DecisionConfirm
	// DecisionFail means the flow ends unauthenticated with an error.
	DecisionFail
)

// Decision is the linking policy's verdict for one OAuth callback.
type Decision struct {
	Kind   DecisionKind
	User   *domain.User
	Reason error
}

// LinkingPolicy decides, after a provider exchange, whether to log in an
// existing linked account or demand an explicit confirmation step before
// creating a new one. Accounts are created here and nowhere else in the
// OAuth flow.
//
// Deliberately not handled: merging a GitHub identity into an already
// logged-in local session, and detecting provider emails that collide with
// an existing local account. Both are future extensions.
type LinkingPolicy struct {
	users domain.CredentialStore
}

// NewLinkingPolicy wires the policy to the credential store.
func NewLinkingPolicy(users domain.CredentialStore) *LinkingPolicy {
	return &LinkingPolicy{users: users}
}

// Apply resolves a strategy outcome under the confirmation flag:
//   - Success passes through as a login.
//   - Failure passes through as a failure.
//   - Deferred without confirmation demands the confirmation step; no
//     record is written.
//   - Deferred with confirmation creates a GitHub-only account (provider id
//     and token, no username or email) and logs it in.
func (p *LinkingPolicy) Apply(ctx context.Context, outcome domain.AuthOutcome, confirmed bool) Decision {
	switch outcome.Kind {
	case domain.OutcomeSuccess:
		return Decision{Kind: DecisionLogin, User: outcome.User}

	case domain.OutcomeFailure:
		return Decision{Kind: DecisionFail, Reason: outcome.Reason}

	case domain.OutcomeDeferred:
		if !confirmed {
			return Decision{Kind: DecisionConfirm}
		}
		return p.register(ctx, outcome.Profile, outcome.Token)

	default:
		return Decision{Kind: DecisionFail, Reason: domain.ErrProviderAuthFailed}
	}
}

func (p *LinkingPolicy) register(ctx context.Context, profile domain.Profile, token string) Decision {
	user := domain.NewGithubUser(profile.ID, token)
	err := p.users.CreateUser(ctx, user)
	if err == nil {
		return Decision{Kind: DecisionLogin, User: user}
	}

	// Two confirmations racing on the same identity: the loser logs into
	// the record the winner created.
	if errors.Is(err, domain.ErrGithubAlreadyLinked) {
		existing, lookupErr := p.users.GetUserByGithubID(ctx, profile.ID)
		if lookupErr != nil {
			return Decision{Kind: DecisionFail, Reason: lookupErr}
		}
		if tokenErr := p.users.UpdateGithubToken(ctx, existing.ID, token); tokenErr != nil {
			return Decision{Kind: DecisionFail, Reason: tokenErr}
		}
		existing.GithubToken = &token
		return Decision{Kind: DecisionLogin, User: existing}
	}

	return Decision{Kind: DecisionFail, Reason: err}
}
