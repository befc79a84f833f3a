package domain

// OutcomeKind discriminates the result of an authentication strategy.
type OutcomeKind int

const (
	// OutcomeSuccess means the strategy resolved an existing user.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeFailure means authentication failed; Reason carries the cause.
	OutcomeFailure
	// OutcomeDeferred means the provider authenticated the visitor but no
	// local account is linked yet; Profile and Token carry the provider
	// result for the confirmation step.
	OutcomeDeferred
)

// AuthOutcome is the tagged result produced by an authentication strategy.
type AuthOutcome struct {
	Kind    OutcomeKind
	User    *User
	Reason  error
	Profile Profile
	Token   string
}

// Success wraps a resolved user in an outcome.
func Success(user *User) AuthOutcome {
	return AuthOutcome{Kind: OutcomeSuccess, User: user}
}

// Failure wraps an authentication failure in an outcome.
func Failure(reason error) AuthOutcome {
	return AuthOutcome{Kind: OutcomeFailure, Reason: reason}
}

// Deferred wraps a provider profile awaiting explicit confirmation.
func Deferred(profile Profile, token string) AuthOutcome {
	return AuthOutcome{Kind: OutcomeDeferred, Profile: profile, Token: token}
}
