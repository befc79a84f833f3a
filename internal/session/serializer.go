package session

import (
	"context"

	"github.com/gistgate/internal/domain"
)

// Serializer maps an authenticated user to a durable session and back.
// It owns the session side of login, logout and per-request principal
// resolution.
type Serializer struct {
	store *Store
	users domain.CredentialStore
}

// NewSerializer wires the session store to the credential store.
func NewSerializer(store *Store, users domain.CredentialStore) *Serializer {
	return &Serializer{store: store, users: users}
}

// Login attaches a user to the session. The session id is rotated so the
// pre-login id stops working.
func (sz *Serializer) Login(ctx context.Context, sess *Session, user *domain.User) error {
	sess.UserID = user.ID
	sess.RegisterAfterOAuth = false
	sess.OAuthState = ""
	return sz.store.Rotate(ctx, sess)
}

// Logout detaches the user and destroys the session.
func (sz *Serializer) Logout(ctx context.Context, sess *Session) error {
	return sz.store.Delete(ctx, sess.ID)
}

// Resolve turns a session into its principal. A session without a user, or
// one whose user record has disappeared, resolves to nil without error: the
// request simply proceeds unauthenticated. Store failures still propagate.
func (sz *Serializer) Resolve(ctx context.Context, sess *Session) (*domain.User, error) {
	if sess == nil || !sess.Authenticated() {
		return nil, nil
	}

	user, err := sz.users.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if domain.IsNotFoundError(err) {
			// Stale principal: clear the session silently
			sess.UserID = ""
			if saveErr := sz.store.Save(ctx, sess); saveErr != nil {
				return nil, saveErr
			}
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
