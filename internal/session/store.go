// Package session provides the server-side session store and the signed
// cookie that references it. Session records live in redis keyed by session
// id with a sliding TTL; the cookie carries only a signed session id.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gistgate/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Session is the per-client state held between requests. UserID is empty
// while the visitor is anonymous; RegisterAfterOAuth and OAuthState exist
// only for the GitHub linking flow.
type Session struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id,omitempty"`
	CSRFToken          string    `json:"csrf_token"`
	RegisterAfterOAuth bool      `json:"register_after_oauth,omitempty"`
	OAuthState         string    `json:"oauth_state,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Authenticated reports whether the session carries a logged-in user.
func (s *Session) Authenticated() bool {
	return s.UserID != ""
}

// Store persists sessions in redis with a sliding TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a session store on top of an existing redis client.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Create starts a new anonymous session with a fresh CSRF token.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	csrfToken, err := randomToken()
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        uuid.New().String(),
		CSRFToken: csrfToken,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get loads a session by id; a missing or expired id yields
// domain.ErrSessionNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, domain.WrapStoreOperation("session get", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt blob behaves like an expired session
		_ = s.rdb.Del(ctx, keyPrefix+id).Err()
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

// Save writes the session and resets its TTL.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return domain.WrapStoreOperation("session encode", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return domain.WrapStoreOperation("session save", err)
	}
	return nil
}

// Touch refreshes the TTL of a live session without rewriting it.
func (s *Store) Touch(ctx context.Context, id string) error {
	if err := s.rdb.Expire(ctx, keyPrefix+id, s.ttl).Err(); err != nil {
		return domain.WrapStoreOperation("session touch", err)
	}
	return nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return domain.WrapStoreOperation("session delete", err)
	}
	return nil
}

// Rotate reissues the session under a new id, invalidating the old one.
// Called on login so a pre-auth session id never becomes an authenticated
// one (session fixation).
func (s *Store) Rotate(ctx context.Context, sess *Session) error {
	oldID := sess.ID
	sess.ID = uuid.New().String()
	if err := s.Save(ctx, sess); err != nil {
		sess.ID = oldID
		return err
	}
	return s.Delete(ctx, oldID)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
