package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gistgate/internal/domain"
	"github.com/gistgate/internal/session"
)

const (
	ctxSessionKey = "gistgate.session"
	ctxUserKey    = "gistgate.user"
)

// sessionMiddleware deserializes the session cookie on every request. A
// missing, expired or tampered cookie leaves the request anonymous; only a
// store outage aborts. Live sessions get their TTL refreshed.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(s.config.Session.CookieName)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		sessionID, err := s.codec.Decode(cookie)
		if err != nil {
			// Bad signature or expired token: drop the dead cookie and
			// proceed unauthenticated
			s.clearSessionCookie(c)
			c.Next()
			return
		}

		sess, err := s.sessions.Get(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				s.clearSessionCookie(c)
				c.Next()
				return
			}
			slog.ErrorContext(c.Request.Context(), "session load failed", "error", err)
			s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
			c.Abort()
			return
		}

		// The server-side TTL slides on every request; the signed cookie
		// carries its own expiry, so it must be re-issued in step or an
		// active session dies at the codec a fixed TTL after login.
		if err := s.sessions.Touch(c.Request.Context(), sess.ID); err != nil {
			slog.WarnContext(c.Request.Context(), "session touch failed", "error", err)
		}
		if err := s.setSessionCookie(c, sess); err != nil {
			slog.WarnContext(c.Request.Context(), "session cookie refresh failed", "error", err)
		}

		c.Set(ctxSessionKey, sess)

		principal, err := s.serializer.Resolve(c.Request.Context(), sess)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "principal resolve failed", "error", err)
			s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
			c.Abort()
			return
		}
		if principal != nil {
			c.Set(ctxUserKey, principal)
		}

		c.Next()
	}
}

// authRequired gates a route on a resolved principal.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login?required=1")
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireCSRF validates the per-session token on state-changing form
// submissions. A mismatch is its own error class with a 403, never a
// generic failure.
func (s *Server) requireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if sess == nil || c.PostForm("_csrf") != sess.CSRFToken {
			slog.WarnContext(c.Request.Context(), "csrf validation failed",
				"path", c.Request.URL.Path, "has_session", sess != nil)
			s.renderError(c, http.StatusForbidden, domain.ErrCSRFMismatch.Message)
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentSession returns the deserialized session, or nil.
func currentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(ctxSessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}

// currentUser returns the resolved principal, or nil.
func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}

// ensureSession returns the request's session, creating an anonymous one and
// setting its cookie when none exists. Flows that carry state across
// requests (login forms, the OAuth dance) call this before rendering.
func (s *Server) ensureSession(c *gin.Context) (*session.Session, error) {
	if sess := currentSession(c); sess != nil {
		return sess, nil
	}

	sess, err := s.sessions.Create(c.Request.Context())
	if err != nil {
		return nil, err
	}
	if err := s.setSessionCookie(c, sess); err != nil {
		return nil, err
	}
	c.Set(ctxSessionKey, sess)
	return sess, nil
}

// setSessionCookie signs the session id into the response cookie.
func (s *Server) setSessionCookie(c *gin.Context, sess *session.Session) error {
	value, err := s.codec.Encode(sess.ID)
	if err != nil {
		return err
	}
	c.SetCookie(s.config.Session.CookieName, value,
		int(s.config.Session.TTL.Seconds()), "/", "", s.config.Session.SecureCookie, true)
	return nil
}

// clearSessionCookie drops the cookie on logout.
func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetCookie(s.config.Session.CookieName, "", -1, "/", "", s.config.Session.SecureCookie, true)
}
