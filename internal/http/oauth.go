package http

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gistgate/internal/auth"
	"github.com/gistgate/internal/domain"
)

// startGithubAuth begins the provider dance: a fresh state value is bound to
// the session and echoed back by the provider on the callback.
func (s *Server) startGithubAuth(c *gin.Context) {
	sess, err := s.ensureSession(c)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "session create failed", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	state, err := randomState()
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "state generation failed", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	sess.OAuthState = state
	if err := s.sessions.Save(c.Request.Context(), sess); err != nil {
		slog.ErrorContext(c.Request.Context(), "session save failed", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	c.Redirect(http.StatusFound, s.github.AuthCodeURL(state))
}

// githubCallback finishes the provider dance and runs the linking policy.
func (s *Server) githubCallback(c *gin.Context) {
	ctx := c.Request.Context()

	sess := currentSession(c)
	if sess == nil || sess.OAuthState == "" || c.Query("state") != sess.OAuthState {
		slog.WarnContext(ctx, "oauth callback with bad state", "has_session", sess != nil)
		s.renderError(c, http.StatusBadRequest, domain.ErrProviderAuthFailed.Message)
		return
	}

	// The state is single-use whatever happens next
	sess.OAuthState = ""
	if err := s.sessions.Save(ctx, sess); err != nil {
		slog.ErrorContext(ctx, "session save failed", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		slog.InfoContext(ctx, "oauth denied at provider", "error", errParam)
		s.renderError(c, http.StatusBadRequest, domain.ErrProviderAuthFailed.Message)
		return
	}

	token, err := s.github.Exchange(ctx, c.Query("code"))
	if err != nil {
		slog.WarnContext(ctx, "oauth exchange failed", "error", err)
		s.renderError(c, http.StatusBadGateway, domain.UserMessage(err))
		return
	}

	profile, err := s.github.FetchProfile(ctx, token)
	if err != nil {
		slog.WarnContext(ctx, "oauth profile fetch failed", "error", err)
		s.renderError(c, http.StatusBadGateway, domain.UserMessage(err))
		return
	}

	outcome := s.oauth.Authenticate(ctx, token, profile)
	decision := s.linking.Apply(ctx, outcome, sess.RegisterAfterOAuth)

	switch decision.Kind {
	case auth.DecisionLogin:
		if err := s.loginAndRedirect(c, sess, decision.User); err != nil {
			slog.ErrorContext(ctx, "login session issue failed", "error", err)
			s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		}

	case auth.DecisionConfirm:
		c.Redirect(http.StatusFound, "/register-github")

	default:
		slog.WarnContext(ctx, "oauth login failed", "reason", decision.Reason)
		s.renderError(c, http.StatusBadGateway, domain.UserMessage(decision.Reason))
	}
}

// showGithubRegister renders the explicit confirmation step for creating an
// account from a bare provider profile.
func (s *Server) showGithubRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register-github.html", s.viewData(c, nil))
}

// confirmGithubRegister records the visitor's consent and re-drives the
// provider flow; the callback creates the account this time.
func (s *Server) confirmGithubRegister(c *gin.Context) {
	sess, err := s.ensureSession(c)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "session create failed", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	sess.RegisterAfterOAuth = true
	if err := s.sessions.Save(c.Request.Context(), sess); err != nil {
		slog.ErrorContext(c.Request.Context(), "session save failed", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	c.Redirect(http.StatusFound, "/auth/github")
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
