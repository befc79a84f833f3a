package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gistgate/internal/domain"
	"github.com/gistgate/internal/session"
	"github.com/gistgate/internal/validation"
)

// loginForm carries the submitted login fields back into the re-rendered view
type loginForm struct {
	Username string
	Password string
}

func (s *Server) showLogin(c *gin.Context) {
	sess, err := s.ensureSession(c)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "session create failed", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	var message string
	if c.Query("required") != "" {
		message = "Authentication required"
	}

	c.HTML(http.StatusOK, "login.html", s.viewData(c, gin.H{
		"CSRFToken": sess.CSRFToken,
		"Error":     message,
		"Form":      loginForm{},
	}))
}

func (s *Server) submitLogin(c *gin.Context) {
	sess := currentSession(c) // requireCSRF guarantees a session
	form := loginForm{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}

	outcome := s.local.Authenticate(c.Request.Context(), form.Username, form.Password)
	if outcome.Kind != domain.OutcomeSuccess {
		slog.InfoContext(c.Request.Context(), "login rejected",
			"username", form.Username, "reason", outcome.Reason)
		c.HTML(http.StatusUnauthorized, "login.html", s.viewData(c, gin.H{
			"CSRFToken": sess.CSRFToken,
			"Error":     domain.UserMessage(outcome.Reason),
			"Form":      loginForm{Username: form.Username},
		}))
		return
	}

	if err := s.loginAndRedirect(c, sess, outcome.User); err != nil {
		slog.ErrorContext(c.Request.Context(), "login session issue failed", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
	}
}

// registrationView is the payload for re-rendering the register form
func registrationView(sessToken, errMsg string, form validation.RegistrationForm) gin.H {
	return gin.H{
		"CSRFToken": sessToken,
		"Error":     errMsg,
		"Form":      form,
	}
}

func (s *Server) showRegister(c *gin.Context) {
	sess, err := s.ensureSession(c)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "session create failed", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	c.HTML(http.StatusOK, "register.html",
		s.viewData(c, registrationView(sess.CSRFToken, "", validation.RegistrationForm{})))
}

func (s *Server) submitRegister(c *gin.Context) {
	sess := currentSession(c)
	form := validation.RegistrationForm{
		Username:  c.PostForm("username"),
		Email:     c.PostForm("email"),
		Password:  c.PostForm("password"),
		Password2: c.PostForm("password2"),
	}

	if err := validation.ValidateRegistration(c.Request.Context(), s.users, form); err != nil {
		if !domain.IsValidationError(err) {
			slog.ErrorContext(c.Request.Context(), "registration validation failed", "error", err)
			s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
			return
		}
		c.HTML(http.StatusOK, "register.html",
			s.viewData(c, registrationView(sess.CSRFToken, domain.UserMessage(err), form)))
		return
	}

	digest, err := s.hasher.Hash(c.Request.Context(), form.Password)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "password hash failed", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	user := domain.NewLocalUser(form.Username, form.Email, digest)
	if err := s.users.CreateUser(c.Request.Context(), user); err != nil {
		// A concurrent registration can slip past the validator; the
		// store's uniqueness verdict re-renders like any other rule
		if domain.IsDuplicateError(err) {
			c.HTML(http.StatusOK, "register.html",
				s.viewData(c, registrationView(sess.CSRFToken, domain.UserMessage(err), form)))
			return
		}
		slog.ErrorContext(c.Request.Context(), "user insert failed", "error", err)
		s.renderError(c, http.StatusInternalServerError, "Something went wrong, please try again")
		return
	}

	slog.InfoContext(c.Request.Context(), "user registered", "username", form.Username)
	c.HTML(http.StatusOK, "register-success.html", s.viewData(c, nil))
}

func (s *Server) logout(c *gin.Context) {
	sess := currentSession(c)
	if sess != nil {
		if err := s.serializer.Logout(c.Request.Context(), sess); err != nil {
			slog.WarnContext(c.Request.Context(), "session destroy failed", "error", err)
		}
	}
	s.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// loginAndRedirect issues an authenticated session and sends the user to the
// member area. The session id rotates, so the cookie is rewritten.
func (s *Server) loginAndRedirect(c *gin.Context, sess *session.Session, user *domain.User) error {
	if err := s.serializer.Login(c.Request.Context(), sess, user); err != nil {
		return err
	}
	if err := s.setSessionCookie(c, sess); err != nil {
		return err
	}
	slog.InfoContext(c.Request.Context(), "user logged in", "user_id", user.ID)
	c.Redirect(http.StatusFound, "/member")
	return nil
}
