package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.engine.GET("/", s.index)

	// Local auth. The form routes answer every method; anything that is not
	// a form submission renders the form.
	s.engine.GET("/login", s.showLogin)
	s.engine.POST("/login", s.requireCSRF(), s.submitLogin)
	s.engine.GET("/register", s.showRegister)
	s.engine.POST("/register", s.requireCSRF(), s.submitRegister)
	for _, method := range []string{
		http.MethodPut, http.MethodPatch, http.MethodDelete,
		http.MethodHead, http.MethodOptions,
	} {
		s.engine.Handle(method, "/login", s.showLogin)
		s.engine.Handle(method, "/register", s.showRegister)
	}

	// GitHub OAuth
	s.engine.GET("/auth/github", s.startGithubAuth)
	s.engine.GET("/github/callback", s.githubCallback)
	s.engine.GET("/register-github", s.showGithubRegister)
	s.engine.GET("/register-github/confirm", s.confirmGithubRegister)

	// Gated member area
	gated := s.engine.Group("/")
	gated.Use(s.authRequired())
	{
		gated.GET("/member", s.member)
		gated.GET("/gists", s.gists)
		gated.GET("/logout", s.logout)
	}

	// Static assets
	s.engine.Static("/static", s.config.StaticDir)
}

// viewData builds the payload every template receives. User is nil for
// anonymous visitors; templates use it for the navbar.
func (s *Server) viewData(c *gin.Context, extra gin.H) gin.H {
	data := gin.H{"User": currentUser(c)}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// renderError renders the shared error view.
func (s *Server) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", s.viewData(c, gin.H{"Message": message}))
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.viewData(c, nil))
}

func (s *Server) member(c *gin.Context) {
	c.HTML(http.StatusOK, "member.html", s.viewData(c, nil))
}
