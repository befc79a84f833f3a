package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// gists proxies the member's GitHub gists. Without a linked identity the
// view explains instead of calling the provider; a cleared token (revoked
// upstream) reads the same way.
func (s *Server) gists(c *gin.Context) {
	user := currentUser(c)

	if !user.HasGithubLink() || user.GithubToken == nil {
		s.renderError(c, http.StatusOK, "You need github account linked!")
		return
	}

	gists, err := s.github.ListGists(c.Request.Context(), *user.GithubToken)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "gists fetch failed",
			"user_id", user.ID, "error", err)
		s.renderError(c, http.StatusBadGateway, "Could not load gists from github")
		return
	}

	c.HTML(http.StatusOK, "gists.html", s.viewData(c, gin.H{"Gists": gists}))
}
