package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gistgate/internal/auth"
	"github.com/gistgate/internal/config"
	"github.com/gistgate/internal/domain"
	"github.com/gistgate/internal/github"
	"github.com/gistgate/internal/password"
	"github.com/gistgate/internal/session"
)

// GithubAPI is everything the handlers need from the provider integration:
// the OAuth flow plus the gists listing for the member view.
type GithubAPI interface {
	domain.Provider
	ListGists(ctx context.Context, token string) ([]github.Gist, error)
}

// Server wraps the HTTP server
type Server struct {
	config     *config.Config
	users      domain.CredentialStore
	sessions   *session.Store
	codec      *session.Codec
	serializer *session.Serializer
	local      *auth.LocalStrategy
	oauth      *auth.OAuthStrategy
	linking    *auth.LinkingPolicy
	hasher     domain.PasswordHasher
	github     GithubAPI
	engine     *gin.Engine
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, users domain.CredentialStore, sessions *session.Store, gh GithubAPI) *Server {
	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.Default()
	engine.LoadHTMLGlob(cfg.TemplatesGlob)

	hasher := password.NewHasher(password.DefaultCost)

	server := &Server{
		config:     cfg,
		users:      users,
		sessions:   sessions,
		codec:      session.NewCodec(cfg.Session.Secret, cfg.Session.TTL),
		serializer: session.NewSerializer(sessions, users),
		local:      auth.NewLocalStrategy(users, hasher),
		oauth:      auth.NewOAuthStrategy(users),
		linking:    auth.NewLinkingPolicy(users),
		hasher:     hasher,
		github:     gh,
		engine:     engine,
	}

	// Middleware - order matters
	engine.Use(securityHeadersMiddleware())
	engine.Use(server.sessionMiddleware())

	server.setupRoutes()

	return server
}

const (
	readTimeout  = 30 * time.Second
	writeTimeout = 60 * time.Second
	idleTimeout  = 120 * time.Second
)

// Run starts the HTTP server
func (s *Server) Run() error {
	server := &http.Server{
		Addr:           s.config.ServerAddress,
		Handler:        s.engine,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	return server.ListenAndServe()
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// securityHeadersMiddleware adds security-related HTTP headers
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent MIME type sniffing
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		// Prevent clickjacking
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		// Referrer policy
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		// HSTS (only if using HTTPS)
		if c.Request.TLS != nil {
			c.Writer.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
