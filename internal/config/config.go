package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	ServerAddress string
	Environment   string
	DatabasePath  string
	TemplatesGlob string
	StaticDir     string
	Redis         RedisConfig
	Session       SessionConfig
	GitHub        GitHubOAuthConfig
}

// RedisConfig holds the session store connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SessionConfig holds session cookie and lifetime configuration
type SessionConfig struct {
	Secret       string
	CookieName   string
	TTL          time.Duration
	SecureCookie bool
}

// GitHubOAuthConfig holds GitHub OAuth configuration
type GitHubOAuthConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Load loads configuration from environment variables with defaults.
// The result is read once at startup and treated as immutable.
func Load() (*Config, error) {
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, err
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerAddress: ":" + getEnv("PORT", "4012"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		DatabasePath:  getEnv("DATABASE_PATH", "./data/gistgate.db"),
		TemplatesGlob: getEnv("TEMPLATES_GLOB", "./web/templates/*.html"),
		StaticDir:     getEnv("STATIC_DIR", "./web/static"),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", "change-me-in-production-secret-key"),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "gistgate_session"),
			TTL:          sessionTTL,
			SecureCookie: getEnv("SESSION_SECURE_COOKIE", "false") == "true",
		},
		GitHub: GitHubOAuthConfig{
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
			CallbackURL:  os.Getenv("GITHUB_CALLBACK_URL"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
