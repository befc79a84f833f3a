package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/gistgate/internal/config"
	"github.com/gistgate/internal/db"
	"github.com/gistgate/internal/github"
	"github.com/gistgate/internal/http"
	"github.com/gistgate/internal/logger"
	"github.com/gistgate/internal/maintenance"
	"github.com/gistgate/internal/session"
)

func main() {
	// Load .env file if it exists (optional, won't error if missing)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg.Environment)

	// Initialize database
	database, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Session store backed by redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	sessions := session.NewStore(rdb, cfg.Session.TTL)

	// GitHub OAuth + API client
	gh := github.NewClient(cfg.GitHub)

	// Daily sweep of stored provider tokens
	sweeper := maintenance.NewTokenSweeper(database, gh)
	scheduler := maintenance.NewScheduler(sweeper)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start maintenance scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create HTTP server
	server := http.NewServer(cfg, database, sessions, gh)

	// Start server
	log.Printf("Starting server on %s", cfg.ServerAddress)
	if err := server.Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
