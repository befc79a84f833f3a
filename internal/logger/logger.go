package logger

import (
	"log/slog"
	"os"
)

// InitLogger configures the application logger for the given environment and
// installs it as the slog default. Development gets a verbose text handler,
// everything else structured JSON.
func InitLogger(environment string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if environment == "development" {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
