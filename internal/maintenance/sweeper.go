package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gistgate/internal/domain"
)

// TokenChecker reports whether a stored provider token is still honored
// upstream.
type TokenChecker interface {
	CheckToken(ctx context.Context, token string) (bool, error)
}

// TokenSweeper walks every account with a linked GitHub identity and clears
// tokens the provider no longer honors. A cleared token keeps the link but
// forces a fresh OAuth round before gists can be fetched again.
type TokenSweeper struct {
	users   domain.CredentialStore
	checker TokenChecker
	timeout time.Duration
}

// NewTokenSweeper creates a sweeper over the given store and checker.
func NewTokenSweeper(users domain.CredentialStore, checker TokenChecker) *TokenSweeper {
	return &TokenSweeper{
		users:   users,
		checker: checker,
		timeout: 30 * time.Second,
	}
}

// Sweep validates all stored tokens once. Provider outages skip the user
// rather than clearing a token that may still be live.
func (s *TokenSweeper) Sweep(ctx context.Context) (cleared int, err error) {
	users, err := s.users.ListGithubLinkedUsers(ctx)
	if err != nil {
		return 0, err
	}

	for _, user := range users {
		if user.GithubToken == nil || *user.GithubToken == "" {
			continue
		}

		checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
		live, err := s.checker.CheckToken(checkCtx, *user.GithubToken)
		cancel()
		if err != nil {
			slog.WarnContext(ctx, "token check failed, skipping user",
				"user_id", user.ID, "error", err)
			continue
		}
		if live {
			continue
		}

		if err := s.users.ClearGithubToken(ctx, user.ID); err != nil {
			slog.ErrorContext(ctx, "failed to clear revoked token",
				"user_id", user.ID, "error", err)
			continue
		}
		cleared++
		slog.InfoContext(ctx, "cleared revoked github token", "user_id", user.ID)
	}

	slog.InfoContext(ctx, "token sweep completed",
		"checked", len(users), "cleared", cleared)
	return cleared, nil
}

// Scheduler runs the sweeper on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	sweeper *TokenSweeper
}

// NewScheduler wires the sweeper to a daily schedule.
func NewScheduler(sweeper *TokenSweeper) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
	}
}

// Start registers the daily sweep and launches the cron loop. The returned
// error only reports a bad schedule expression.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@daily", func() {
		if _, err := s.sweeper.Sweep(context.Background()); err != nil {
			slog.Error("token sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
