package cron

import (
	"context"
	"log/slog"
)

const PurgeRefreshTokensJob = "purge-refresh-tokens"

// RefreshTokenPurger deletes refresh tokens that can no longer be used
type RefreshTokenPurger interface {
	PurgeRefreshTokens(ctx context.Context) (int64, error)
}

// TokenJobs contains refresh-token housekeeping jobs
type TokenJobs struct {
	purger RefreshTokenPurger
	logger *slog.Logger
}

func NewTokenJobs(purger RefreshTokenPurger, logger *slog.Logger) *TokenJobs {
	return &TokenJobs{purger: purger, logger: logger}
}

// RegisterJobs registers the purge job on schedule
func (j *TokenJobs) RegisterJobs(scheduler *Scheduler, schedule string) error {
	return scheduler.AddJob(PurgeRefreshTokensJob, schedule, j.PurgeRefreshTokens)
}

func (j *TokenJobs) PurgeRefreshTokens(ctx context.Context) error {
	deleted, err := j.purger.PurgeRefreshTokens(ctx)
	if err != nil {
		return err
	}
	if deleted > 0 {
		j.logger.Info("Cron: purged refresh tokens", "deleted", deleted)
	}
	return nil
}
