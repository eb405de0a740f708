package scheduler

import (
	"context"
	"time"
)

// ExpiryRunner is satisfied by services.ExpiryScanner.
type ExpiryRunner interface {
	Run(ctx context.Context, horizonDays int)
}

// LogPurger deletes persisted logs older than a cutoff.
type LogPurger func(cutoff time.Time) (int64, error)

func ExpiryJob(scanner ExpiryRunner, horizonDays int) func(context.Context) {
	return func(ctx context.Context) {
		scanner.Run(ctx, horizonDays)
	}
}

func (s *Scheduler) RetentionJob(purge LogPurger, retention time.Duration, now func() time.Time) func(context.Context) {
	return func(ctx context.Context) {
		deleted, err := purge(now().Add(-retention))
		if err != nil {
			s.logger.ErrorContext(ctx, "log cleanup failed", "action", "purge_logs", "error", err.Error())
			return
		}
		if deleted > 0 {
			s.logger.InfoContext(ctx, "log cleanup completed", "action", "purge_logs", "deleted", deleted)
		}
	}
}
