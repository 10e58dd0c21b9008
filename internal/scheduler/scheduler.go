// Package scheduler runs periodic jobs on fixed intervals.
package scheduler

import (
	"context"
	"time"

	"github.com/sentinelai/sentinel/internal/logging"
)

// Job is one unit of periodic work. It should honor ctx cancellation.
type Job func(ctx context.Context)

// Run executes job immediately and then every interval until ctx is
// cancelled. It blocks; callers run it in its own goroutine per job.
func Run(ctx context.Context, name string, interval time.Duration, job Job) {
	logging.Info("scheduler started", "job", name, "interval", interval)

	job(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info("scheduler stopped", "job", name)
			return
		case <-ticker.C:
			job(ctx)
		}
	}
}
