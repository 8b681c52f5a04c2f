// Package retention periodically removes stored analyses that outlived the
// retention window.
package retention

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"cv-analyzer/internal/shared/telemetry"
)

// Purger deletes analyses not updated within maxAge.
type Purger interface {
	DeleteOlderThan(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Sweeper wraps robfig/cron and runs one purge per tick.
type Sweeper struct {
	cron     *cron.Cron
	purger   Purger
	maxAge   time.Duration
	schedule string

	mu      sync.Mutex
	running bool
}

// New creates a Sweeper that purges analyses older than maxAge on schedule,
// e.g. "@every 1h" or "0 3 * * *".
func New(purger Purger, maxAge time.Duration, schedule string) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		purger:   purger,
		maxAge:   maxAge,
		schedule: schedule,
	}
}

// Start registers the job and starts the scheduler.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.maxAge <= 0 {
		return fmt.Errorf("retention: max age must be positive, got %s", s.maxAge)
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { _, _ = s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("retention: schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	telemetry.Info("retention.started", map[string]any{"schedule": s.schedule, "max_age": s.maxAge.String()})
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	telemetry.Info("retention.stopped", nil)
}

// RunOnce performs a single sweep. Overlapping calls are skipped.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return 0, nil
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.purger.DeleteOlderThan(ctx, s.maxAge)
}
