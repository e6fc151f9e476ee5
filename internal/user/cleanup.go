package user

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Le0Vieir4/Weather-io/internal/logger"
)

// Cleaner permanently purges accounts that have been deactivated for longer
// than the retention window. The scheduled sweep and the manual trigger share
// one code path and are idempotent: rerunning finds zero matches.
type Cleaner struct {
	scheduler *gocron.Scheduler
	users     *Service
	days      int
	at        string
	log       *logger.Logger
}

// NewCleaner creates a Cleaner sweeping daily at the given wall-clock time (UTC,
// "HH:MM") with the given retention window in days.
func NewCleaner(users *Service, days int, at string, log *logger.Logger) *Cleaner {
	return &Cleaner{
		scheduler: gocron.NewScheduler(time.UTC),
		users:     users,
		days:      days,
		at:        at,
		log:       log,
	}
}

// Start schedules the daily sweep. Sweep failures are logged and swallowed so
// one bad run never halts the scheduler or crashes the process.
func (c *Cleaner) Start() error {
	_, err := c.scheduler.Every(1).Day().At(c.at).Do(func() {
		c.log.Info().Int("retentionDays", c.days).Msg("cleanup: starting scheduled sweep of inactive users")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		deleted, err := c.users.DeleteInactiveOlderThan(ctx, c.days)
		if err != nil {
			c.log.Err(err).Msg("cleanup: scheduled sweep failed")
			return
		}
		c.log.Info().Int("deleted", deleted).Msg("cleanup: scheduled sweep completed")
	})
	if err != nil {
		return err
	}

	c.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels future sweeps.
func (c *Cleaner) Stop() {
	if c.scheduler != nil {
		c.scheduler.Stop()
	}
}

// RunNow triggers one sweep immediately, outside the schedule.
func (c *Cleaner) RunNow(ctx context.Context) (int, error) {
	c.log.Info().Int("retentionDays", c.days).Msg("cleanup: running manual sweep")
	return c.users.DeleteInactiveOlderThan(ctx, c.days)
}
