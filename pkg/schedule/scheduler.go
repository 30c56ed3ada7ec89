// Package schedule runs the watchdog batch on a cron expression.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dwellwatch/dwellwatch/pkg/runner"
	"github.com/robfig/cron/v3"
)

// DefaultCronExpr re-checks the whole collection once a day, matching the
// hospital protocol's recheck interval.
const DefaultCronExpr = "@every 24h"

type Scheduler struct {
	runner   *runner.Runner
	cronExpr string
	logger   *slog.Logger
	cron     *cron.Cron
	running  atomic.Bool
}

func NewScheduler(r *runner.Runner, cronExpr string, logger *slog.Logger) (*Scheduler, error) {
	if cronExpr == "" {
		cronExpr = DefaultCronExpr
	}

	if _, err := cron.ParseStandard(cronExpr); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}

	return &Scheduler{
		runner:   r,
		cronExpr: cronExpr,
		logger:   logger.With("module", "scheduler", "cron", cronExpr),
	}, nil
}

// Start schedules runs until ctx is cancelled. A run that is still in flight
// when the next tick fires makes that tick a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron = cron.New()

	_, err := s.cron.AddFunc(s.cronExpr, func() {
		if !s.running.CompareAndSwap(false, true) {
			s.logger.Warn("Previous run still in flight, skipping this tick")

			return
		}
		defer s.running.Store(false)

		if _, _, err := s.runner.Run(ctx); err != nil {
			s.logger.Error("Scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule run: %w", err)
	}

	s.logger.Info("Starting scheduler")
	s.cron.Start()

	<-ctx.Done()

	s.logger.Info("Stopping scheduler")
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	return nil
}
