package worker

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/devforge/codelab/internal/domain/subscription"
	"github.com/devforge/codelab/internal/pkg/logger"
	"github.com/devforge/codelab/internal/pkg/metrics"
)

// ExpirySweeper flips lapsed subscriptions from active to inactive so the
// entitlement gate stops honoring them. The gate also checks end dates on
// every request; the sweeper keeps the stored status and the active-count
// metrics truthful.
type ExpirySweeper struct {
	subs     subscription.Repository
	schedule string
	cron     *cron.Cron
	logger   *logger.Logger
}

// NewExpirySweeper creates a new expiry sweeper
func NewExpirySweeper(subs subscription.Repository, schedule string, log *logger.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		subs:     subs,
		schedule: schedule,
		logger:   log,
	}
}

// Start schedules the sweep and runs one immediately so a restart never
// leaves stale rows until the next tick.
func (s *ExpirySweeper) Start(ctx context.Context) error {
	s.cron = cron.New()

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.sweep(ctx)
	}); err != nil {
		return err
	}

	s.logger.Infof("Starting subscription expiry sweeper (schedule: %s)", s.schedule)
	s.sweep(ctx)
	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *ExpirySweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("Subscription expiry sweeper stopped")
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	swept, err := s.subs.ExpireLapsed(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "Subscription expiry sweep failed")
		return
	}

	if swept > 0 {
		s.logger.WithFields(map[string]interface{}{
			"expired": swept,
		}).Info("Swept lapsed subscriptions")
	}

	s.updateActiveCounts(ctx)
}

// updateActiveCounts refreshes the per-plan active subscription gauges
func (s *ExpirySweeper) updateActiveCounts(ctx context.Context) {
	counts, err := s.subs.CountActiveByPlan(ctx)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to count active subscriptions")
		return
	}
	for plan, count := range counts {
		metrics.SetActiveSubscriptions(plan, float64(count))
	}
}
