package service

import (
	"context"
	"time"

	"roundsmirror/pkg/logger"

	"go.uber.org/zap"
)

type Scheduler struct {
	refresher RefreshServiceI
	interval  time.Duration
}

func NewScheduler(refresher RefreshServiceI, interval time.Duration) *Scheduler {
	return &Scheduler{
		refresher: refresher,
		interval:  interval,
	}
}

// Run refreshes the mirror once immediately and then on every interval
// tick until the context is cancelled. Overlapping runs are prevented by
// the refresh service itself, so a tick during a long refresh is a no-op.
func (s *Scheduler) Run(ctx context.Context) {
	log := logger.Logger()

	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	if err := s.refresher.Refresh(ctx); err != nil {
		logger.Logger().Error("scheduled refresh failed", zap.Error(err))
	}
}
