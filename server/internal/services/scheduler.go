package services

import (
	"context"
	"time"

	"github.com/bait0ngxaxa/survey-sub000/server/internal/repository"

	"go.uber.org/zap"
)

// Scheduler periodically deletes draft submissions that were abandoned.
type Scheduler struct {
	log      *zap.Logger
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
}

func NewScheduler(log *zap.Logger, interval, ttl time.Duration) *Scheduler {
	return &Scheduler{
		log:      log.Named("scheduler"),
		interval: interval,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Start runs the sweeper in a goroutine until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 || s.ttl <= 0 {
		s.log.Info("Draft sweeper disabled")
		return
	}

	s.log.Info("Starting draft sweeper...", zap.Duration("interval", s.interval), zap.Duration("ttl", s.ttl))
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *Scheduler) sweep(ctx context.Context) int64 {
	cutoff := s.now().Add(-s.ttl)
	deleted, err := repository.DeleteStaleDrafts(ctx, cutoff)
	if err != nil {
		s.log.Error("Failed to delete stale drafts", zap.Error(err))
		return 0
	}
	if deleted > 0 {
		s.log.Info("Deleted stale drafts", zap.Int64("count", deleted), zap.Time("cutoff", cutoff))
	}
	return deleted
}
