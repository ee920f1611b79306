// Package scheduler runs the periodic hold-expiry sweep.
package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type holdSweeper interface {
	Sweep(ctx context.Context) bool
}

// Scheduler polls the coordinator at a fixed interval so that an
// overdue hold is reverted within one interval even when no deadline
// callback fires.
type Scheduler struct {
	sweeper  holdSweeper
	interval time.Duration
	log      logrus.FieldLogger
}

func New(sweeper holdSweeper, interval time.Duration, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		log:      log,
	}
}

// Start blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.WithField("interval", s.interval.String()).Info("scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.sweeper.Sweep(ctx) {
		s.log.Debug("sweep expired a hold")
	}
}
