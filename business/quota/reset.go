package quota

import (
	"context"
	"time"

	"fraudBench/pkg/logger"
	"fraudBench/pkg/metrics"
)

// ResetScheduler zeroes all quota counters at local midnight and reschedules
// itself for the next one. It runs for the life of the process and stops
// cleanly on shutdown.
type ResetScheduler struct {
	repo   Repository
	now    func() time.Time
	cancel context.CancelFunc
	done   chan struct{}
}

func NewResetScheduler(repo Repository) *ResetScheduler {
	return &ResetScheduler{
		repo: repo,
		now:  time.Now,
	}
}

// Start launches the scheduling loop. Calling Start twice is a bug.
func (s *ResetScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)
}

// Stop cancels the loop and waits for it to exit.
func (s *ResetScheduler) Stop() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	<-s.done
}

func (s *ResetScheduler) run(ctx context.Context) {
	defer close(s.done)

	for {
		next := NextReset(s.now())
		timer := time.NewTimer(next.Sub(s.now()))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.resetAll(ctx)
	}
}

func (s *ResetScheduler) resetAll(ctx context.Context) {
	day := Day(s.now())

	affected, err := s.repo.ResetAll(ctx, day)
	if err != nil {
		// Uploads degrade to QuotaExceeded until the next run; nothing
		// is corrupted, so log and keep the loop alive.
		logger.Error("Daily quota reset failed", err)
		return
	}

	metrics.QuotaResetsTotal.Inc()
	logger.Info("Daily quota reset completed", "records", affected, "date", day.Format(time.DateOnly))
}
