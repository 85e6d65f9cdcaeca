// Package quota enforces the per-user daily upload allowance.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fraudBench/pkg/logger"
)

// ErrLimitReached is returned by Repository.IncrementWithLimit when the
// conditional increment finds the counter already at the limit.
var ErrLimitReached = errors.New("daily upload limit reached")

// Repository contract interface. IncrementWithLimit must be atomic at the
// storage layer: overlapping requests from one user may never push the
// counter past the limit.
type Repository interface {
	CountForDay(ctx context.Context, userID uint, day time.Time) (int, error)
	IncrementWithLimit(ctx context.Context, userID uint, day time.Time, limit int) (int, error)
	ResetAll(ctx context.Context, day time.Time) (int64, error)
}

// ExceededError carries the timestamp at which uploads resume.
type ExceededError struct {
	Limit     int
	NextReset time.Time
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("daily upload limit of %d reached, resets at %s",
		e.Limit, e.NextReset.Format(time.RFC3339))
}

type Service struct {
	repo  Repository
	limit int
	now   func() time.Time
}

func NewService(repo Repository, limit int) *Service {
	return &Service{
		repo:  repo,
		limit: limit,
		now:   time.Now,
	}
}

func (s *Service) Limit() int {
	return s.limit
}

// Day truncates t to its local calendar date.
func Day(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// NextReset returns the upcoming local midnight after t.
func NextReset(t time.Time) time.Time {
	return Day(t).AddDate(0, 0, 1)
}

// Check is the cheap pre-flight read before an upload is evaluated. The
// authoritative limit enforcement happens in Commit.
func (s *Service) Check(ctx context.Context, userID uint) error {
	now := s.now()

	count, err := s.repo.CountForDay(ctx, userID, Day(now))
	if err != nil {
		logger.Error("Failed to read quota record", err)
		return fmt.Errorf("failed to check upload quota: %w", err)
	}

	if count >= s.limit {
		return &ExceededError{Limit: s.limit, NextReset: NextReset(now)}
	}

	return nil
}

// Commit charges one upload and returns the remaining allowance for today.
func (s *Service) Commit(ctx context.Context, userID uint) (int, error) {
	now := s.now()

	count, err := s.repo.IncrementWithLimit(ctx, userID, Day(now), s.limit)
	if errors.Is(err, ErrLimitReached) {
		return 0, &ExceededError{Limit: s.limit, NextReset: NextReset(now)}
	}
	if err != nil {
		logger.Error("Failed to commit quota increment", err)
		return 0, fmt.Errorf("failed to commit upload quota: %w", err)
	}

	return s.limit - count, nil
}

// UploadsToday returns the current day's consumed count.
func (s *Service) UploadsToday(ctx context.Context, userID uint) (int, error) {
	return s.repo.CountForDay(ctx, userID, Day(s.now()))
}
