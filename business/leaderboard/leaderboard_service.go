// Package leaderboard ranks participants by their best submission.
package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fraudBench/domain"
	"fraudBench/pkg/logger"
)

// DefaultLimit is the number of entries returned when no limit is requested.
const DefaultLimit = 5

// ScoreRepository contract interface
type ScoreRepository interface {
	FindAll(ctx context.Context) ([]domain.Score, error)
}

// UserRepository contract interface
type UserRepository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
}

// Cache is an optional read-through cache for assembled boards. Get returns
// (nil, nil) on a miss.
type Cache interface {
	GetBoard(ctx context.Context, limit int) (*Board, error)
	SetBoard(ctx context.Context, limit int, board *Board) error
}

type Entry struct {
	UserID         uint
	Email          string
	F1             float64
	Accuracy       float64
	LastSubmission time.Time
}

type Board struct {
	Entries   []Entry
	UpdatedAt time.Time
}

type leaderboardService struct {
	scoreRepo ScoreRepository
	userRepo  UserRepository
	cache     Cache
	now       func() time.Time
}

// NewLeaderboardService builds the service. cache may be nil.
func NewLeaderboardService(scoreRepo ScoreRepository, userRepo UserRepository, cache Cache) *leaderboardService {
	return &leaderboardService{
		scoreRepo: scoreRepo,
		userRepo:  userRepo,
		cache:     cache,
		now:       time.Now,
	}
}

// BestScores reduces all submissions to each owner's single best: highest f1,
// earliest timestamp on ties. The result is ordered by f1 descending, then by
// earlier submission first.
func BestScores(scores []domain.Score) []domain.Score {
	bestByUser := make(map[uint]domain.Score)
	for _, score := range scores {
		best, seen := bestByUser[score.UserID]
		if !seen ||
			score.F1 > best.F1 ||
			(score.F1 == best.F1 && score.CreatedAt.Before(best.CreatedAt)) {
			bestByUser[score.UserID] = score
		}
	}

	ranked := make([]domain.Score, 0, len(bestByUser))
	for _, score := range bestByUser {
		ranked = append(ranked, score)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].F1 != ranked[j].F1 {
			return ranked[i].F1 > ranked[j].F1
		}
		return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
	})

	return ranked
}

// Top returns the leaderboard truncated to limit entries.
func (s *leaderboardService) Top(ctx context.Context, limit int) (*Board, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	if s.cache != nil {
		board, err := s.cache.GetBoard(ctx, limit)
		if err != nil {
			logger.Warn("Leaderboard cache read failed", err)
		} else if board != nil {
			return board, nil
		}
	}

	scores, err := s.scoreRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to load scores for leaderboard", err)
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}

	ranked := BestScores(scores)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	emails, err := s.emailsByUser(ctx)
	if err != nil {
		logger.Error("Failed to load users for leaderboard", err)
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	board := &Board{
		Entries:   make([]Entry, 0, len(ranked)),
		UpdatedAt: s.now(),
	}
	for _, score := range ranked {
		board.Entries = append(board.Entries, Entry{
			UserID:         score.UserID,
			Email:          emails[score.UserID],
			F1:             score.F1,
			Accuracy:       score.Accuracy,
			LastSubmission: score.CreatedAt,
		})
	}

	if s.cache != nil {
		if err := s.cache.SetBoard(ctx, limit, board); err != nil {
			logger.Warn("Leaderboard cache write failed", err)
		}
	}

	return board, nil
}

func (s *leaderboardService) emailsByUser(ctx context.Context) (map[uint]string, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	emails := make(map[uint]string, len(users))
	for _, user := range users {
		emails[user.ID] = user.Email
	}

	return emails, nil
}
