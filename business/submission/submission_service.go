// Package submission orchestrates one upload: quota pre-check, CSV
// normalization against the reference dataset, metric computation, score
// persistence, and the quota charge.
package submission

import (
	"context"
	"fmt"
	"io"
	"time"

	"fraudBench/business/dataset"
	"fraudBench/business/evaluation"
	"fraudBench/domain"
	"fraudBench/pkg/logger"

	"github.com/google/uuid"
)

// ScoreRepository contract interface
type ScoreRepository interface {
	Create(ctx context.Context, score *domain.Score) error
	FindByUser(ctx context.Context, userID uint) ([]domain.Score, error)
}

// QuotaService contract interface
type QuotaService interface {
	Check(ctx context.Context, userID uint) error
	Commit(ctx context.Context, userID uint) (int, error)
	UploadsToday(ctx context.Context, userID uint) (int, error)
	Limit() int
}

// Result is returned to the uploader after a successful evaluation.
type Result struct {
	F1               float64
	Accuracy         float64
	Timestamp        time.Time
	UploadsRemaining int
}

// Stats summarizes a user's submission history.
type Stats struct {
	TotalSubmissions int
	BestF1           float64
	UploadsToday     int
	UploadsRemaining int
}

type submissionService struct {
	scoreRepo ScoreRepository
	quota     QuotaService
	reference *dataset.ReferenceSet
	now       func() time.Time
}

func NewSubmissionService(scoreRepo ScoreRepository, quota QuotaService, reference *dataset.ReferenceSet) *submissionService {
	return &submissionService{
		scoreRepo: scoreRepo,
		quota:     quota,
		reference: reference,
		now:       time.Now,
	}
}

// Submit evaluates one uploaded prediction file for userID. Validation or
// quota failures abort before anything is persisted. The quota is charged
// only after the score row is durably stored; if that final charge fails the
// user keeps a free upload, which is an accepted degraded state.
func (s *submissionService) Submit(ctx context.Context, userID uint, file io.Reader) (Result, error) {
	if err := s.quota.Check(ctx, userID); err != nil {
		return Result{}, err
	}

	predictions, err := dataset.NormalizePredictions(file, s.reference)
	if err != nil {
		return Result{}, err
	}

	report, err := evaluation.Evaluate(s.reference.Labels(), predictions)
	if err != nil {
		logger.Error("Evaluation failed on normalized predictions", err)
		return Result{}, fmt.Errorf("failed to evaluate submission: %w", err)
	}

	score := domain.Score{
		SubmissionID: uuid.NewString(),
		UserID:       userID,
		F1:           report.F1,
		Accuracy:     report.Accuracy,
		CreatedAt:    s.now(),
	}
	if err := s.scoreRepo.Create(ctx, &score); err != nil {
		logger.Error("Failed to persist score", err)
		return Result{}, fmt.Errorf("failed to store score: %w", err)
	}

	remaining, err := s.quota.Commit(ctx, userID)
	if err != nil {
		// The score is already stored; do not fail the upload over the
		// missed charge.
		logger.Warn("Quota commit failed after score persisted", "user_id", userID, "error", err)
		used, readErr := s.quota.UploadsToday(ctx, userID)
		if readErr != nil {
			used = 0
		}
		remaining = s.quota.Limit() - used
	}

	logger.Info("Submission scored",
		"user_id", userID,
		"submission_id", score.SubmissionID,
		"f1", report.F1,
		"accuracy", report.Accuracy,
	)

	return Result{
		F1:               report.F1,
		Accuracy:         report.Accuracy,
		Timestamp:        score.CreatedAt,
		UploadsRemaining: remaining,
	}, nil
}

// History returns the user's submissions plus aggregate stats.
func (s *submissionService) History(ctx context.Context, userID uint) ([]domain.Score, Stats, error) {
	scores, err := s.scoreRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to load score history", err)
		return nil, Stats{}, fmt.Errorf("failed to load score history: %w", err)
	}

	stats := Stats{TotalSubmissions: len(scores)}
	for _, score := range scores {
		if score.F1 > stats.BestF1 {
			stats.BestF1 = score.F1
		}
	}

	used, err := s.quota.UploadsToday(ctx, userID)
	if err != nil {
		logger.Error("Failed to read today's upload count", err)
		return nil, Stats{}, fmt.Errorf("failed to read upload quota: %w", err)
	}
	stats.UploadsToday = used
	stats.UploadsRemaining = s.quota.Limit() - used
	if stats.UploadsRemaining < 0 {
		stats.UploadsRemaining = 0
	}

	return scores, stats, nil
}

// RowCount exposes the reference dataset length for client-side validation.
func (s *submissionService) RowCount() int {
	return s.reference.Len()
}
