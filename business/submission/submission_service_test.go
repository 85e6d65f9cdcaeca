package submission

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"fraudBench/business/dataset"
	"fraudBench/business/quota"
	"fraudBench/domain"
)

type fakeScoreRepo struct {
	scores    []domain.Score
	createErr error
}

func (r *fakeScoreRepo) Create(_ context.Context, score *domain.Score) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.scores = append(r.scores, *score)
	return nil
}

func (r *fakeScoreRepo) FindByUser(_ context.Context, userID uint) ([]domain.Score, error) {
	var out []domain.Score
	for _, s := range r.scores {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeQuota struct {
	limit     int
	used      int
	checkErr  error
	commitErr error
	commits   int
}

func (q *fakeQuota) Check(context.Context, uint) error {
	return q.checkErr
}

func (q *fakeQuota) Commit(context.Context, uint) (int, error) {
	if q.commitErr != nil {
		return 0, q.commitErr
	}
	q.commits++
	q.used++
	return q.limit - q.used, nil
}

func (q *fakeQuota) UploadsToday(context.Context, uint) (int, error) {
	return q.used, nil
}

func (q *fakeQuota) Limit() int {
	return q.limit
}

func testReference(t *testing.T) *dataset.ReferenceSet {
	t.Helper()
	ref, err := dataset.ParseReferenceSet(strings.NewReader("FraudLabel\n1\n0\n1\n1\n"))
	if err != nil {
		t.Fatalf("failed to build reference set: %v", err)
	}
	return ref
}

func TestSubmit_Success(t *testing.T) {
	scoreRepo := &fakeScoreRepo{}
	quotaSvc := &fakeQuota{limit: 5}
	svc := NewSubmissionService(scoreRepo, quotaSvc, testReference(t))

	// actual=[1,0,1,1] predicted=[1,0,0,1] -> f1=0.8, accuracy=0.75
	result, err := svc.Submit(context.Background(), 42, strings.NewReader("isFraud\n1\n0\n0\n1\n"))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if math.Abs(result.F1-0.8) > 1e-9 {
		t.Errorf("F1 = %v, want 0.8", result.F1)
	}
	if math.Abs(result.Accuracy-0.75) > 1e-9 {
		t.Errorf("Accuracy = %v, want 0.75", result.Accuracy)
	}
	if result.UploadsRemaining != 4 {
		t.Errorf("UploadsRemaining = %d, want 4", result.UploadsRemaining)
	}
	if result.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}

	if len(scoreRepo.scores) != 1 {
		t.Fatalf("%d scores persisted, want 1", len(scoreRepo.scores))
	}
	stored := scoreRepo.scores[0]
	if stored.UserID != 42 {
		t.Errorf("stored UserID = %d, want 42", stored.UserID)
	}
	if stored.SubmissionID == "" {
		t.Error("stored SubmissionID should not be empty")
	}
	if quotaSvc.commits != 1 {
		t.Errorf("quota commits = %d, want 1", quotaSvc.commits)
	}
}

func TestSubmit_QuotaExceededAbortsEarly(t *testing.T) {
	scoreRepo := &fakeScoreRepo{}
	quotaSvc := &fakeQuota{
		limit:    5,
		checkErr: &quota.ExceededError{Limit: 5, NextReset: time.Now().Add(time.Hour)},
	}
	svc := NewSubmissionService(scoreRepo, quotaSvc, testReference(t))

	_, err := svc.Submit(context.Background(), 42, strings.NewReader("isFraud\n1\n0\n0\n1\n"))

	var exceeded *quota.ExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("error = %v, want ExceededError", err)
	}
	if len(scoreRepo.scores) != 0 {
		t.Error("no score should be persisted when quota check fails")
	}
	if quotaSvc.commits != 0 {
		t.Error("no quota commit should happen when quota check fails")
	}
}

func TestSubmit_InvalidFileLeavesNoTrace(t *testing.T) {
	scoreRepo := &fakeScoreRepo{}
	quotaSvc := &fakeQuota{limit: 5}
	svc := NewSubmissionService(scoreRepo, quotaSvc, testReference(t))

	_, err := svc.Submit(context.Background(), 42, strings.NewReader("isFraud\n1\nyes\n0\n1\n"))

	var invalid *dataset.InvalidValueError
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want InvalidValueError", err)
	}
	if len(scoreRepo.scores) != 0 {
		t.Error("no score should be persisted for an invalid file")
	}
	if quotaSvc.commits != 0 {
		t.Error("no quota should be charged for an invalid file")
	}
}

func TestSubmit_PersistFailureSkipsQuotaCharge(t *testing.T) {
	scoreRepo := &fakeScoreRepo{createErr: errors.New("connection reset")}
	quotaSvc := &fakeQuota{limit: 5}
	svc := NewSubmissionService(scoreRepo, quotaSvc, testReference(t))

	if _, err := svc.Submit(context.Background(), 42, strings.NewReader("isFraud\n1\n0\n0\n1\n")); err == nil {
		t.Fatal("Submit should fail when persistence fails")
	}
	if quotaSvc.commits != 0 {
		t.Error("quota must not be charged for a score that was never stored")
	}
}

func TestSubmit_QuotaCommitFailureIsNotFatal(t *testing.T) {
	scoreRepo := &fakeScoreRepo{}
	quotaSvc := &fakeQuota{limit: 5, commitErr: errors.New("deadlock")}
	svc := NewSubmissionService(scoreRepo, quotaSvc, testReference(t))

	result, err := svc.Submit(context.Background(), 42, strings.NewReader("isFraud\n1\n0\n0\n1\n"))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(scoreRepo.scores) != 1 {
		t.Error("score should still be persisted")
	}
	if result.UploadsRemaining != 5 {
		t.Errorf("UploadsRemaining = %d, want 5 (uncharged)", result.UploadsRemaining)
	}
}

func TestHistory_Stats(t *testing.T) {
	scoreRepo := &fakeScoreRepo{
		scores: []domain.Score{
			{UserID: 42, F1: 0.5, Accuracy: 0.6},
			{UserID: 42, F1: 0.9, Accuracy: 0.8},
			{UserID: 7, F1: 0.99, Accuracy: 0.99},
		},
	}
	quotaSvc := &fakeQuota{limit: 5, used: 2}
	svc := NewSubmissionService(scoreRepo, quotaSvc, testReference(t))

	scores, stats, err := svc.History(context.Background(), 42)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}

	if len(scores) != 2 {
		t.Errorf("%d scores returned, want 2", len(scores))
	}
	if stats.TotalSubmissions != 2 {
		t.Errorf("TotalSubmissions = %d, want 2", stats.TotalSubmissions)
	}
	if stats.BestF1 != 0.9 {
		t.Errorf("BestF1 = %v, want 0.9", stats.BestF1)
	}
	if stats.UploadsToday != 2 || stats.UploadsRemaining != 3 {
		t.Errorf("uploads today/remaining = %d/%d, want 2/3", stats.UploadsToday, stats.UploadsRemaining)
	}
}
