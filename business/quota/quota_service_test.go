package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeRepo mimics the conditional-update semantics of the postgres repository.
type fakeRepo struct {
	mu     sync.Mutex
	counts map[uint]int
	day    time.Time
	err    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{counts: make(map[uint]int)}
}

func (r *fakeRepo) CountForDay(_ context.Context, userID uint, day time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	if !r.day.Equal(day) {
		return 0, nil
	}
	return r.counts[userID], nil
}

func (r *fakeRepo) IncrementWithLimit(_ context.Context, userID uint, day time.Time, limit int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	if !r.day.Equal(day) {
		r.day = day
		r.counts = map[uint]int{}
	}
	if r.counts[userID] >= limit {
		return 0, ErrLimitReached
	}
	r.counts[userID]++
	return r.counts[userID], nil
}

func (r *fakeRepo) ResetAll(_ context.Context, day time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.counts))
	r.counts = map[uint]int{}
	r.day = day
	return n, nil
}

func serviceAt(repo Repository, limit int, now time.Time) *Service {
	s := NewService(repo, limit)
	s.now = func() time.Time { return now }
	return s
}

func TestService_CommitUntilLimit(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	svc := serviceAt(newFakeRepo(), 5, now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := svc.Check(ctx, 1); err != nil {
			t.Fatalf("Check before upload %d failed: %v", i+1, err)
		}
		remaining, err := svc.Commit(ctx, 1)
		if err != nil {
			t.Fatalf("Commit %d failed: %v", i+1, err)
		}
		if want := 5 - (i + 1); remaining != want {
			t.Errorf("remaining after upload %d = %d, want %d", i+1, remaining, want)
		}
	}

	err := svc.Check(ctx, 1)
	var exceeded *ExceededError
	if !errors.As(err, &exceeded) {
		t.Fatalf("Check after limit: error = %v, want ExceededError", err)
	}

	wantReset := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	if !exceeded.NextReset.Equal(wantReset) {
		t.Errorf("NextReset = %v, want %v", exceeded.NextReset, wantReset)
	}

	if _, err := svc.Commit(ctx, 1); !errors.As(err, &exceeded) {
		t.Errorf("Commit after limit: error = %v, want ExceededError", err)
	}
}

func TestService_ConcurrentCommitsRespectLimit(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
	svc := serviceAt(newFakeRepo(), 5, now)

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Commit(context.Background(), 1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 5 {
		t.Errorf("%d commits succeeded, want exactly 5", succeeded)
	}
}

func TestService_CountsResetAfterMidnight(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2026, 3, 14, 23, 50, 0, 0, time.Local)
	svc := serviceAt(repo, 2, now)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Commit(ctx, 7); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
	}
	if err := svc.Check(ctx, 7); err == nil {
		t.Fatal("Check should fail at the limit")
	}

	// The midnight job fires.
	if _, err := repo.ResetAll(ctx, Day(now.Add(time.Hour))); err != nil {
		t.Fatalf("ResetAll failed: %v", err)
	}
	svc.now = func() time.Time { return now.Add(time.Hour) }

	if err := svc.Check(ctx, 7); err != nil {
		t.Errorf("Check after reset failed: %v", err)
	}
	count, err := svc.UploadsToday(ctx, 7)
	if err != nil {
		t.Fatalf("UploadsToday failed: %v", err)
	}
	if count != 0 {
		t.Errorf("UploadsToday after reset = %d, want 0", count)
	}
}

func TestService_RepositoryFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("connection refused")
	svc := serviceAt(repo, 5, time.Now())

	if err := svc.Check(context.Background(), 1); err == nil {
		t.Error("Check should surface repository errors")
	}
	if _, err := svc.Commit(context.Background(), 1); err == nil {
		t.Error("Commit should surface repository errors")
	}
}

func TestNextReset(t *testing.T) {
	now := time.Date(2026, 12, 31, 23, 59, 59, 0, time.Local)
	want := time.Date(2027, 1, 1, 0, 0, 0, 0, time.Local)
	if got := NextReset(now); !got.Equal(want) {
		t.Errorf("NextReset(%v) = %v, want %v", now, got, want)
	}
}
