package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/model"

	"github.com/rs/zerolog"
)

type fakeUsageRepo struct {
	counts     map[string]int // key: userID + "|" + bucket
	getErr     error
	incErr     error
	increments int
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{counts: make(map[string]int)}
}

func (f *fakeUsageRepo) GetDailyCount(ctx context.Context, userID, bucket string) (int, error) {
	if f.getErr != nil {
		return 0, f.getErr
	}
	return f.counts[userID+"|"+bucket], nil
}

func (f *fakeUsageRepo) IncrementDaily(ctx context.Context, userID, bucket string) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.increments++
	f.counts[userID+"|"+bucket]++
	return nil
}

func testLimits() model.LimitsTable {
	return model.LimitsTable{
		model.PlanNone:     {DailyAnalyses: 0, MaxDocumentsPerRequest: 0},
		model.PlanBasico:   {DailyAnalyses: 3, MaxDocumentsPerRequest: 1},
		model.PlanAvanzado: {DailyAnalyses: 10, MaxDocumentsPerRequest: 2},
		model.PlanPremium:  {DailyAnalyses: 30, MaxDocumentsPerRequest: 3},
		model.PlanVIP:      {DailyAnalyses: model.Unlimited, MaxDocumentsPerRequest: model.Unlimited},
	}
}

func newGateAt(repo *fakeUsageRepo, at time.Time) *quotaGate {
	g := NewQuotaGate(repo, testLimits(), zerolog.Nop()).(*quotaGate)
	g.now = func() time.Time { return at }
	return g
}

func TestCheckAccessDeniesPlanNone(t *testing.T) {
	g := newGateAt(newFakeUsageRepo(), time.Now())
	if err := g.CheckAccess(context.Background(), "u1", model.PlanNone, 0, false); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestCheckAccessDocumentCeiling(t *testing.T) {
	g := newGateAt(newFakeUsageRepo(), time.Now())

	if err := g.CheckAccess(context.Background(), "u1", model.PlanBasico, 1, true); err != nil {
		t.Errorf("1 document on basico should pass, got %v", err)
	}
	if err := g.CheckAccess(context.Background(), "u1", model.PlanBasico, 2, true); !errors.Is(err, ErrTooManyDocuments) {
		t.Errorf("expected ErrTooManyDocuments, got %v", err)
	}
	if err := g.CheckAccess(context.Background(), "u1", model.PlanVIP, 50, true); err != nil {
		t.Errorf("vip has no document ceiling, got %v", err)
	}
}

func TestCheckAccessDocumentCeilingAppliesToUnmeteredActions(t *testing.T) {
	g := newGateAt(newFakeUsageRepo(), time.Now())
	if err := g.CheckAccess(context.Background(), "u1", model.PlanBasico, 2, false); !errors.Is(err, ErrTooManyDocuments) {
		t.Errorf("expected ErrTooManyDocuments for unmetered action, got %v", err)
	}
}

func TestDailyLimitBlocksFourthAnalysis(t *testing.T) {
	repo := newFakeUsageRepo()
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newGateAt(repo, at)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := g.CheckAccess(ctx, "u1", model.PlanBasico, 1, true); err != nil {
			t.Fatalf("analysis %d should pass, got %v", i+1, err)
		}
		if err := g.CommitUsage(ctx, "u1"); err != nil {
			t.Fatalf("commit %d failed: %v", i+1, err)
		}
	}
	if err := g.CheckAccess(ctx, "u1", model.PlanBasico, 1, true); !errors.Is(err, ErrDailyLimitExceeded) {
		t.Errorf("expected ErrDailyLimitExceeded on the fourth analysis, got %v", err)
	}
}

func TestDailyLimitResetsNextBucketDay(t *testing.T) {
	repo := newFakeUsageRepo()
	day1 := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	g := newGateAt(repo, day1)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := g.CommitUsage(ctx, "u1"); err != nil {
			t.Fatalf("commit failed: %v", err)
		}
	}
	if err := g.CheckAccess(ctx, "u1", model.PlanBasico, 1, true); !errors.Is(err, ErrDailyLimitExceeded) {
		t.Fatalf("expected limit on day one, got %v", err)
	}

	g.now = func() time.Time { return day1.Add(24 * time.Hour) }
	if err := g.CheckAccess(ctx, "u1", model.PlanBasico, 1, true); err != nil {
		t.Errorf("new bucket day should reset the count, got %v", err)
	}
}

func TestVIPNeverDailyLimited(t *testing.T) {
	repo := newFakeUsageRepo()
	g := newGateAt(repo, time.Now())
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		if err := g.CommitUsage(ctx, "u1"); err != nil {
			t.Fatalf("commit failed: %v", err)
		}
	}
	if err := g.CheckAccess(ctx, "u1", model.PlanVIP, 1, true); err != nil {
		t.Errorf("vip must never be daily-limited, got %v", err)
	}
	// Unlimited plans short-circuit before touching the store.
	repo.getErr = errors.New("db down")
	if err := g.CheckAccess(ctx, "u1", model.PlanVIP, 1, true); err != nil {
		t.Errorf("vip check must not read the usage store, got %v", err)
	}
}

func TestUnmeteredActionSkipsDailyCheck(t *testing.T) {
	repo := newFakeUsageRepo()
	repo.getErr = errors.New("db down")
	g := newGateAt(repo, time.Now())

	if err := g.CheckAccess(context.Background(), "u1", model.PlanBasico, 0, false); err != nil {
		t.Errorf("unmetered action must not read the usage store, got %v", err)
	}
}

func TestCheckAccessSurfacesStoreErrors(t *testing.T) {
	repo := newFakeUsageRepo()
	repo.getErr = errors.New("db down")
	g := newGateAt(repo, time.Now())

	if err := g.CheckAccess(context.Background(), "u1", model.PlanBasico, 1, true); err == nil {
		t.Error("expected an error when the usage store is unreachable")
	}
}

func TestCommitUsageIncrementsCurrentBucket(t *testing.T) {
	repo := newFakeUsageRepo()
	at := time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC) // bucket 2025-03-09
	g := newGateAt(repo, at)

	if err := g.CommitUsage(context.Background(), "u1"); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if got := repo.counts["u1|2025-03-09"]; got != 1 {
		t.Errorf("expected count 1 in bucket 2025-03-09, got %d (counts: %v)", got, repo.counts)
	}
}
