package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"sai-tutoria/internal/dto"
	"sai-tutoria/pkg/refcache"
)

func setupReferenceService() (ReferenceService, *testRepos) {
	repos := newTestRepos()
	seedAcademic(repos)
	return NewReferenceService(repos.toRepository(), refcache.New(), zap.NewNop()), repos
}

func TestReferenceService_PeriodsCached(t *testing.T) {
	svc, repos := setupReferenceService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		periods, err := svc.Periods(ctx)
		if err != nil {
			t.Fatalf("Periods failed: %v", err)
		}
		if len(periods) != 1 || periods[0].Name != "2024-2025 CI" {
			t.Fatalf("unexpected periods %+v", periods)
		}
	}
	if n := repos.reference.periodCalls.Load(); n != 1 {
		t.Errorf("expected one repository call, got %d", n)
	}
	if st := svc.CacheStats(); st.Hits != 2 || st.Misses != 1 || st.Entries != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestReferenceService_ConcurrentMissesCoalesce(t *testing.T) {
	svc, repos := setupReferenceService()
	repos.reference.delay = 50 * time.Millisecond

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Periods(context.Background()); err != nil {
				t.Errorf("Periods failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := repos.reference.periodCalls.Load(); n != 1 {
		t.Errorf("concurrent misses should share one fetch, got %d", n)
	}
}

func TestReferenceService_ClearCache(t *testing.T) {
	svc, repos := setupReferenceService()
	ctx := context.Background()

	_, _ = svc.Periods(ctx)
	_, _ = svc.Levels(ctx, &dto.LevelQuery{PeriodID: fxPeriod})
	_, _ = svc.Periods(ctx)

	before := svc.ClearCache()
	if before.Entries != 2 || before.Hits != 1 {
		t.Errorf("ClearCache should report the counters it reached, got %+v", before)
	}
	if st := svc.CacheStats(); st.Entries != 0 || st.Hits != 0 {
		t.Errorf("cache not reset: %+v", st)
	}

	_, _ = svc.Periods(ctx)
	if n := repos.reference.periodCalls.Load(); n != 2 {
		t.Errorf("a cleared cache must fetch again, got %d calls", n)
	}
}

func TestReferenceService_SectionsCarryShift(t *testing.T) {
	svc, _ := setupReferenceService()

	sections, err := svc.Sections(context.Background(), &dto.SectionQuery{SemesterPeriodID: fxLevel})
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}
	if len(sections) != 1 || sections[0].Shift != "matutina" {
		t.Errorf("unexpected sections %+v", sections)
	}
}
