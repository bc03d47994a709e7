package scheduler

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dyxcloud/workday-api/internal/secondary"
)

type stubFetcher struct {
	results map[int]map[string]string
	calls   []int
}

func (f *stubFetcher) Fetch(year int) map[string]string {
	f.calls = append(f.calls, year)
	return f.results[year]
}

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, 6, 15, 4, 5, 0, 0, time.Local)
	}
}

func TestCacheRefresherRun(t *testing.T) {
	store := secondary.NewMemoryStore(nil)
	fetcher := &stubFetcher{
		results: map[int]map[string]string{
			2026: {"2026-01-01": "元旦"},
			2027: {"2027-01-01": "元旦"},
		},
	}

	cr := NewCacheRefresher(fetcher, store, zap.NewNop())
	cr.now = fixedClock(2026)

	if err := cr.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(fetcher.calls, []int{2026, 2027}) {
		t.Errorf("fetched years = %v, want [2026 2027]", fetcher.calls)
	}

	idx := store.Load()
	if len(idx) != 2 {
		t.Fatalf("stored years = %d, want 2", len(idx))
	}
	if idx[2026]["2026-01-01"] != "元旦" {
		t.Errorf("stored 2026 entry = %v", idx[2026])
	}
}

func TestCacheRefresherRun_EmptyFetchKeepsOldData(t *testing.T) {
	store := secondary.NewMemoryStore(secondary.Index{
		2026: {"2026-01-01": "元旦"},
	})
	// Feed is down: both years come back empty.
	fetcher := &stubFetcher{results: map[int]map[string]string{}}

	cr := NewCacheRefresher(fetcher, store, zap.NewNop())
	cr.now = fixedClock(2026)

	if err := cr.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	idx := store.Load()
	if idx[2026]["2026-01-01"] != "元旦" {
		t.Errorf("previously cached year lost: %v", idx)
	}
}

func TestCacheRefresherRun_OneYearFails(t *testing.T) {
	store := secondary.NewMemoryStore(nil)
	fetcher := &stubFetcher{
		results: map[int]map[string]string{
			2027: {"2027-10-01": "国庆节"},
		},
	}

	cr := NewCacheRefresher(fetcher, store, zap.NewNop())
	cr.now = fixedClock(2026)

	if err := cr.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	idx := store.Load()
	if _, ok := idx[2026]; ok {
		t.Error("empty fetch result was stored for 2026")
	}
	if idx[2027]["2027-10-01"] != "国庆节" {
		t.Errorf("2027 entry missing: %v", idx)
	}
}

type failingStore struct{}

func (failingStore) Load() secondary.Index      { return secondary.Index{} }
func (failingStore) Save(secondary.Index) error { return errors.New("disk full") }

func TestCacheRefresherRun_SaveFailure(t *testing.T) {
	cr := NewCacheRefresher(&stubFetcher{}, failingStore{}, zap.NewNop())
	cr.now = fixedClock(2026)

	if err := cr.Run(); err == nil {
		t.Error("Run() expected error when persisting fails")
	}
}

type countingUpdater struct{ runs int }

func (u *countingUpdater) Run() error {
	u.runs++
	return nil
}

func TestSchedulerStart(t *testing.T) {
	store := secondary.NewMemoryStore(nil)
	fetcher := &stubFetcher{
		results: map[int]map[string]string{
			2026: {"2026-01-01": "元旦"},
		},
	}
	refresher := NewCacheRefresher(fetcher, store, zap.NewNop())
	refresher.now = fixedClock(2026)

	s := New(time.Local, "0 4 * * *", "5 4 * * *", &countingUpdater{}, refresher, zap.NewNop())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	// The startup refresh runs before any cron trigger.
	if len(fetcher.calls) == 0 {
		t.Error("startup cache refresh did not run")
	}
	if len(store.Load()) != 1 {
		t.Errorf("startup refresh did not persist: %v", store.Load())
	}
}

func TestSchedulerStart_BadSpec(t *testing.T) {
	refresher := NewCacheRefresher(&stubFetcher{}, secondary.NewMemoryStore(nil), zap.NewNop())
	refresher.now = fixedClock(2026)

	s := New(time.Local, "not a cron spec", "5 4 * * *", &countingUpdater{}, refresher, zap.NewNop())
	if err := s.Start(); err == nil {
		t.Error("Start() expected error for invalid cron spec")
	}
}
