package scheduler

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dyxcloud/workday-api/internal/secondary"
)

// HolidayFetcher retrieves one year of cross-check holidays. Implemented by
// secondary.Fetcher; stubbed in tests.
type HolidayFetcher interface {
	Fetch(year int) map[string]string
}

// CacheRefresher updates the cross-check index for the current and next
// year, merging only non-empty fetch results so a feed outage never wipes
// previously cached years.
type CacheRefresher struct {
	fetcher HolidayFetcher
	store   secondary.Store
	logger  *zap.Logger
	now     func() time.Time
}

// NewCacheRefresher creates a CacheRefresher over the given fetcher and store.
func NewCacheRefresher(fetcher HolidayFetcher, store secondary.Store, logger *zap.Logger) *CacheRefresher {
	return &CacheRefresher{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Run refreshes the current and next year. A failed fetch for one year does
// not abort the other; the merged index is persisted as a whole.
func (cr *CacheRefresher) Run() error {
	currentYear := cr.now().Year()

	idx := cr.store.Load()
	refreshed := 0
	for _, year := range []int{currentYear, currentYear + 1} {
		holidays := cr.fetcher.Fetch(year)
		if len(holidays) == 0 {
			continue
		}
		idx[year] = holidays
		refreshed++
	}

	if err := cr.store.Save(idx); err != nil {
		return fmt.Errorf("failed to persist holiday cache: %w", err)
	}

	cr.logger.Info("Cross-check cache refreshed",
		zap.Int("refreshed_years", refreshed),
		zap.Int("total_years", len(idx)))

	return nil
}
