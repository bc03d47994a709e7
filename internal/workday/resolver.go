package workday

import (
	"time"

	"go.uber.org/zap"

	"github.com/dyxcloud/workday-api/internal/chinacal"
	"github.com/dyxcloud/workday-api/internal/secondary"
	"github.com/dyxcloud/workday-api/pkg/dateutil"
)

// DefaultHorizon bounds the next-rest-day scan, in days.
const DefaultHorizon = 30

// Resolver merges the primary rule table with the secondary cross-check
// index into per-date verdicts. It is read-only: a verdict is a pure
// function of the two source snapshots and the target date.
type Resolver struct {
	source chinacal.Source
	store  secondary.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewResolver creates a Resolver over the given source and cross-check store.
func NewResolver(source chinacal.Source, store secondary.Store, logger *zap.Logger) *Resolver {
	return &Resolver{
		source: source,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the real-time clock used for days_from_now distances.
// Intended for tests.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve produces the verdict for the given date, including the nested
// next rest day. Callers may strip NextRestDay for compact responses.
// Returns *chinacal.UnsupportedYearError when the rule table does not cover
// the date's year.
func (r *Resolver) Resolve(date time.Time) (*Verdict, error) {
	fact, err := r.source.Fact(date)
	if err != nil {
		return nil, err
	}

	v := &Verdict{
		Date:      dateutil.FormatISO(date),
		Weekday:   dateutil.WeekdayLabel(date),
		IsWorkday: fact.IsWorkday,
		Detail:    detailFor(fact, date),
	}

	if fact.OnHoliday && fact.HolidayName != "" {
		v.HolidayName = fact.HolidayName
	}

	// Cross-check against the secondary feed. An absent year means no
	// cross-check data, which can never produce a warning.
	if days := r.store.Load()[date.Year()]; len(days) > 0 {
		_, inSecondary := days[v.Date]
		if fact.OnHoliday != inSecondary {
			v.Warning = warningSourcesDisagree
		}
	}

	v.NextRestDay = r.FindNextRestDay(date, DefaultHorizon)

	return v, nil
}

// detailFor picks the human-readable reason by priority: designated holiday,
// make-up workday, weekday rest day, normal workday, weekend.
func detailFor(fact chinacal.Fact, date time.Time) string {
	switch {
	case fact.OnHoliday:
		if fact.HolidayName != "" {
			return fact.HolidayName
		}
		return detailStatutoryHoliday
	case fact.IsWorkday && dateutil.IsWeekend(date):
		return detailMakeupWork
	case !fact.IsWorkday && dateutil.IsWeekday(date):
		return detailRestDay
	case fact.IsWorkday:
		return detailNormalWorkday
	default:
		return detailWeekend
	}
}

// FindNextRestDay scans from+1 .. from+horizon for the first non-working
// day. DaysFromNow is measured from the real current date, not from the
// scan origin. When the rule data runs out mid-scan the search stops and
// returns what was found so far. Nil when nothing is found in the horizon.
func (r *Resolver) FindNextRestDay(from time.Time, horizon int) *NextRestDay {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	for i := 1; i <= horizon; i++ {
		d := from.AddDate(0, 0, i)

		fact, err := r.source.Fact(d)
		if err != nil {
			// Horizon crossed into an uncovered year.
			r.logger.Debug("Rest-day scan stopped at rule data boundary",
				zap.String("date", dateutil.FormatISO(d)))
			return nil
		}

		if fact.IsWorkday {
			continue
		}

		// Coarser than the resolver's detail: holiday name or plain weekend.
		detail := detailWeekend
		if fact.OnHoliday && fact.HolidayName != "" {
			detail = fact.HolidayName
		}

		return &NextRestDay{
			Date:        dateutil.FormatISO(d),
			Weekday:     dateutil.WeekdayLabel(d),
			Detail:      detail,
			DaysFromNow: dateutil.DaysBetween(r.now(), d),
		}
	}

	return nil
}
