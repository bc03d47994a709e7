package chinacal

import (
	"sort"
	"time"

	"github.com/dyxcloud/workday-api/pkg/dateutil"
)

// dayRule is one officially published adjustment: either a holiday off-day
// or a weekend redesignated as a make-up workday.
type dayRule struct {
	Name     string
	IsOffDay bool
}

// Ruleset is an immutable snapshot of the holiday rule tables for a set of
// years. Dates without an explicit adjustment fall back to the plain
// weekday/weekend rule.
type Ruleset struct {
	years map[int]map[string]dayRule // year -> ISO date -> adjustment
}

func newRuleset() *Ruleset {
	return &Ruleset{years: make(map[int]map[string]dayRule)}
}

func (rs *Ruleset) addYear(year int) map[string]dayRule {
	rules, ok := rs.years[year]
	if !ok {
		rules = make(map[string]dayRule)
		rs.years[year] = rules
	}
	return rules
}

// Covers reports whether rule data is loaded for the given year.
func (rs *Ruleset) Covers(year int) bool {
	_, ok := rs.years[year]
	return ok
}

// Years returns the covered years in ascending order.
func (rs *Ruleset) Years() []int {
	years := make([]int, 0, len(rs.years))
	for y := range rs.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Fact returns the rule-table fact for the given date.
func (rs *Ruleset) Fact(date time.Time) (Fact, error) {
	rules, ok := rs.years[date.Year()]
	if !ok {
		return Fact{}, &UnsupportedYearError{Year: date.Year()}
	}

	if rule, ok := rules[dateutil.FormatISO(date)]; ok {
		if rule.IsOffDay {
			return Fact{OnHoliday: true, HolidayName: rule.Name}, nil
		}
		// Make-up workday: a weekend that works to compensate a holiday span.
		return Fact{IsWorkday: true}, nil
	}

	return Fact{IsWorkday: dateutil.IsWeekday(date)}, nil
}
