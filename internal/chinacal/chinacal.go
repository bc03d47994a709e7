package chinacal

import (
	"fmt"
	"time"
)

// Fact describes what the rule table knows about a single date.
type Fact struct {
	// IsWorkday is true when the date is a working day, including weekends
	// officially redesignated as make-up workdays.
	IsWorkday bool

	// OnHoliday is true only for dates the State Council designates as
	// statutory holidays (including bridge days inside a holiday span).
	// Plain weekends are not holidays.
	OnHoliday bool

	// HolidayName is the published display name, empty when OnHoliday is false.
	HolidayName string
}

// Source answers workday questions for single dates.
type Source interface {
	// Fact returns the rule-table fact for the given date. Returns
	// *UnsupportedYearError when no rule data covers the date's year.
	Fact(date time.Time) (Fact, error)
}

// UnsupportedYearError reports a query for a year outside the loaded rule data.
type UnsupportedYearError struct {
	Year int
}

func (e *UnsupportedYearError) Error() string {
	return fmt.Sprintf("no calendar rules for year %d", e.Year)
}
