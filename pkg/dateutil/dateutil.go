package dateutil

import "time"

// ISOLayout is the canonical date form used across the service.
const ISOLayout = "2006-01-02"

// weekdayLabels are indexed Monday=0 .. Sunday=6.
var weekdayLabels = [7]string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// ISOWeekday returns the weekday with Monday=0 .. Sunday=6
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	return wd - 1
}

// WeekdayLabel returns the Chinese label for the date's weekday (周一..周日)
func WeekdayLabel(date time.Time) string {
	return weekdayLabels[ISOWeekday(date)]
}

// IsWeekday returns true if the date is Monday-Friday
func IsWeekday(date time.Time) bool {
	weekday := date.Weekday()
	return weekday >= time.Monday && weekday <= time.Friday
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// FormatISO formats the date as YYYY-MM-DD
func FormatISO(date time.Time) string {
	return date.Format(ISOLayout)
}

// DaysBetween returns the number of whole days from a to b, ignoring
// time-of-day. The calendar dates are compared in UTC so a DST transition
// between them never shifts the count.
func DaysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
