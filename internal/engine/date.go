package engine

import (
	"time"

	"github.com/tartampluch/go-genie/internal/config"
)

// DateOf truncates t to midnight of its calendar date, keeping its location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate compares the calendar dates (year, month, day) of a and b.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ValidMonthDay reports whether month/day exists in at least a leap year.
func ValidMonthDay(month time.Month, day int) bool {
	if month < time.January || month > time.December || day < 1 {
		return false
	}
	t := time.Date(config.DefaultLeapYear, month, day, 0, 0, 0, 0, time.UTC)
	return t.Month() == month && t.Day() == day
}

// NextOccurrence returns the next date on or after today carrying month/day.
//
// The full month-day is compared against today: a birthday earlier in the
// current month has already passed and rolls to next year. Go's time.Date
// normalizes Feb 29 to Mar 1 in non-leap years.
func NextOccurrence(now time.Time, month time.Month, day int) time.Time {
	loc := now.Location()
	todayStart := DateOf(now)

	candidate := time.Date(now.Year(), month, day, 0, 0, 0, 0, loc)
	if candidate.Before(todayStart) {
		candidate = time.Date(now.Year()+1, month, day, 0, 0, 0, 0, loc)
	}
	return candidate
}
