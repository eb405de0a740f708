// Package dates holds calendar arithmetic for membership periods.
package dates

import "time"

// AddMonths moves t forward by months calendar months. When the target month
// is shorter than t's day of month the result is clamped to its last day, so
// Jan 31 + 1 month is Feb 28 (or 29), never early March.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	ty, tm, _ := firstOfTarget.Date()
	if last := DaysIn(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayWindow returns the half-open range [start, end) covering the calendar day
// that lies days after now in loc.
func DayWindow(now time.Time, days int, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(now, loc).AddDate(0, 0, days)
	return start, start.AddDate(0, 0, 1)
}
