package warranty

import "time"

// DateOf drops the clock from t, keeping its calendar day in UTC. DATE columns
// scan back in the same form, so dates compare directly.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds months to a calendar date. A day past the end of the target
// month is clamped to its last day, so Jan 31 + 1 month is Feb 28 (or 29).
func AddMonths(date time.Time, months int) time.Time {
	y, m, d := DateOf(date).Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysIn(month time.Time) int {
	return time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween counts whole calendar days from one date to another. It is
// negative when to is earlier.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

// WithinWindow reports whether today is on or before the last covered day of
// a warranty that started on purchase and runs for months.
func WithinWindow(purchase time.Time, months int, today time.Time) bool {
	return !DateOf(today).After(AddMonths(purchase, months))
}
