package domain

import "time"

// Domain dates are day-precision and always UTC midnight. Normalizing at the
// boundary keeps date comparison a plain Equal/Before/After.

// Date constructs a day-precision domain date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ToDate truncates t to UTC midnight.
func ToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// laterOf returns the later of two dates.
func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
