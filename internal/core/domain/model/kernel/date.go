package kernel

import "time"

// DateOf truncates t to midnight in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfDay returns the local midnight preceding now together with the next one.
func StartOfDay(now time.Time) (time.Time, time.Time) {
	start := DateOf(now)
	return start, start.AddDate(0, 0, 1)
}

// SameDate compares calendar dates ignoring the clock.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
