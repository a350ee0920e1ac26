package utils

import (
	"time"
)

// SameCalendarDate reports whether two instants fall on the same calendar
// date. The daily participation gate compares dates, not elapsed duration,
// so applying at 23:59 and again at 00:01 is two distinct days.
func SameCalendarDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
