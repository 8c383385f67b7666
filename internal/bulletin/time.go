package bulletin

import "time"

const (
	// A report stamped further ahead of now than this belongs to the previous month
	maxAhead = 2 * 24 * time.Hour
	// A report stamped further behind now than this belongs to the next month
	maxBehind = 28 * 24 * time.Hour
)

// ResolveTime turns a day/hour/minute time value into an absolute UTC instant
// relative to now. The month is taken from now and shifted by one when the
// day-of-month only makes sense across a month boundary.
func ResolveTime(value int, now time.Time) (time.Time, bool) {
	if value < 0 {
		return time.Time{}, false
	}

	day := value / minutesPerDay
	hour := (value % minutesPerDay) / 60
	minute := value % 60

	now = now.UTC()
	// ok is false when day does not exist in the shifted month (June 31)
	candidate := func(monthOffset int) (time.Time, bool) {
		t := time.Date(now.Year(), now.Month()+time.Month(monthOffset), day, hour, minute, 0, 0, time.UTC)
		return t, t.Day() == day
	}

	t, ok := candidate(0)
	switch {
	case !ok || t.Sub(now) > maxAhead:
		// Walk back to the nearest month that has this day
		for offset := -1; offset >= -2; offset-- {
			if t, ok = candidate(offset); ok {
				break
			}
		}
	case now.Sub(t) > maxBehind:
		t, ok = candidate(1)
	}
	if !ok {
		return time.Time{}, false
	}
	return t, true
}
