package schedule

import "time"

// WeekStart returns the Monday (midnight, local zone of t) of the week
// containing t.
func WeekStart(t time.Time) time.Time {
	day := truncateToDay(t)
	offset := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	return day.AddDate(0, 0, -offset)
}

// WeekStartOf returns the Monday of the given ISO year and week.
func WeekStartOf(year, week int, loc *time.Location) time.Time {
	// Jan 4 is always inside ISO week 1.
	t := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	t = WeekStart(t)
	return t.AddDate(0, 0, (week-1)*7)
}
