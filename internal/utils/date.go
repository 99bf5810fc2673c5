package utils

import "time"

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// DateOnly truncates t to midnight UTC. The whole booking domain works on
// civil dates; every date held in memory is normalized through this.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a midnight-UTC date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ParseMonth parses a YYYY-MM string into the first day of that month, UTC.
func ParseMonth(s string) (time.Time, error) {
	return time.Parse(MonthLayout, s)
}

// MonthStart returns the first day of t's month at midnight UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonth returns the first day of the month after t's month.
func NextMonth(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0)
}
