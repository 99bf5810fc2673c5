package utils

import "time"

// Clock abstracts time.Now so services can be tested against a fixed date.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

// Today returns the clock's current day at date granularity.
func Today(c Clock) time.Time {
	return DateOnly(c.Now())
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
