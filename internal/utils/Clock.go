package utils

import "time"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
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

func (m *MockClock) Advance(d time.Duration) {
	m.FixedNow = m.FixedNow.Add(d)
}

// Today truncates the clock's current time to midnight UTC of the local
// calendar day, the granularity used by due dates.
func Today(clock Clock) time.Time {
	now := clock.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
