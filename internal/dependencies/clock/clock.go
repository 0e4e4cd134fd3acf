package clock

import "time"

// Clock is the only source of "now" for token expiry, event timestamps and
// leaderboard windows
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time in UTC
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}
