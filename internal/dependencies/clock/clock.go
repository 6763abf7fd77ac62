package clock

import "time"

// Clock is the time source injected into anything that stamps records
// or checks expiry, so tests can control the current moment.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock
type RealClock struct{}

// New returns the production Clock
func New() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}
