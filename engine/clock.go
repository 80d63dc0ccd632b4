package engine

import "time"

// Clock is the time source for the ticker
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock provides real monotonic time
type SystemClock struct{}

// Now returns the current time with monotonic clock reading
func (SystemClock) Now() time.Time {
	return time.Now()
}

// After waits for d on a runtime timer
func (SystemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
