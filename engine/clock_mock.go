package engine

import (
	"sync"
	"time"
)

// MockClock provides a controllable time source for testing
// Timers fire only when Advance moves the clock past their deadline
type MockClock struct {
	mu   sync.Mutex
	cond *sync.Cond

	currentTime time.Time
	timers      []mockTimer

	// Every duration passed to After, in call order
	sleeps []time.Duration
}

type mockTimer struct {
	deadline time.Time
	ch       chan time.Time
}

// NewMockClock creates a new mock clock with the given start time
func NewMockClock(startTime time.Time) *MockClock {
	c := &MockClock{currentTime: startTime}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Now returns the current mocked time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTime
}

// After returns a channel that fires once the clock is advanced by d
// Non-positive durations fire immediately
func (c *MockClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sleeps = append(c.sleeps, d)
	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.currentTime
		return ch
	}

	c.timers = append(c.timers, mockTimer{deadline: c.currentTime.Add(d), ch: ch})
	c.cond.Broadcast()
	return ch
}

// Advance moves the clock forward and fires every timer whose deadline has passed
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentTime = c.currentTime.Add(d)
	pending := c.timers[:0]
	for _, t := range c.timers {
		if t.deadline.After(c.currentTime) {
			pending = append(pending, t)
			continue
		}
		t.ch <- c.currentTime
	}
	c.timers = pending
}

// BlockUntil waits until at least n timers are pending
func (c *MockClock) BlockUntil(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.timers) < n {
		c.cond.Wait()
	}
}

// Sleeps returns the durations requested so far
func (c *MockClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}
