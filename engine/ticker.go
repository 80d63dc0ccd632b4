package engine

import "time"

// DefaultTickRate is the target tick frequency in Hz
const DefaultTickRate = 60

// runTicker sends EventTick every period until done is closed
// Each sleep is shortened by however much the previous iteration overran its period
func runTicker(clock Clock, period time.Duration, out chan<- Event, done <-chan struct{}) {
	last := clock.Now()
	sleep := period

	for {
		select {
		case <-done:
			return
		case <-clock.After(sleep):
		}

		select {
		case out <- Event{Type: EventTick}:
		case <-done:
			return
		}

		now := clock.Now()
		sleep = nextSleep(period, now.Sub(last))
		last = now
	}
}

// nextSleep returns 2*period - elapsed, floored at zero
// elapsed is the wall time of the previous sleep and send, nominally one period
func nextSleep(period, elapsed time.Duration) time.Duration {
	sleep := 2*period - elapsed
	if sleep < 0 {
		return 0
	}
	return sleep
}
