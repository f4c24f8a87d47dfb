package ratelimit

import (
	"sync"
	"time"
)

// Pacer spaces out consecutive requests
type Pacer interface {
	// Wait blocks for the pacing interval
	Wait()
	// Interval returns the configured pause
	Interval() time.Duration
}

// FixedDelay sleeps for the same interval on every Wait
type FixedDelay struct {
	interval time.Duration
	sleep    func(time.Duration)
	mu       sync.Mutex
}

// NewFixedDelay creates a pacer that pauses for interval. A non-positive
// interval makes Wait return immediately.
func NewFixedDelay(interval time.Duration) *FixedDelay {
	return &FixedDelay{
		interval: interval,
		sleep:    time.Sleep,
	}
}

// SetSleepFunc replaces time.Sleep, for tests
func (f *FixedDelay) SetSleepFunc(sleep func(time.Duration)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sleep = sleep
}

// Wait blocks for the interval
func (f *FixedDelay) Wait() {
	f.mu.Lock()
	sleep := f.sleep
	f.mu.Unlock()

	if f.interval <= 0 {
		return
	}
	sleep(f.interval)
}

// Interval returns the configured pause
func (f *FixedDelay) Interval() time.Duration {
	return f.interval
}
