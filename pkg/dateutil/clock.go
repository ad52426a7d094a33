package dateutil

import (
	"sync"
	"time"
)

// OneDay is the cooldown of daily claims and free spins, in milliseconds.
const OneDay uint64 = 86_400_000

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// MockClock is a manually driven clock.
type MockClock struct {
	mutex sync.Mutex
	now   time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (c *MockClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

func (c *MockClock) Set(now time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = now
}

func (c *MockClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
}

// ToMilli converts a time into milliseconds since epoch.
func ToMilli(t time.Time) uint64 {
	ms := t.UnixMilli()
	if ms < 0 {
		return 0
	}

	return uint64(ms)
}

// Elapsed returns now-since in milliseconds, or zero when since is in the
// future.
func Elapsed(now, since uint64) uint64 {
	if now < since {
		return 0
	}

	return now - since
}

// RemainingSeconds returns the whole seconds left before a cooldown of the
// given length ends, given the elapsed time.
func RemainingSeconds(cooldown, elapsed uint64) uint64 {
	if elapsed >= cooldown {
		return 0
	}

	return (cooldown - elapsed) / 1000
}
