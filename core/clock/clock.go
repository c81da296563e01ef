// Package clock provides the timestamp source used for creation dates.
package clock

import (
	"sync"
	"time"
)

// Source supplies the current time as UNIX seconds.
type Source interface {
	Now() int64
}

// Clock is a Source backed by the system clock that can be pinned to a
// fixed value for tests or when replaying a scenario.
type Clock struct {
	mu    sync.Mutex
	nowFn func() int64 // overridable for testing
}

// Compile-time assertion that Clock implements Source.
var _ Source = (*Clock)(nil)

// New creates a Clock that uses the system clock.
func New() *Clock {
	return &Clock{nowFn: systemNow}
}

// Fixed creates a Clock pinned to t. It only moves when Set or Advance
// is called.
func Fixed(t int64) *Clock {
	c := &Clock{}
	c.Set(t)
	return c
}

// Now returns the current UNIX epoch time in seconds.
func (c *Clock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nowFn == nil {
		return systemNow()
	}
	return c.nowFn()
}

// Set pins the clock to t. Subsequent calls to Now return t until the
// clock is advanced or released.
func (c *Clock) Set(t int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nowFn = func() int64 { return t }
}

// Advance moves the clock forward by d seconds from its current reading.
// On a system clock this pins the clock at the advanced value.
func (c *Clock) Advance(d int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	base := systemNow()
	if c.nowFn != nil {
		base = c.nowFn()
	}
	t := base + d
	c.nowFn = func() int64 { return t }
}

// Release returns the clock to the system time source.
func (c *Clock) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nowFn = systemNow
}

func systemNow() int64 {
	return time.Now().Unix()
}
