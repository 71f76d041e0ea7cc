package service

import (
	"sync"
	"time"
)

// countdown is a one-shot timer with a queryable deadline. Starting a new
// countdown cancels the previous one, so only the latest expiry callback
// ever fires.
type countdown struct {
	mu       sync.Mutex
	deadline time.Time
	timer    *time.Timer
	now      func() time.Time
}

func newCountdown(now func() time.Time) *countdown {
	if now == nil {
		now = time.Now
	}
	return &countdown{now: now}
}

// Start arms the countdown for d, replacing any countdown in flight.
// onExpire runs on the timer goroutine once d has elapsed, unless the
// countdown is stopped or restarted first.
func (c *countdown) Start(d time.Duration, onExpire func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.deadline = c.now().Add(d)

	deadline := c.deadline
	c.timer = time.AfterFunc(d, func() {
		c.mu.Lock()
		stale := !c.deadline.Equal(deadline)
		c.mu.Unlock()
		if stale {
			return
		}
		if onExpire != nil {
			onExpire()
		}
	})
}

// Stop cancels the countdown. Safe to call when nothing is armed.
func (c *countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.deadline = time.Time{}
}

// Active reports whether a countdown is armed and its deadline has not
// passed yet.
func (c *countdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil && c.now().Before(c.deadline)
}

// Remaining returns the whole seconds left before expiry, rounded up, or
// zero when nothing is armed or the deadline has passed.
func (c *countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer == nil {
		return 0
	}
	left := c.deadline.Sub(c.now())
	if left <= 0 {
		return 0
	}
	secs := int((left + time.Second - 1) / time.Second)
	return secs
}
