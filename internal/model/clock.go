package model

import (
	"sync"
	"time"
)

// Clock is one side's countdown. When a running clock reaches zero the
// onFlag callback fires on its own goroutine.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time
	isRunning   bool
	timer       *time.Timer
	onFlag      func()
}

func NewClock(initialTime time.Duration, onFlag func()) *Clock {
	return &Clock{
		timeLeft: initialTime,
		onFlag:   onFlag,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return
	}
	c.lastStarted = time.Now()
	c.isRunning = true
	if c.onFlag != nil {
		c.timer = time.AfterFunc(max(c.timeLeft, 0), c.onFlag)
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isRunning {
		return
	}
	c.timeLeft = max(c.timeLeft-time.Since(c.lastStarted), 0)
	c.isRunning = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Clock) TimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isRunning {
		return max(c.timeLeft-time.Since(c.lastStarted), 0)
	}
	return c.timeLeft
}

// SetTimeLeft puts d on the clock. A running clock keeps running from d.
func (c *Clock) SetTimeLeft(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timeLeft = max(d, 0)
	if c.isRunning {
		c.lastStarted = time.Now()
		if c.timer != nil {
			c.timer.Reset(c.timeLeft)
		}
	}
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}
