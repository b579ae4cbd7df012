package model

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Clock is one side's countdown. It only runs while that side is to move.
type Clock struct {
	mu          sync.Mutex
	timeLeft    time.Duration
	lastStarted time.Time // When the clock was last started
	isRunning   bool
	now         func() time.Time
}

func NewClock(initialTime time.Duration) *Clock {
	return &Clock{
		timeLeft:  initialTime,
		isRunning: false,
		now:       time.Now,
	}
}

func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isRunning {
		c.lastStarted = c.now()
		log.Debugf("clock started at %v", c.lastStarted)
		c.isRunning = true
	}
}

func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		c.timeLeft -= c.now().Sub(c.lastStarted)
		log.Debugf("clock stopped with %v left", c.timeLeft)
		c.isRunning = false
	}
}

func (c *Clock) GetTimeLeft() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return c.timeLeft - c.now().Sub(c.lastStarted)
	}
	return c.timeLeft
}

func (c *Clock) Expired() bool {
	return c.GetTimeLeft() <= 0
}

// tenths is the unit clients display.
func (c *Clock) tenths() int {
	left := c.GetTimeLeft()
	if left < 0 {
		left = 0
	}
	return int(left.Milliseconds() / 100)
}
