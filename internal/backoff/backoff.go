// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     backoff
// Description: Exponential reconnect delays and the visible countdown
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package backoff

import (
	"time"

	"github.com/msto63/livelog/internal/eventloop"
)

// Policy describes the delay curve: Base * 2^(attempt-1), capped at Max
type Policy struct {
	Base time.Duration
	Max  time.Duration
}

// DefaultPolicy returns 1s base and 30s cap
func DefaultPolicy() Policy {
	return Policy{Base: time.Second, Max: 30 * time.Second}
}

// NextDelay returns the wait before reconnect attempt n (1-based).
// Attempts below 1 are treated as 1.
func (p Policy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if p.Base <= 0 {
		return 0
	}

	delay := p.Base
	for i := 1; i < attempt; i++ {
		if delay >= p.Max || delay > p.Max/2 {
			return p.Max
		}
		delay *= 2
	}
	if delay > p.Max {
		return p.Max
	}
	return delay
}

// Seconds rounds d up to whole seconds
func Seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// Countdown reports the remaining whole seconds once per second.
// It emits start-1 down to 1 and then stops by itself.
type Countdown struct {
	loop      *eventloop.Loop
	remaining int
	onTick    func(remaining int)
	task      *eventloop.Task
	stopped   bool
}

// StartCountdown schedules the first tick one second from now.
// Must be called on the loop.
func StartCountdown(loop *eventloop.Loop, start int, onTick func(remaining int)) *Countdown {
	c := &Countdown{loop: loop, remaining: start, onTick: onTick}
	c.schedule()
	return c
}

func (c *Countdown) schedule() {
	if c.remaining <= 1 {
		c.stopped = true
		return
	}
	c.task = c.loop.AfterFunc(time.Second, c.tick)
}

func (c *Countdown) tick() {
	if c.stopped {
		return
	}
	c.remaining--
	c.onTick(c.remaining)
	c.schedule()
}

// Remaining returns the last emitted value
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Stop cancels pending ticks. Safe to call repeatedly and on nil.
func (c *Countdown) Stop() {
	if c == nil {
		return
	}
	c.stopped = true
	if c.task != nil {
		c.task.Stop()
	}
}
