// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     eventloop
// Description: Single-goroutine task queue with cancellable timers
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

// Package eventloop serializes all viewer state changes onto one goroutine.
// Transport callbacks, timers and user intents are posted as functions and
// run strictly one after another in posting order.
package eventloop

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/msto63/livelog/pkg/core/logging"
)

// Loop runs posted functions one at a time
type Loop struct {
	clock  Clock
	logger *logging.Logger

	mu      sync.Mutex
	queue   []func()
	notify  chan struct{}
	done    chan struct{}
	stopped bool
	started bool
	wg      sync.WaitGroup
}

// New creates a loop. A nil clock means the real clock.
func New(clock Clock, logger *logging.Logger) *Loop {
	if clock == nil {
		clock = Real{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Loop{
		clock:  clock,
		logger: logger.Named("eventloop"),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Clock returns the loop's clock
func (l *Loop) Clock() Clock {
	return l.clock
}

// Start launches the loop goroutine
func (l *Loop) Start() {
	l.mu.Lock()
	if l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	l.wg.Add(1)
	go l.run()
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case <-l.done:
			return
		case <-l.notify:
			l.Drain()
		}
	}
}

// Post enqueues fn. It returns false once the loop is stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
	return true
}

// Drain runs queued functions on the calling goroutine until the queue is
// empty. Started loops call it themselves; tests call it directly on loops
// that were never started.
func (l *Loop) Drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 || l.stopped {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.call(fn)
	}
}

func (l *Loop) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Recovered panic in loop task", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// Stop discards pending work and waits for the loop goroutine to exit.
// Must not be called from a loop task.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	l.queue = nil
	close(l.done)
	l.mu.Unlock()

	l.wg.Wait()
}

// Stopped reports whether Stop was called
func (l *Loop) Stopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// Task is a cancellable timer whose callback runs on the loop
type Task struct {
	timer     Timer
	cancelled atomic.Bool
}

// AfterFunc runs fn on the loop after d unless the task is stopped first
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Task {
	task := &Task{}
	task.timer = l.clock.AfterFunc(d, func() {
		l.Post(func() {
			if task.cancelled.Load() {
				return
			}
			fn()
		})
	})
	return task
}

// Stop cancels the task. A callback that is already queued will not run.
// Safe to call on nil.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.cancelled.Store(true)
	if t.timer != nil {
		t.timer.Stop()
	}
}

// Advance moves a Manual clock forward, firing due timers in deadline order
// and draining the loop after each one so rescheduled timers are seen.
// It panics when the loop does not use a Manual clock.
func (l *Loop) Advance(d time.Duration) {
	manual, ok := l.clock.(*Manual)
	if !ok {
		panic("eventloop: Advance requires a Manual clock")
	}

	target := manual.Now().Add(d)
	l.Drain()
	for manual.fireNext(target) {
		l.Drain()
	}
	manual.set(target)
	l.Drain()
}
