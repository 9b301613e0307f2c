package feed

import (
	"context"
	"sync"
	"time"
)

// ============================================================================
// Run Loop
// ============================================================================
//
// The engine is single-threaded and cooperative: every state mutation happens
// on a loop pass. Collaborator callbacks that arrive on other goroutines are
// posted here and executed on the next pass, which is what makes the
// lastProcessedIndex guard and the per-entry fallback serialization hold
// without locking the engine state itself.

// Loop is a cooperative task executor with tick-deferred posts and timers.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	timers []*loopTimer

	// clock is swapped in tests for deterministic timer firing.
	clock func() time.Time
}

type loopTimer struct {
	due       time.Time
	fn        func()
	cancelled bool
}

// TimerHandle allows cancelling a pending PostAfter task.
type TimerHandle struct {
	t *loopTimer
}

// Cancel prevents the timer's task from running. Safe to call after firing.
func (h *TimerHandle) Cancel() {
	if h == nil || h.t == nil {
		return
	}
	h.t.cancelled = true
}

// NewLoop creates an empty run loop.
func NewLoop() *Loop {
	return &Loop{
		clock: time.Now,
	}
}

// Now returns the loop's current time.
func (l *Loop) Now() time.Time {
	return l.clock()
}

// Post enqueues a task for the next tick. Safe to call from any goroutine;
// this is the entry point for async collaborator completions.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
}

// PostNextTick enqueues a task that runs on the tick after the current one.
// Tasks posted while a tick is draining are not executed in the same pass,
// so from inside a tick this is the "defer by one tick" primitive.
func (l *Loop) PostNextTick(fn func()) {
	l.Post(fn)
}

// PostAfter schedules a task to run on the first tick at or after d from now.
func (l *Loop) PostAfter(d time.Duration, fn func()) *TimerHandle {
	t := &loopTimer{due: l.clock().Add(d), fn: fn}
	l.mu.Lock()
	l.timers = append(l.timers, t)
	l.mu.Unlock()
	return &TimerHandle{t: t}
}

// Tick drains the tasks queued before this pass and fires due timers.
// Returns true if work remains queued (tasks posted during the pass or
// timers still pending).
func (l *Loop) Tick(now time.Time) bool {
	l.mu.Lock()
	pending := l.queue
	l.queue = nil

	var due []*loopTimer
	remaining := l.timers[:0]
	for _, t := range l.timers {
		switch {
		case t.cancelled:
			// drop
		case !t.due.After(now):
			due = append(due, t)
		default:
			remaining = append(remaining, t)
		}
	}
	l.timers = remaining
	l.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	for _, t := range due {
		if !t.cancelled {
			t.fn()
		}
	}

	l.mu.Lock()
	more := len(l.queue) > 0 || len(l.timers) > 0
	l.mu.Unlock()
	return more
}

// Run ticks the loop at the given interval until the context is cancelled.
func (l *Loop) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.Tick(now)
		}
	}
}
