package feed

import (
	"math"
	"time"
)

// ============================================================================
// Scroll-to-Index Synchronizer
// ============================================================================
//
// Converts the continuous scroll offset reported by the rendering
// collaborator into a debounced discrete index. The lastProcessed guard is
// the load-bearing piece: it is updated before downstream notification so a
// second sample arriving near an item boundary can never re-emit the index
// that is currently being processed. Without it, boundary jitter produces an
// unbounded notification loop.

type scrollSync struct {
	f *Feed

	// lastProcessed is the guard value; noIndex until the first
	// accepted index.
	lastProcessed int

	lastSampleAt time.Time

	// Coalescing state: the newest offset parked while samples arrive
	// faster than the configured interval.
	pending        float64
	hasPending     bool
	flushScheduled bool
	scrolling      bool
}

func newScrollSync(f *Feed) *scrollSync {
	return &scrollSync{
		f:             f,
		lastProcessed: noIndex,
	}
}

// offer consumes one raw scroll sample.
func (s *scrollSync) offer(offset float64, now time.Time) {
	if len(s.f.items) == 0 || s.f.cfg.ItemExtent <= 0 {
		return
	}

	if !s.lastSampleAt.IsZero() && now.Sub(s.lastSampleAt) < s.f.cfg.SampleInterval {
		// Too soon; park the newest offset and flush it on a timer so
		// the final resting position is never dropped.
		s.pending = offset
		s.hasPending = true
		s.scrolling = true
		if !s.flushScheduled {
			s.flushScheduled = true
			s.f.loop.PostAfter(s.f.cfg.SampleInterval, s.flush)
		}
		return
	}

	s.process(offset, now)
}

// flush processes the parked sample, if any.
func (s *scrollSync) flush() {
	s.flushScheduled = false
	if !s.hasPending {
		s.scrolling = false
		return
	}
	offset := s.pending
	s.hasPending = false
	s.scrolling = false
	s.process(offset, s.f.loop.Now())
}

func (s *scrollSync) process(offset float64, now time.Time) {
	s.lastSampleAt = now

	// This sample supersedes anything parked earlier; without this a
	// pending flush would replay the older offset after the newer one.
	s.hasPending = false
	s.scrolling = false

	candidate := int(math.Round(offset / s.f.cfg.ItemExtent))
	candidate = clampIndex(candidate, len(s.f.items))

	if candidate == s.lastProcessed {
		return
	}
	// Guard first, notify second: a re-entrant sample during the
	// transition sees the new value and stays silent.
	s.lastProcessed = candidate
	s.f.applyIndexChange(candidate)
}

// request accepts an imperative index change (JumpTo, initial mount). The
// target is already clamped by the caller; the guard applies as for scroll
// samples so a jump to the current index stays silent.
func (s *scrollSync) request(index int) {
	if index == s.lastProcessed {
		return
	}
	s.lastProcessed = index
	s.f.applyIndexChange(index)
}
