package feed

import (
	"time"

	"github.com/roamlight/swipefeed/haptics"
)

// ============================================================================
// Gesture Router
// ============================================================================
//
// Classifies pointer input into exactly one of single-tap, double-tap, or
// long-press. Double-tap wins over single-tap: a completed tap is held back
// for the double-tap window before it is emitted. Long-press recognition
// runs concurrently from pointer-down and suppresses the tap when it fires.
// Gestures produce local scale feedback and a haptic pulse gated on the item
// being active; they never mutate the active index.

// Gesture is a classified pointer gesture.
type Gesture uint8

const (
	// GestureTap - a quick touch with no meaningful travel.
	GestureTap Gesture = iota + 1

	// GestureDoubleTap - two taps on the same item within the window.
	GestureDoubleTap

	// GestureLongPress - a hold of at least the configured delay.
	GestureLongPress
)

// String returns the gesture name.
func (g Gesture) String() string {
	switch g {
	case GestureTap:
		return "tap"
	case GestureDoubleTap:
		return "double-tap"
	case GestureLongPress:
		return "long-press"
	default:
		return "unknown"
	}
}

type gestureRouter struct {
	f *Feed

	// Current pointer.
	down           bool
	downItem       int
	downX, downY   float64
	moved          bool
	longPressTimer *TimerHandle
	longPressFired bool

	// Held-back single tap waiting out the double-tap window.
	tapTimer    *TimerHandle
	tapHeldItem int
	tapHeld     bool

	// Previous tap, for double-tap matching.
	lastTapAt   time.Time
	lastTapItem int
	lastTapX    float64
	lastTapY    float64
}

func newGestureRouter(f *Feed) *gestureRouter {
	return &gestureRouter{f: f, downItem: noIndex, lastTapItem: noIndex}
}

func (g *gestureRouter) pointerDown(itemIndex int, x, y float64, now time.Time) {
	if itemIndex < 0 || itemIndex >= len(g.f.items) {
		return
	}
	g.down = true
	g.downItem = itemIndex
	g.downX, g.downY = x, y
	g.moved = false
	g.longPressFired = false

	g.longPressTimer = g.f.loop.PostAfter(g.f.cfg.LongPressDelay, func() {
		if !g.down || g.moved || g.downItem != itemIndex {
			return
		}
		g.longPressFired = true
		g.emit(itemIndex, GestureLongPress)
	})
}

func (g *gestureRouter) pointerMove(x, y float64) {
	if !g.down || g.moved {
		return
	}
	if !withinSlop(x-g.downX, y-g.downY, g.f.cfg.TapSlop) {
		g.moved = true
		g.cancelLongPress()
	}
}

func (g *gestureRouter) pointerUp(x, y float64, now time.Time) {
	if !g.down {
		return
	}
	item := g.downItem
	g.down = false
	g.cancelLongPress()

	if g.longPressFired || g.moved {
		// Already classified (or disqualified); the up ends it.
		return
	}
	if !withinSlop(x-g.downX, y-g.downY, g.f.cfg.TapSlop) {
		return
	}

	// A tap held back for a different item cannot become a double-tap
	// anymore; release it rather than letting its timer no-op.
	if g.tapHeld && g.tapHeldItem != item {
		g.flushHeldTap()
	}

	isDouble := g.lastTapItem == item &&
		now.Sub(g.lastTapAt) <= g.f.cfg.DoubleTapDelay &&
		withinSlop(x-g.lastTapX, y-g.lastTapY, g.f.cfg.TapSlop)

	if isDouble {
		g.cancelHeldTap()
		// Consume the previous tap so a third tap starts fresh.
		g.lastTapItem = noIndex
		g.emit(item, GestureDoubleTap)
		return
	}

	g.lastTapAt = now
	g.lastTapItem = item
	g.lastTapX, g.lastTapY = x, y

	// Hold the single tap back until the double-tap window expires.
	g.tapHeld = true
	g.tapHeldItem = item
	g.tapTimer = g.f.loop.PostAfter(g.f.cfg.DoubleTapDelay, func() {
		if !g.tapHeld || g.tapHeldItem != item {
			return
		}
		g.tapHeld = false
		g.emit(item, GestureTap)
	})
}

func (g *gestureRouter) cancelLongPress() {
	if g.longPressTimer != nil {
		g.longPressTimer.Cancel()
		g.longPressTimer = nil
	}
}

// flushHeldTap emits the held-back single tap immediately.
func (g *gestureRouter) flushHeldTap() {
	item := g.tapHeldItem
	g.cancelHeldTap()
	g.emit(item, GestureTap)
}

func (g *gestureRouter) cancelHeldTap() {
	g.tapHeld = false
	if g.tapTimer != nil {
		g.tapTimer.Cancel()
		g.tapTimer = nil
	}
}

// reset drops all recognition state. Called on unmount.
func (g *gestureRouter) reset() {
	g.down = false
	g.moved = false
	g.longPressFired = false
	g.cancelLongPress()
	g.cancelHeldTap()
	g.lastTapItem = noIndex
	g.downItem = noIndex
}

// emit delivers one classified gesture: scale feedback, a haptic pulse only
// when the item is active, and the caller's hook.
func (g *gestureRouter) emit(itemIndex int, gesture Gesture) {
	g.f.feedback.StartGesture(itemIndex, gesture, g.f.loop.Now())

	if itemIndex == g.f.active {
		level := haptics.Light
		switch gesture {
		case GestureDoubleTap:
			level = haptics.Medium
		case GestureLongPress:
			level = haptics.Heavy
		}
		if err := g.f.cfg.Haptics.Pulse(level); err != nil {
			g.f.log.Warn().Err(err).Str("gesture", gesture.String()).Msg("gesture haptic failed")
		}
	}

	if g.f.cfg.OnGesture != nil {
		g.f.cfg.OnGesture(itemIndex, gesture)
	}
}

// withinSlop checks pointer travel against the slop radius.
func withinSlop(dx, dy, slop float64) bool {
	return dx*dx+dy*dy <= slop*slop
}
