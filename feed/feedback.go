package feed

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// ============================================================================
// Gesture Scale Feedback
// ============================================================================
//
// Each classified gesture starts a brief, reversible scale animation on its
// item: dip (or swell) to a per-gesture target, then spring back to 1. The
// registry is ticked alongside the run loop; renderers read Scale(item) each
// frame.

// FeedbackID uniquely identifies a running feedback animation.
type FeedbackID uint64

var nextFeedbackID atomic.Uint64

func newFeedbackID() FeedbackID {
	return FeedbackID(nextFeedbackID.Add(1))
}

// EasingFunc maps time progress (0-1) to value progress (0-1).
type EasingFunc func(t float64) float64

// Easing functions shared by the feedback springs.
var (
	// EaseOutCubic - smooth deceleration.
	EaseOutCubic EasingFunc = func(t float64) float64 {
		t--
		return t*t*t + 1
	}

	// EaseOutBack - slight overshoot then settle.
	EaseOutBack EasingFunc = func(t float64) float64 {
		c1 := 1.70158
		c3 := c1 + 1
		return 1 + c3*(t-1)*(t-1)*(t-1) + c1*(t-1)*(t-1)
	}

	// EaseOutElastic - elastic wobble.
	EaseOutElastic EasingFunc = func(t float64) float64 {
		if t == 0 || t == 1 {
			return t
		}
		c4 := (2 * math.Pi) / 3
		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
	}
)

// feedbackSpec is the per-gesture animation shape.
type feedbackSpec struct {
	target   float64
	duration time.Duration
	easing   EasingFunc
	// dipPortion is the fraction of the animation spent moving toward
	// the target before springing back.
	dipPortion float64
}

func specFor(g Gesture) feedbackSpec {
	switch g {
	case GestureDoubleTap:
		return feedbackSpec{target: 0.92, duration: 260 * time.Millisecond, easing: EaseOutBack, dipPortion: 0.35}
	case GestureLongPress:
		return feedbackSpec{target: 1.04, duration: 320 * time.Millisecond, easing: EaseOutElastic, dipPortion: 0.4}
	default:
		return feedbackSpec{target: 0.96, duration: 180 * time.Millisecond, easing: EaseOutCubic, dipPortion: 0.35}
	}
}

type scaleAnimation struct {
	id        FeedbackID
	item      int
	spec      feedbackSpec
	startTime time.Time
	cancelled atomic.Bool
}

// value computes the current scale for elapsed time t in [0, duration].
func (a *scaleAnimation) value(now time.Time) float64 {
	t := float64(now.Sub(a.startTime)) / float64(a.spec.duration)
	if t >= 1 {
		return 1
	}
	if t < 0 {
		t = 0
	}
	p := a.spec.easing(t)
	if p < a.spec.dipPortion {
		return lerp(1, a.spec.target, p/a.spec.dipPortion)
	}
	return lerp(a.spec.target, 1, (p-a.spec.dipPortion)/(1-a.spec.dipPortion))
}

// FeedbackRegistry manages active scale animations, one per item; a new
// gesture on an item replaces its running animation.
type FeedbackRegistry struct {
	mu     sync.RWMutex
	anims  map[int]*scaleAnimation
	scales map[int]float64
}

// NewFeedbackRegistry creates an empty registry.
func NewFeedbackRegistry() *FeedbackRegistry {
	return &FeedbackRegistry{
		anims:  make(map[int]*scaleAnimation),
		scales: make(map[int]float64),
	}
}

// StartGesture begins feedback for a gesture on an item.
func (r *FeedbackRegistry) StartGesture(itemIndex int, g Gesture, now time.Time) FeedbackID {
	anim := &scaleAnimation{
		id:        newFeedbackID(),
		item:      itemIndex,
		spec:      specFor(g),
		startTime: now,
	}
	r.mu.Lock()
	r.anims[itemIndex] = anim
	r.scales[itemIndex] = 1
	r.mu.Unlock()
	return anim.id
}

// Tick advances all animations and drops finished ones. Returns true while
// any animation is still running.
func (r *FeedbackRegistry) Tick(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for item, anim := range r.anims {
		if anim.cancelled.Load() || now.Sub(anim.startTime) >= anim.spec.duration {
			delete(r.anims, item)
			delete(r.scales, item)
			continue
		}
		r.scales[item] = anim.value(now)
	}
	return len(r.anims) > 0
}

// Scale returns the item's current feedback scale, 1 when idle.
func (r *FeedbackRegistry) Scale(itemIndex int) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.scales[itemIndex]; ok {
		return s
	}
	return 1
}

// CancelAll stops every running animation and resets scales.
func (r *FeedbackRegistry) CancelAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for item, anim := range r.anims {
		anim.cancelled.Store(true)
		delete(r.anims, item)
		delete(r.scales, item)
	}
}

// lerp linearly interpolates between two values.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
