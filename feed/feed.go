// Package feed implements the full-screen swipeable media feed engine: it
// derives a discrete active item from continuous scroll motion, drives
// per-item side effects exactly once per transition, preloads media for a
// sliding window of neighboring items, downgrades failed videos to photos,
// and routes tap/double-tap/long-press gestures with haptic gating.
//
// The engine is loop-confined: all public methods must be called from the
// goroutine that ticks the feed's Loop. Collaborator completions arriving on
// other goroutines are posted onto the loop.
package feed

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/roamlight/swipefeed/haptics"
	"github.com/roamlight/swipefeed/media"
)

// noIndex is the out-of-range sentinel for "no item processed yet".
const noIndex = -1

// Item is one flight offer displayed as one full-screen feed entry. The
// engine only reads the media list; items are owned by the caller.
type Item struct {
	ID    string
	Media media.Library
}

// Phase is the load state of an item's displayed media entry.
type Phase uint8

const (
	// PhaseLoading - the entry's media is being fetched or decoded.
	PhaseLoading Phase = iota + 1

	// PhaseLoaded - the entry is ready to display.
	PhaseLoaded

	// PhaseError - the entry failed; a fallback may still be attempted.
	PhaseError

	// PhaseErrorTerminal - no fallback remains; render a placeholder.
	PhaseErrorTerminal
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseError:
		return "error"
	case PhaseErrorTerminal:
		return "error-terminal"
	default:
		return "unknown"
	}
}

// MediaLoader checks readiness of a media entry. Load must not block; done
// may be invoked from any goroutine and is called exactly once. The engine
// does not decode media itself, it only tracks the readiness the loader
// reports.
type MediaLoader interface {
	Load(ctx context.Context, entry media.Entry, done func(err error))
}

// VideoPlayer is the resource-heavy playback handle for a video-typed entry.
// Mount instantiates the decoder, Unmount releases it.
type VideoPlayer interface {
	Mount() error
	Unmount() error
}

// PlayerProvider supplies playback handles for video-typed entries.
type PlayerProvider interface {
	Player(item Item, entry media.Entry) (VideoPlayer, error)
}

// Config configures a Feed instance. Zero-value collaborators are replaced
// with no-ops so a Feed is always safe to drive.
type Config struct {
	// ItemExtent is the scroll distance covered by one item (the screen
	// extent in the paging axis). Must be positive for scroll syncing.
	ItemExtent float64

	// SampleInterval is the minimum spacing between processed scroll
	// samples; faster samples are coalesced (default 30ms).
	SampleInterval time.Duration

	// LongPressDelay is the hold duration that classifies a long-press
	// (default 500ms).
	LongPressDelay time.Duration

	// DoubleTapDelay is how long a single tap is held back waiting for a
	// second tap (default 250ms).
	DoubleTapDelay time.Duration

	// TapSlop is the maximum pointer travel, in points, for a touch to
	// still count as a tap, and the maximum distance between two taps of
	// a double-tap (default 24).
	TapSlop float64

	// HapticTransitions pulses the haptic driver on every accepted item
	// transition (default true). The pulse is skipped during initial
	// positioning.
	HapticTransitions bool

	// Loader checks media readiness. Defaults to a loader that reports
	// immediate success, which keeps renderless tests and previews cheap.
	Loader MediaLoader

	// Haptics is the platform haptic driver. Defaults to haptics.Nop.
	Haptics haptics.Driver

	// Players supplies video playback handles. Nil disables player
	// mounting (photo-only rendering).
	Players PlayerProvider

	// Logger receives side-effect failures and transition traces.
	Logger zerolog.Logger

	// OnIndexChange fires at most once per genuine transition with the
	// new active index.
	OnIndexChange func(index int)

	// OnMediaChange fires when an item's displayed media entry changes,
	// including fallback transitions.
	OnMediaChange func(itemIndex, mediaSlot int)

	// OnGesture fires for every classified gesture. Tap-to-advance
	// callers request the move from here via JumpTo; gestures never
	// mutate the active index directly.
	OnGesture func(itemIndex int, gesture Gesture)
}

// DefaultConfig returns the engine tuning defaults. Collaborators are left
// nil and filled with no-ops by New.
func DefaultConfig() Config {
	return Config{
		SampleInterval:    30 * time.Millisecond,
		LongPressDelay:    500 * time.Millisecond,
		DoubleTapDelay:    250 * time.Millisecond,
		TapSlop:           24,
		HapticTransitions: true,
		Logger:            zerolog.Nop(),
	}
}

// immediateLoader reports success without doing any work.
type immediateLoader struct{}

func (immediateLoader) Load(_ context.Context, _ media.Entry, done func(error)) {
	done(nil)
}

// mediaState tracks the displayed entry of one item.
type mediaState struct {
	displayed    int
	phase        Phase
	shouldRender bool
	fellBack     bool
}

// Feed is one carousel instance. Create with New, position with Mount, and
// destroy with Unmount; after Unmount all in-flight completions are ignored.
type Feed struct {
	cfg   Config
	items []Item
	loop  *Loop
	log   zerolog.Logger

	// gen invalidates in-flight async completions on Unmount.
	gen atomic.Uint64

	loadCtx    context.Context
	loadCancel context.CancelFunc

	mounted bool
	// ready gates transition haptics; false until initial positioning
	// has completed.
	ready bool

	active  int
	states  []mediaState
	players map[int]VideoPlayer

	scroll   *scrollSync
	preload  *preloadCache
	gestures *gestureRouter
	feedback *FeedbackRegistry
}

// New creates a feed over the given items. The item slice is read, never
// mutated.
func New(items []Item, cfg Config) *Feed {
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 30 * time.Millisecond
	}
	if cfg.LongPressDelay <= 0 {
		cfg.LongPressDelay = 500 * time.Millisecond
	}
	if cfg.DoubleTapDelay <= 0 {
		cfg.DoubleTapDelay = 250 * time.Millisecond
	}
	if cfg.TapSlop <= 0 {
		cfg.TapSlop = 24
	}
	if cfg.Loader == nil {
		cfg.Loader = immediateLoader{}
	}
	if cfg.Haptics == nil {
		cfg.Haptics = haptics.Nop{}
	}

	f := &Feed{
		cfg:     cfg,
		items:   items,
		loop:    NewLoop(),
		log:     cfg.Logger,
		active:  noIndex,
		states:  make([]mediaState, len(items)),
		players: make(map[int]VideoPlayer),
	}
	ctx, cancel := context.WithCancel(context.Background())
	f.loadCtx = ctx
	f.loadCancel = cancel

	for i := range f.states {
		if len(items[i].Media) == 0 {
			// Nothing to display; placeholder from the start.
			f.states[i] = mediaState{phase: PhaseErrorTerminal}
			continue
		}
		f.states[i] = mediaState{phase: PhaseLoading}
	}

	f.scroll = newScrollSync(f)
	f.preload = newPreloadCache(f)
	f.gestures = newGestureRouter(f)
	f.feedback = NewFeedbackRegistry()
	return f
}

// Loop returns the feed's run loop. The caller ticks it (or calls Run) from
// the same goroutine that drives the feed.
func (f *Feed) Loop() *Loop {
	return f.loop
}

// Tick advances the loop and feedback animations. Convenience for callers
// that drive both from one frame callback.
func (f *Feed) Tick(now time.Time) bool {
	more := f.loop.Tick(now)
	if f.feedback.Tick(now) {
		more = true
	}
	return more
}

// Mount positions the feed at the initial index and begins side effects.
// The initial transition never pulses haptics. Mounting an empty feed is a
// no-op. Mounting again after Unmount starts a fresh load context; preload
// records from the previous session are kept.
func (f *Feed) Mount(initialIndex int) {
	if f.mounted || len(f.items) == 0 {
		return
	}
	f.mounted = true
	if f.loadCtx.Err() != nil {
		f.loadCtx, f.loadCancel = context.WithCancel(context.Background())
	}
	f.ready = false
	f.scroll.request(clampIndex(initialIndex, len(f.items)))
	f.ready = true
}

// Unmount tears the feed down: pending loads are cancelled, any mounted
// player is released, and late completion callbacks become no-ops.
func (f *Feed) Unmount() {
	if !f.mounted {
		return
	}
	f.mounted = false
	f.gen.Add(1)
	f.loadCancel()
	for idx := range f.players {
		f.unmountPlayer(idx)
	}
	f.feedback.CancelAll()
	f.gestures.reset()
}

// Mounted reports whether the feed is live.
func (f *Feed) Mounted() bool {
	return f.mounted
}

// HandleScroll feeds one scroll-offset sample from the rendering
// collaborator. Samples arriving faster than the configured interval are
// coalesced.
func (f *Feed) HandleScroll(offset float64) {
	if !f.mounted {
		return
	}
	f.scroll.offer(offset, f.loop.Now())
}

// JumpTo imperatively moves the feed to the given index, for deep links and
// initial positioning. The move goes through the same lifecycle path as
// scroll-driven changes; out-of-range targets are clamped.
func (f *Feed) JumpTo(index int) {
	if !f.mounted || len(f.items) == 0 {
		return
	}
	f.scroll.request(clampIndex(index, len(f.items)))
}

// PointerDown reports a touch beginning on an item.
func (f *Feed) PointerDown(itemIndex int, x, y float64) {
	if !f.mounted {
		return
	}
	f.gestures.pointerDown(itemIndex, x, y, f.loop.Now())
}

// PointerMove reports touch travel. Movement beyond the tap slop cancels
// tap and long-press recognition.
func (f *Feed) PointerMove(x, y float64) {
	if !f.mounted {
		return
	}
	f.gestures.pointerMove(x, y)
}

// PointerUp reports the touch ending.
func (f *Feed) PointerUp(x, y float64) {
	if !f.mounted {
		return
	}
	f.gestures.pointerUp(x, y, f.loop.Now())
}

// ActiveIndex returns the current active item, or -1 before Mount.
func (f *Feed) ActiveIndex() int {
	return f.active
}

// IsScrolling reports whether coalesced scroll samples are still pending.
func (f *Feed) IsScrolling() bool {
	return f.scroll.scrolling
}

// DisplayedMedia returns the slot and load phase of the entry an item is
// currently showing.
func (f *Feed) DisplayedMedia(itemIndex int) (slot int, phase Phase) {
	if itemIndex < 0 || itemIndex >= len(f.states) {
		return 0, PhaseErrorTerminal
	}
	st := f.states[itemIndex]
	return st.displayed, st.phase
}

// ShouldRender reports whether the item currently has a mounted playback
// resource. At most one item can.
func (f *Feed) ShouldRender(itemIndex int) bool {
	if itemIndex < 0 || itemIndex >= len(f.states) {
		return false
	}
	return f.states[itemIndex].shouldRender
}

// Scale returns the gesture-feedback scale for an item (1 when idle).
func (f *Feed) Scale(itemIndex int) float64 {
	return f.feedback.Scale(itemIndex)
}

// clampIndex restricts an index to [0, count-1].
func clampIndex(i, count int) int {
	if i < 0 {
		return 0
	}
	if i >= count {
		return count - 1
	}
	return i
}
