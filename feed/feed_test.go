package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/roamlight/swipefeed/haptics"
	"github.com/roamlight/swipefeed/media"
)

// fakeClock drives the loop deterministically.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// manualLoader records loads and lets tests complete them by hand.
type manualLoader struct {
	calls []loadCall
}

type loadCall struct {
	ctx   context.Context
	entry media.Entry
	done  func(error)
}

func (l *manualLoader) Load(ctx context.Context, entry media.Entry, done func(error)) {
	l.calls = append(l.calls, loadCall{ctx: ctx, entry: entry, done: done})
}

// completeAll finishes every pending load with the given error and clears
// the backlog.
func (l *manualLoader) completeAll(err error) {
	calls := l.calls
	l.calls = nil
	for _, c := range calls {
		c.done(err)
	}
}

// completeMatching finishes loads whose URL contains the substring.
func (l *manualLoader) completeMatching(substr string, err error) int {
	var kept []loadCall
	n := 0
	for _, c := range l.calls {
		if contains(c.entry.URL, substr) {
			c.done(err)
			n++
		} else {
			kept = append(kept, c)
		}
	}
	l.calls = kept
	return n
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// recordingHaptics captures pulses.
type recordingHaptics struct {
	pulses []haptics.Level
	err    error
}

func (h *recordingHaptics) Pulse(level haptics.Level) error {
	if h.err != nil {
		return h.err
	}
	h.pulses = append(h.pulses, level)
	return nil
}

// fakePlayer tracks mount state.
type fakePlayer struct {
	mountErr   error
	unmountErr error
	mounted    bool
	mounts     int
	unmounts   int
}

func (p *fakePlayer) Mount() error {
	p.mounts++
	if p.mountErr != nil {
		return p.mountErr
	}
	p.mounted = true
	return nil
}

func (p *fakePlayer) Unmount() error {
	p.unmounts++
	p.mounted = false
	return p.unmountErr
}

// fakePlayers hands out one player per item index.
type fakePlayers struct {
	players  map[string]*fakePlayer
	mountErr error
}

func newFakePlayers() *fakePlayers {
	return &fakePlayers{players: make(map[string]*fakePlayer)}
}

func (f *fakePlayers) Player(item Item, _ media.Entry) (VideoPlayer, error) {
	p, ok := f.players[item.ID]
	if !ok {
		p = &fakePlayer{mountErr: f.mountErr}
		f.players[item.ID] = p
	}
	return p, nil
}

// photoItem builds an item with n photo entries.
func photoItem(id string, n int) Item {
	lib := make(media.Library, 0, n)
	for i := 0; i < n; i++ {
		lib = append(lib, media.Entry{
			ID:   uuid.New(),
			Type: media.TypePhoto,
			URL:  fmt.Sprintf("https://cdn.test/%s/photo%d.jpg", id, i),
		})
	}
	return Item{ID: id, Media: lib}
}

// videoPhotoItem builds an item whose first entry is a video and second a
// photo, the canonical fallback shape.
func videoPhotoItem(id string) Item {
	return Item{ID: id, Media: media.Library{
		{ID: uuid.New(), Type: media.TypeVideo, URL: fmt.Sprintf("https://cdn.test/%s/clip.mp4", id)},
		{ID: uuid.New(), Type: media.TypePhoto, URL: fmt.Sprintf("https://cdn.test/%s/still.jpg", id)},
	}}
}

// videoOnlyItem builds an item with a single video entry and no photo.
func videoOnlyItem(id string) Item {
	return Item{ID: id, Media: media.Library{
		{ID: uuid.New(), Type: media.TypeVideo, URL: fmt.Sprintf("https://cdn.test/%s/clip.mp4", id)},
	}}
}

// testEnv bundles a feed with its fakes and a manual clock.
type testEnv struct {
	feed    *Feed
	clock   *fakeClock
	loader  *manualLoader
	haptics *recordingHaptics
	players *fakePlayers

	indexChanges []int
	mediaChanges [][2]int
	gestures     []struct {
		item int
		g    Gesture
	}
}

func newTestEnv(t *testing.T, items []Item, mutate func(*Config)) *testEnv {
	t.Helper()

	env := &testEnv{
		clock:   newFakeClock(),
		loader:  &manualLoader{},
		haptics: &recordingHaptics{},
		players: newFakePlayers(),
	}

	cfg := DefaultConfig()
	cfg.ItemExtent = 800
	cfg.Loader = env.loader
	cfg.Haptics = env.haptics
	cfg.Players = env.players
	cfg.OnIndexChange = func(i int) { env.indexChanges = append(env.indexChanges, i) }
	cfg.OnMediaChange = func(item, slot int) { env.mediaChanges = append(env.mediaChanges, [2]int{item, slot}) }
	cfg.OnGesture = func(item int, g Gesture) {
		env.gestures = append(env.gestures, struct {
			item int
			g    Gesture
		}{item, g})
	}
	if mutate != nil {
		mutate(&cfg)
	}

	env.feed = New(items, cfg)
	env.feed.loop.clock = env.clock.Now
	return env
}

// tick runs one loop pass at the current fake time.
func (env *testEnv) tick() {
	env.feed.Tick(env.clock.Now())
}

// settle ticks until the loop is idle.
func (env *testEnv) settle() {
	for i := 0; i < 16; i++ {
		if !env.feed.loop.Tick(env.clock.Now()) {
			return
		}
	}
}

// scroll advances the clock past the sample interval and offers a sample.
func (env *testEnv) scroll(offset float64) {
	env.clock.advance(env.feed.cfg.SampleInterval + time.Millisecond)
	env.feed.HandleScroll(offset)
}

var errLoad = errors.New("load failed")
