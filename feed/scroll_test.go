package feed

import (
	"testing"
	"time"
)

func fiveItems() []Item {
	return []Item{
		photoItem("lisbon", 2),
		photoItem("tokyo", 2),
		photoItem("paris", 2),
		photoItem("mexico-city", 2),
		photoItem("reykjavik", 2),
	}
}

func TestScrollDedupAtBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		offsets []float64
		want    []int
	}{
		{
			name:    "steady swipe",
			offsets: []float64{0, 800, 1600},
			want:    []int{1, 2},
		},
		{
			name:    "jitter around boundary",
			offsets: []float64{790, 810, 805, 795, 820},
			want:    []int{1},
		},
		{
			name:    "back and forth",
			offsets: []float64{800, 0, 800},
			want:    []int{1, 0, 1},
		},
		{
			name:    "settles on same item",
			offsets: []float64{10, 30, 5},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, fiveItems(), nil)
			env.feed.Mount(0)
			env.indexChanges = nil

			for _, off := range tt.offsets {
				env.scroll(off)
			}

			if len(env.indexChanges) != len(tt.want) {
				t.Fatalf("index changes = %v, want %v", env.indexChanges, tt.want)
			}
			for i, idx := range tt.want {
				if env.indexChanges[i] != idx {
					t.Fatalf("index changes = %v, want %v", env.indexChanges, tt.want)
				}
			}
		})
	}
}

func TestScrollDirectJumpEmitsOnce(t *testing.T) {
	env := newTestEnv(t, fiveItems(), nil)
	env.feed.Mount(0)
	env.indexChanges = nil

	// Programmatic scroll-to-end lands in a single sample.
	env.scroll(4 * 800)

	if len(env.indexChanges) != 1 || env.indexChanges[0] != 4 {
		t.Fatalf("index changes = %v, want [4]", env.indexChanges)
	}
	if got := env.feed.ActiveIndex(); got != 4 {
		t.Fatalf("ActiveIndex() = %d, want 4", got)
	}
}

func TestScrollClampsOutOfRange(t *testing.T) {
	env := newTestEnv(t, fiveItems(), nil)
	env.feed.Mount(0)
	env.indexChanges = nil

	env.scroll(-2000)
	if len(env.indexChanges) != 0 {
		t.Fatalf("negative overscroll emitted %v", env.indexChanges)
	}

	env.scroll(99999)
	if len(env.indexChanges) != 1 || env.indexChanges[0] != 4 {
		t.Fatalf("index changes = %v, want [4]", env.indexChanges)
	}
}

func TestScrollEmptyFeed(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.feed.Mount(0)
	env.feed.HandleScroll(400)
	env.feed.JumpTo(3)
	env.settle()

	if env.feed.Mounted() {
		t.Fatal("empty feed should not mount")
	}
	if got := env.feed.ActiveIndex(); got != -1 {
		t.Fatalf("ActiveIndex() = %d, want -1", got)
	}
	if len(env.indexChanges) != 0 {
		t.Fatalf("unexpected index changes %v", env.indexChanges)
	}
}

func TestScrollCoalescesRapidSamples(t *testing.T) {
	env := newTestEnv(t, fiveItems(), nil)
	env.feed.Mount(0)
	env.indexChanges = nil

	env.scroll(800)

	// Two samples inside the interval; only the newest survives.
	env.feed.HandleScroll(1600)
	env.feed.HandleScroll(2400)

	if !env.feed.IsScrolling() {
		t.Fatal("IsScrolling() = false with a parked sample")
	}

	env.clock.advance(env.feed.cfg.SampleInterval + time.Millisecond)
	env.tick()

	if env.feed.IsScrolling() {
		t.Fatal("IsScrolling() = true after flush")
	}
	want := []int{1, 3}
	if len(env.indexChanges) != 2 || env.indexChanges[0] != want[0] || env.indexChanges[1] != want[1] {
		t.Fatalf("index changes = %v, want %v", env.indexChanges, want)
	}
}

func TestScrollDirectSampleSupersedesParked(t *testing.T) {
	env := newTestEnv(t, fiveItems(), nil)
	env.feed.Mount(0)
	env.indexChanges = nil

	env.scroll(800)

	// Parked inside the interval; a flush is scheduled.
	env.feed.HandleScroll(2400)

	// The next sample clears the interval and is processed directly. The
	// parked offset is now stale and its flush must not replay it.
	env.scroll(3200)

	env.clock.advance(env.feed.cfg.SampleInterval + time.Millisecond)
	env.tick()

	if got := env.feed.ActiveIndex(); got != 4 {
		t.Fatalf("ActiveIndex() = %d, want 4 (newest sample)", got)
	}
	want := []int{1, 4}
	if len(env.indexChanges) != 2 || env.indexChanges[0] != want[0] || env.indexChanges[1] != want[1] {
		t.Fatalf("index changes = %v, want %v", env.indexChanges, want)
	}
	if env.feed.IsScrolling() {
		t.Fatal("IsScrolling() = true with nothing parked")
	}
}

func TestJumpToSameIndexSilent(t *testing.T) {
	env := newTestEnv(t, fiveItems(), nil)
	env.feed.Mount(2)
	env.indexChanges = nil

	env.feed.JumpTo(2)

	if len(env.indexChanges) != 0 {
		t.Fatalf("jump to current index emitted %v", env.indexChanges)
	}
}

func TestJumpToClamps(t *testing.T) {
	env := newTestEnv(t, fiveItems(), nil)
	env.feed.Mount(0)
	env.indexChanges = nil

	env.feed.JumpTo(99)
	if got := env.feed.ActiveIndex(); got != 4 {
		t.Fatalf("ActiveIndex() = %d, want 4", got)
	}

	env.feed.JumpTo(-7)
	if got := env.feed.ActiveIndex(); got != 0 {
		t.Fatalf("ActiveIndex() = %d, want 0", got)
	}
}

func TestMountClampsInitialIndex(t *testing.T) {
	env := newTestEnv(t, fiveItems(), nil)
	env.feed.Mount(42)

	if got := env.feed.ActiveIndex(); got != 4 {
		t.Fatalf("ActiveIndex() = %d, want 4", got)
	}
	if len(env.indexChanges) != 1 || env.indexChanges[0] != 4 {
		t.Fatalf("index changes = %v, want [4]", env.indexChanges)
	}
}
