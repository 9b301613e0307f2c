package feed

import (
	"testing"

	"github.com/roamlight/swipefeed/haptics"
)

func TestInitialMountSkipsHaptic(t *testing.T) {
	env := newTestEnv(t, fiveItems(), nil)
	env.feed.Mount(2)

	if len(env.haptics.pulses) != 0 {
		t.Fatalf("initial positioning pulsed %v", env.haptics.pulses)
	}
	if len(env.indexChanges) != 1 || env.indexChanges[0] != 2 {
		t.Fatalf("index changes = %v, want [2]", env.indexChanges)
	}
}

func TestTransitionPulsesOnce(t *testing.T) {
	env := newTestEnv(t, fiveItems(), nil)
	env.feed.Mount(0)

	env.scroll(800)
	env.scroll(810) // same item, no transition

	if len(env.haptics.pulses) != 1 || env.haptics.pulses[0] != haptics.Light {
		t.Fatalf("pulses = %v, want one Light", env.haptics.pulses)
	}
}

func TestTransitionHapticDisabled(t *testing.T) {
	env := newTestEnv(t, fiveItems(), func(cfg *Config) {
		cfg.HapticTransitions = false
	})
	env.feed.Mount(0)
	env.scroll(800)

	if len(env.haptics.pulses) != 0 {
		t.Fatalf("pulses = %v with transitions disabled", env.haptics.pulses)
	}
}

func TestHapticFailureDoesNotBlockTransition(t *testing.T) {
	env := newTestEnv(t, fiveItems(), nil)
	env.haptics.err = errLoad
	env.feed.Mount(0)
	env.indexChanges = nil

	env.scroll(800)

	if got := env.feed.ActiveIndex(); got != 1 {
		t.Fatalf("ActiveIndex() = %d, want 1", got)
	}
	if len(env.indexChanges) != 1 || env.indexChanges[0] != 1 {
		t.Fatalf("index changes = %v, want [1]", env.indexChanges)
	}
}

func TestSingleMountedPlayer(t *testing.T) {
	items := []Item{videoPhotoItem("lisbon"), videoPhotoItem("tokyo"), videoPhotoItem("paris")}
	env := newTestEnv(t, items, nil)
	env.feed.Mount(0)
	env.settle()

	if !env.feed.ShouldRender(0) {
		t.Fatal("active item not rendering after mount tick")
	}
	if p := env.players.players["lisbon"]; p == nil || !p.mounted {
		t.Fatal("player for item 0 not mounted")
	}

	env.scroll(800)

	// The outgoing player releases synchronously with the transition.
	if env.feed.ShouldRender(0) {
		t.Fatal("outgoing item still rendering")
	}
	if p := env.players.players["lisbon"]; p.mounted {
		t.Fatal("outgoing player still mounted")
	}

	env.settle()

	if !env.feed.ShouldRender(1) {
		t.Fatal("incoming item not rendering after tick")
	}
	rendering := 0
	for i := range items {
		if env.feed.ShouldRender(i) {
			rendering++
		}
	}
	if rendering != 1 {
		t.Fatalf("rendering items = %d, want 1", rendering)
	}
}

func TestRapidTransitionSkipsStaleMount(t *testing.T) {
	items := []Item{videoPhotoItem("lisbon"), videoPhotoItem("tokyo")}
	env := newTestEnv(t, items, nil)
	env.feed.Mount(0)

	// Move on before the deferred mount tick runs.
	env.feed.JumpTo(1)
	env.settle()

	if p := env.players.players["lisbon"]; p != nil && p.mounts > 0 {
		t.Fatal("stale deferred mount ran for the skipped item")
	}
	if p := env.players.players["tokyo"]; p == nil || !p.mounted {
		t.Fatal("player for the settled item not mounted")
	}
}

func TestUnmountReleasesPlayer(t *testing.T) {
	env := newTestEnv(t, []Item{videoPhotoItem("lisbon")}, nil)
	env.feed.Mount(0)
	env.settle()

	env.feed.Unmount()

	if env.feed.Mounted() {
		t.Fatal("Mounted() = true after Unmount")
	}
	if p := env.players.players["lisbon"]; p.mounted {
		t.Fatal("player still mounted after Unmount")
	}
	if env.feed.ShouldRender(0) {
		t.Fatal("ShouldRender(0) = true after Unmount")
	}
}

func TestPlayerMountFailureFallsBack(t *testing.T) {
	env := newTestEnv(t, []Item{videoPhotoItem("lisbon")}, nil)
	env.players.mountErr = errLoad
	env.feed.Mount(0)
	env.settle()

	slot, phase := env.feed.DisplayedMedia(0)
	if slot != 1 {
		t.Fatalf("displayed slot = %d, want fallback photo 1", slot)
	}
	if phase != PhaseLoading {
		t.Fatalf("phase = %v, want loading", phase)
	}
	if len(env.mediaChanges) != 1 || env.mediaChanges[0] != [2]int{0, 1} {
		t.Fatalf("media changes = %v, want [[0 1]]", env.mediaChanges)
	}
}
