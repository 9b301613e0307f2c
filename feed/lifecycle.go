package feed

import (
	"fmt"

	"github.com/roamlight/swipefeed/haptics"
)

// ============================================================================
// Active-Item Lifecycle Controller
// ============================================================================
//
// applyIndexChange is the single path for every transition: scroll-driven
// changes, JumpTo, and initial positioning all land here, already
// de-duplicated by the synchronizer guard. Side-effect failures are
// absorbed; the index update itself always completes.

func (f *Feed) applyIndexChange(newIndex int) {
	prev := f.active
	if newIndex == prev {
		return
	}

	// 1. Deactivate the outgoing item's playback.
	if prev != noIndex {
		f.unmountPlayer(prev)
	}

	// 2. The transition itself.
	f.active = newIndex

	// 3. Transition haptic. Skipped during initial positioning: the user
	// did not swipe, so there is nothing to acknowledge.
	if f.ready && f.cfg.HapticTransitions {
		if err := f.cfg.Haptics.Pulse(haptics.Light); err != nil {
			f.log.Warn().Err(err).Msg("transition haptic failed")
		}
	}

	// 4. Activate the incoming item. Player instantiation is deferred by
	// one tick so a heavy decoder never spins up mid-transition.
	if f.displayedIsVideo(newIndex) {
		gen := f.gen.Load()
		f.loop.PostNextTick(func() {
			if f.gen.Load() != gen || f.active != newIndex {
				return
			}
			f.mountPlayer(newIndex)
		})
	}
	f.preload.requestWindow(newIndex)

	// 5. Notify the caller.
	if f.cfg.OnIndexChange != nil {
		f.cfg.OnIndexChange(newIndex)
	}

	f.log.Debug().Int("from", prev).Int("to", newIndex).Msg("active item changed")
}

// displayedIsVideo reports whether the item's displayed entry needs a
// playback resource.
func (f *Feed) displayedIsVideo(itemIndex int) bool {
	st := f.states[itemIndex]
	lib := f.items[itemIndex].Media
	if st.displayed >= len(lib) || st.phase == PhaseErrorTerminal {
		return false
	}
	return lib[st.displayed].Type.IsVideo()
}

// mountPlayer instantiates playback for the item's displayed entry. A mount
// failure is routed into the fallback machine like any other media error.
func (f *Feed) mountPlayer(itemIndex int) {
	if f.cfg.Players == nil {
		return
	}
	if _, exists := f.players[itemIndex]; exists {
		return
	}
	// A fallback may have switched the item to a photo while the mount was
	// deferred.
	if !f.displayedIsVideo(itemIndex) {
		return
	}
	st := &f.states[itemIndex]
	entry := f.items[itemIndex].Media[st.displayed]

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("player mount panicked: %v", r)
			}
		}()
		player, err := f.cfg.Players.Player(f.items[itemIndex], entry)
		if err != nil {
			return err
		}
		if err := player.Mount(); err != nil {
			return err
		}
		f.players[itemIndex] = player
		return nil
	}()
	if err != nil {
		f.log.Warn().Err(err).Int("item", itemIndex).Msg("player mount failed")
		f.handleMediaError(itemIndex, st.displayed, err)
		return
	}
	st.shouldRender = true
}

// unmountPlayer releases the item's playback resource, if mounted. Errors
// are logged and swallowed; deactivation cannot be allowed to fail.
func (f *Feed) unmountPlayer(itemIndex int) {
	st := &f.states[itemIndex]
	st.shouldRender = false

	player, ok := f.players[itemIndex]
	if !ok {
		return
	}
	delete(f.players, itemIndex)

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("player unmount panicked: %v", r)
			}
		}()
		return player.Unmount()
	}()
	if err != nil {
		f.log.Warn().Err(err).Int("item", itemIndex).Msg("player unmount failed")
	}
}
