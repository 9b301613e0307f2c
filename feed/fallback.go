package feed

// ============================================================================
// Media Fallback State Machine
// ============================================================================
//
// A failed video-typed entry is downgraded to the item's first photo, in
// original list order. Exactly one hop: a photo failure, the fallback photo
// included, is terminal and renders a placeholder. Multi-hop fallback would
// risk cycling between two consistently unreachable URLs, so it is
// deliberately not attempted. Errors for a slot the item is no longer
// displaying are stale and ignored; that serializes transitions per entry
// even though completions arrive in arbitrary order.

func (f *Feed) handleMediaError(itemIndex, slot int, cause error) {
	if itemIndex < 0 || itemIndex >= len(f.states) {
		return
	}
	st := &f.states[itemIndex]

	// Stale: a fallback already moved this item to a different entry.
	if st.displayed != slot {
		return
	}
	if st.phase == PhaseErrorTerminal {
		return
	}

	lib := f.items[itemIndex].Media
	entry := lib[slot]

	if entry.Type.IsVideo() && !st.fellBack {
		if photoSlot, ok := lib.FirstPhoto(); ok {
			f.log.Debug().
				Int("item", itemIndex).
				Int("from", slot).
				Int("to", photoSlot).
				Err(cause).
				Msg("media fallback to photo")

			// Playback for the failed video is worthless now.
			f.unmountPlayer(itemIndex)

			st.fellBack = true
			st.displayed = photoSlot
			st.phase = PhaseLoading

			if f.cfg.OnMediaChange != nil {
				f.cfg.OnMediaChange(itemIndex, photoSlot)
			}

			// Kick off the photo's readiness check; already-loaded
			// slots resolve from the cache record.
			if f.preload.loaded(itemIndex, photoSlot) {
				st.phase = PhaseLoaded
			} else {
				f.preload.requestDisplayed(itemIndex)
			}
			return
		}
	}

	// No fallback remains: photo failures, embedded/video entries of
	// items without photos, and second failures all land here.
	st.phase = PhaseErrorTerminal
	f.unmountPlayer(itemIndex)
	f.log.Warn().
		Int("item", itemIndex).
		Int("slot", slot).
		Err(cause).
		Msg("media terminally failed, rendering placeholder")
}
