package feed

// ============================================================================
// Media Preload Cache
// ============================================================================
//
// Tracks which (item, slot) pairs have begun or finished readiness checks.
// Proactive requests are limited to the sliding window {active-1, active,
// active+1}; the fallback path may additionally request an item's displayed
// slot wherever it sits. Loaded marks outside the window survive (forgetting
// a finished load is free, invalidating it is not) but are never proactively
// re-requested.
// Requests are idempotent because the lifecycle controller and the mount
// path both ask for the same slots.

type slotKey struct {
	item int
	slot int
}

type preloadStatus uint8

const (
	preloadRequested preloadStatus = iota + 1
	preloadLoaded
	preloadFailed
)

type preloadCache struct {
	f       *Feed
	records map[slotKey]preloadStatus

	// Current eligibility window, inclusive.
	lo, hi int
}

func newPreloadCache(f *Feed) *preloadCache {
	return &preloadCache{
		f:       f,
		records: make(map[slotKey]preloadStatus),
		lo:      noIndex,
		hi:      noIndex,
	}
}

// requestWindow moves the window around the new center and requests every
// slot inside it.
func (p *preloadCache) requestWindow(center int) {
	count := len(p.f.items)
	if count == 0 {
		return
	}
	p.lo = clampIndex(center-1, count)
	p.hi = clampIndex(center+1, count)
	for i := p.lo; i <= p.hi; i++ {
		p.request(i)
	}
}

// request begins a readiness check for the item's displayed entry. No-op
// when the slot is outside the window, already loaded, or already in flight.
func (p *preloadCache) request(itemIndex int) {
	if itemIndex < p.lo || itemIndex > p.hi {
		return
	}
	p.begin(itemIndex)
}

// requestDisplayed begins a readiness check regardless of the window. The
// fallback path uses it: an error can land after its item slid out of the
// window, and the replacement photo must still get a load.
func (p *preloadCache) requestDisplayed(itemIndex int) {
	p.begin(itemIndex)
}

func (p *preloadCache) begin(itemIndex int) {
	st := p.f.states[itemIndex]
	lib := p.f.items[itemIndex].Media
	if st.displayed >= len(lib) || st.phase == PhaseErrorTerminal {
		return
	}

	key := slotKey{item: itemIndex, slot: st.displayed}
	if _, seen := p.records[key]; seen {
		return
	}
	p.records[key] = preloadRequested

	entry := lib[st.displayed]
	gen := p.f.gen.Load()
	p.f.cfg.Loader.Load(p.f.loadCtx, entry, func(err error) {
		// Completion may arrive on any goroutine, possibly after the
		// feed was torn down; the generation check makes late
		// callbacks no-ops.
		p.f.loop.Post(func() {
			if p.f.gen.Load() != gen {
				return
			}
			p.complete(key, err)
		})
	})
}

func (p *preloadCache) complete(key slotKey, err error) {
	st := &p.f.states[key.item]

	if err != nil {
		p.records[key] = preloadFailed
		p.f.handleMediaError(key.item, key.slot, err)
		return
	}

	p.records[key] = preloadLoaded
	if st.displayed == key.slot && st.phase == PhaseLoading {
		st.phase = PhaseLoaded
	}
}

// loaded reports whether the slot finished a readiness check.
func (p *preloadCache) loaded(itemIndex, slot int) bool {
	return p.records[slotKey{item: itemIndex, slot: slot}] == preloadLoaded
}
