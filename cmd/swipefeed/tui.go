package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/roamlight/swipefeed"
	"github.com/roamlight/swipefeed/db"
	"github.com/roamlight/swipefeed/feed"
	"github.com/roamlight/swipefeed/media"
	"github.com/roamlight/swipefeed/profile"
)

// frameInterval paces engine ticks and redraws.
const frameInterval = 33 * time.Millisecond

// Styles
var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 3).
			Width(44)

	activeCardStyle = cardStyle.
			BorderForeground(lipgloss.Color("12"))

	cityStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	priceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	mediaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("8")).
				Italic(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type frameMsg time.Time

type configReloadedMsg swipefeed.Config

type configWatchErrMsg error

// tuiDeps is everything the model needs from the wiring layer.
type tuiDeps struct {
	cfg        swipefeed.Config
	configPath string
	engineCfg  feed.Config
	offers     []db.Offer
	items      []feed.Item
	store      *profile.Store
	watcher    *fsnotify.Watcher
	log        zerolog.Logger
}

// model drives the feed engine from keyboard input. Keys stand in for the
// touch gestures a mobile front end would deliver.
type model struct {
	deps tuiDeps
	feed *feed.Feed

	// offset is the simulated scroll position fed to HandleScroll.
	offset float64

	lastGesture  string
	statusMsg    string
	statusMsgAge time.Time
	quitting     bool
}

func runTUI(deps tuiDeps) error {
	m := newModel(deps)

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if m, ok := finalModel.(*model); ok {
		m.saveSession()
		m.feed.Unmount()
	}
	return nil
}

func newModel(deps tuiDeps) *model {
	m := &model{deps: deps}

	cfg := deps.engineCfg
	cfg.OnGesture = func(item int, g feed.Gesture) {
		m.onGesture(item, g)
	}
	cfg.OnIndexChange = func(index int) {
		deps.log.Debug().Int("index", index).Msg("active offer changed")
	}
	cfg.OnMediaChange = func(item, slot int) {
		deps.log.Debug().Int("item", item).Int("slot", slot).Msg("displayed media changed")
	}
	cfg.Players = logPlayers{log: deps.log}

	m.feed = feed.New(deps.items, cfg)

	initial := m.restoredIndex()
	m.feed.Mount(initial)
	m.offset = float64(initial) * cfg.ItemExtent
	return m
}

// restoredIndex maps the saved session back onto the current offer list.
// The offer ID wins over the raw index, which goes stale when the list
// reorders between launches.
func (m *model) restoredIndex() int {
	sess := m.deps.store.Session
	if sess.LastActiveOffer != "" {
		for i, offer := range m.deps.offers {
			if offer.ID.String() == sess.LastActiveOffer {
				return i
			}
		}
	}
	return sess.LastActiveIndex
}

func (m *model) saveSession() {
	active := m.feed.ActiveIndex()
	if active < 0 || active >= len(m.deps.offers) {
		return
	}
	err := m.deps.store.SaveSession(profile.Session{
		LastActiveOffer: m.deps.offers[active].ID.String(),
		LastActiveIndex: active,
	})
	if err != nil {
		m.deps.log.Warn().Err(err).Msg("saving session failed")
	}
}

func (m *model) onGesture(item int, g feed.Gesture) {
	m.lastGesture = fmt.Sprintf("%s on #%d", g, item)
	switch g {
	case feed.GestureTap:
		// Tap advances to the next item, the app's "next card" action.
		if item == m.feed.ActiveIndex() && item+1 < len(m.deps.items) {
			m.jumpTo(item + 1)
		}
	case feed.GestureDoubleTap:
		m.setStatus(fmt.Sprintf("Saved %s to favorites", m.cityName(item)))
	case feed.GestureLongPress:
		m.setStatus(fmt.Sprintf("Sharing %s...", m.cityName(item)))
	}
}

func (m *model) cityName(item int) string {
	if item < 0 || item >= len(m.deps.offers) {
		return "offer"
	}
	return m.deps.offers[item].DestinationCity
}

func (m *model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusMsgAge = time.Now()
}

func (m *model) jumpTo(index int) {
	m.feed.JumpTo(index)
	m.offset = float64(m.feed.ActiveIndex()) * m.deps.engineCfg.ItemExtent
}

// scrollBy simulates finger travel through the scroll sample path.
func (m *model) scrollBy(delta float64) {
	m.offset += delta
	max := float64(len(m.deps.items)-1) * m.deps.engineCfg.ItemExtent
	if m.offset < 0 {
		m.offset = 0
	}
	if m.offset > max {
		m.offset = max
	}
	m.feed.HandleScroll(m.offset)
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(frameTick(), m.waitForConfigChange())
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// waitForConfigChange blocks on the fsnotify watcher and reloads the config
// when the watched file is rewritten.
func (m *model) waitForConfigChange() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-m.deps.watcher.Events:
				if !ok {
					return nil
				}
				if !strings.HasSuffix(ev.Name, m.deps.configPath) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := swipefeed.LoadConfigFromFile(m.deps.configPath)
				if err != nil {
					return configWatchErrMsg(err)
				}
				return configReloadedMsg(cfg)
			case err, ok := <-m.deps.watcher.Errors:
				if !ok {
					return nil
				}
				return configWatchErrMsg(err)
			}
		}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.feed.Tick(time.Time(msg))
		return m, frameTick()

	case configReloadedMsg:
		m.deps.cfg = swipefeed.Config(msg)
		m.deps.log.Info().Msg("config reloaded")
		m.setStatus("Config reloaded (tuning applies to new sessions)")
		return m, m.waitForConfigChange()

	case configWatchErrMsg:
		m.deps.log.Warn().Err(error(msg)).Msg("config watch")
		return m, m.waitForConfigChange()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	extent := m.deps.engineCfg.ItemExtent

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "down", "j":
		m.scrollBy(extent)
	case "up", "k":
		m.scrollBy(-extent)
	case "J":
		// Partial travel; the synchronizer snaps to the nearest item.
		m.scrollBy(extent * 0.4)
	case "K":
		m.scrollBy(-extent * 0.4)
	case "g", "home":
		m.jumpTo(0)
	case "G", "end":
		m.jumpTo(len(m.deps.items) - 1)

	case "t":
		m.pressAndRelease(0)
	case "d":
		// Two quick taps inside the double-tap window.
		m.pressAndRelease(0)
		m.pressAndRelease(0)
	case "l":
		m.pressAndRelease(m.deps.engineCfg.LongPressDelay + 50*time.Millisecond)
	}
	return m, nil
}

// pressAndRelease synthesizes a pointer press on the active item held for
// the given duration.
func (m *model) pressAndRelease(hold time.Duration) {
	active := m.feed.ActiveIndex()
	if active < 0 {
		return
	}
	m.feed.PointerDown(active, 100, 200)
	if hold > 0 {
		// The long-press timer fires from the loop once enough time has
		// passed; one tick past the hold makes it deterministic here.
		m.feed.Tick(time.Now().Add(hold))
	}
	m.feed.PointerUp(100, 200)
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(cityStyle.Render("roamlight") + helpStyle.Render("  swipe the fares\n\n"))

	active := m.feed.ActiveIndex()
	for i := range m.deps.items {
		if abs(i-active) > 1 {
			continue
		}
		b.WriteString(m.renderCard(i, i == active))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("offer %d/%d", active+1, len(m.deps.items))
	if m.feed.IsScrolling() {
		status += "  scrolling"
	}
	if m.lastGesture != "" {
		status += "  last: " + m.lastGesture
	}
	if m.statusMsg != "" && time.Since(m.statusMsgAge) < 5*time.Second {
		status += "  " + m.statusMsg
	}
	b.WriteString("\n" + statusStyle.Render(status) + "\n")
	b.WriteString(helpStyle.Render("j/k swipe  J/K drag  g/G ends  t tap  d double-tap  l long-press  q quit"))
	return b.String()
}

func (m *model) renderCard(i int, isActive bool) string {
	offer := m.deps.offers[i]
	item := m.deps.items[i]

	var lines []string
	lines = append(lines, cityStyle.Render(fmt.Sprintf("%s (%s)", offer.DestinationCity, offer.Destination)))
	lines = append(lines, fmt.Sprintf("%s → %s  %s  %d stop(s)",
		offer.Origin, offer.Destination, offer.Airline, offer.Stops))
	lines = append(lines, priceStyle.Render(fmt.Sprintf("$%.2f %s", float64(offer.PriceCents)/100, offer.Currency)))
	lines = append(lines, m.renderMediaLine(i, item))

	card := strings.Join(lines, "\n")
	style := cardStyle
	if isActive {
		style = activeCardStyle
	}

	// Gesture feedback shrinks or swells the card width.
	scale := m.feed.Scale(i)
	if scale != 1 {
		style = style.Width(int(float64(style.GetWidth()) * scale))
	}
	return style.Render(card)
}

func (m *model) renderMediaLine(i int, item feed.Item) string {
	slot, phase := m.feed.DisplayedMedia(i)

	switch phase {
	case feed.PhaseErrorTerminal:
		return placeholderStyle.Render("▨ media unavailable")
	case feed.PhaseLoading:
		return placeholderStyle.Render("… loading media")
	}

	entry := item.Media[slot]
	marker := "▣ photo"
	if entry.Type.IsVideo() {
		marker = "▶ video"
		if m.feed.ShouldRender(i) {
			marker = "▶ video (playing)"
		}
	}
	return mediaStyle.Render(fmt.Sprintf("%s  %d/%d", marker, slot+1, len(item.Media)))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// logPlayers satisfies the engine's player contract for a terminal demo,
// where "playback" is just a log line.
type logPlayers struct {
	log zerolog.Logger
}

type logPlayer struct {
	log zerolog.Logger
	id  string
}

func (p logPlayers) Player(item feed.Item, _ media.Entry) (feed.VideoPlayer, error) {
	return &logPlayer{log: p.log, id: item.ID}, nil
}

func (p *logPlayer) Mount() error {
	p.log.Debug().Str("item", p.id).Msg("player mounted")
	return nil
}

func (p *logPlayer) Unmount() error {
	p.log.Debug().Str("item", p.id).Msg("player unmounted")
	return nil
}
