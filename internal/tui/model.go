// Package tui implements the Bubble Tea host for the map point picker: a map
// canvas on the left, the point list or point detail on the right.
package tui

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/mappicker/internal/core/geo"
	"github.com/colonyops/mappicker/internal/core/history"
	"github.com/colonyops/mappicker/internal/core/logging"
	"github.com/colonyops/mappicker/internal/core/picker"
	"github.com/colonyops/mappicker/internal/core/styles"
	"github.com/colonyops/mappicker/internal/tui/mapview"
)

const (
	minSidebarWidth = 28
	maxSidebarWidth = 48
)

// Options configures the TUI model.
type Options struct {
	Picker *picker.Picker
	Canvas *mapview.Canvas
	// Context bounds search requests. Defaults to context.Background.
	Context context.Context
	// History remembers resolved searches. Optional.
	History     history.Store
	HistorySize int
}

// searchDoneMsg carries a geocoded search back to Update, which moves the map.
type searchDoneMsg struct {
	position geo.Position
	err      error
}

type historyLoadedMsg struct {
	entries []history.Entry
}

// Model is the Bubble Tea model hosting a picker.
type Model struct {
	picker *picker.Picker
	canvas *mapview.Canvas
	ctx    context.Context
	bridge *eventBridge

	keys      keyMap
	search    textinput.Model
	spinner   spinner.Model
	detail    viewport.Model
	markdown  *markdownRenderer
	toasts    *ToastController
	toastView *ToastView

	history     history.Store
	historySize int
	recall      *history.Recall

	state     picker.State
	placed    []mapview.Placed
	cursor    int
	focusKey  string
	detailKey string // key whose description is loaded in detail

	width, height int
	mounted       bool
	searching     bool
	quitting      bool
	chosen        *geo.MapPoint
}

// New returns a model for p drawing on canvas. The picker is mounted on the
// canvas once the terminal size is known. The picker's theme is applied to the
// shared styles before any of them are read.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := opts.Picker.Options().Theme
	if palette, ok := styles.GetPalette(theme); ok {
		styles.SetTheme(palette)
	} else {
		logger := logging.Component("tui")
		logger.Warn().Str("theme", theme).Msg("unknown theme, keeping current styles")
	}

	search := textinput.New()
	search.Prompt = styles.IconSearch + " "
	search.Placeholder = "search location"
	searchStyles := textinput.DefaultStyles(true)
	searchStyles.Focused.Prompt = styles.SidebarTitleStyle
	searchStyles.Cursor.Color = styles.ColorPrimary
	search.SetStyles(searchStyles)

	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = styles.MapStatusStyle

	bridge := newEventBridge()
	opts.Picker.Subscribe(bridge.push)

	toasts := NewToastController()

	return Model{
		picker:    opts.Picker,
		canvas:    opts.Canvas,
		ctx:       ctx,
		bridge:    bridge,
		keys:      defaultKeyMap(),
		search:    search,
		spinner:   s,
		detail:    viewport.New(),
		markdown:  newMarkdownRenderer(),
		toasts:    toasts,
		toastView: NewToastView(toasts),

		history:     opts.History,
		historySize: opts.HistorySize,
		recall:      history.NewRecall(nil),

		state: opts.Picker.State(),
	}
}

// Chosen returns the confirmed point, if the user confirmed one.
func (m Model) Chosen() (geo.MapPoint, bool) {
	if m.chosen == nil {
		return geo.MapPoint{}, false
	}
	return *m.chosen, true
}

// Close stops event delivery. Call it after the program exits.
func (m Model) Close() {
	m.bridge.close()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bridge.waitForEvent(), m.spinner.Tick, m.loadHistory())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case pickerEventMsg:
		return m.handlePickerEvent(msg)
	case searchDoneMsg:
		m.searching = false
		if msg.err == nil {
			m.picker.MoveTo(msg.position)
			m.refresh()
		}
		return m, nil
	case historyLoadedMsg:
		m.recall = history.NewRecall(msg.entries)
		return m, nil
	case toastTickMsg:
		return m.handleToastTick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other input internals.
	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	l := m.layout()

	m.canvas.SetSize(l.canvasWidth, l.canvasHeight)
	m.search.SetWidth(max(l.sidebarInner-3, 1))
	m.detail.SetWidth(l.sidebarInner)
	m.detailKey = "" // re-render markdown at the new width

	var cmd tea.Cmd
	if !m.mounted {
		m.mounted = true
		if err := m.picker.Mount(m.canvas); err != nil {
			logger := logging.Component("tui")
			logger.Error().Err(err).Msg("mount picker")
			cmd = m.pushToast(toastError, "Map could not be started")
		}
	}

	m.refresh()
	return m, cmd
}

func (m Model) handlePickerEvent(msg pickerEventMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.bridge.waitForEvent()}

	switch e := msg.event.(type) {
	case picker.LookupFailed:
		cmds = append(cmds, m.pushToast(toastError, picker.NoticeLookupFailed))
	case picker.SearchFailed:
		cmds = append(cmds, m.pushToast(toastError, picker.NoticeLocationNotFound))
	case picker.SearchResolved:
		m.focusKey = ""
		m.recall.Add(e.Query)
		cmds = append(cmds, m.saveHistory(e))
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *Model) pushToast(level toastLevel, message string) tea.Cmd {
	m.toasts.Push(level, message)
	if m.toasts.Ticking() {
		return nil
	}
	m.toasts.SetTicking(true)
	return scheduleToastTick()
}

func (m Model) handleToastTick() (tea.Model, tea.Cmd) {
	m.toasts.Tick(toastTickInterval)
	if !m.toasts.HasToasts() {
		m.toasts.SetTicking(false)
		return m, nil
	}
	return m, scheduleToastTick()
}

// refresh re-reads the picker state and everything derived from it.
func (m *Model) refresh() {
	m.state = m.picker.State()
	m.placed = m.canvas.Place(m.state.Markers())

	m.cursor = min(m.cursor, max(len(m.state.Points)-1, 0))

	if m.focusKey != "" && !m.isPlaced(m.focusKey) {
		m.focusKey = ""
	}

	if point, ok := m.state.Selected(); ok {
		if point.Key != m.detailKey {
			m.detailKey = point.Key
			m.detail.SetContent(m.markdown.Render(point.Description, m.layout().sidebarInner))
			m.detail.GotoTop()
		}
		m.detail.SetHeight(m.detailHeight())
	} else {
		m.detailKey = ""
	}
}

// detailHeight is the sidebar height left for the description once the
// search box, notice, point header and buttons are drawn.
func (m Model) detailHeight() int {
	h := m.layout().sidebarInnerHeight - 2 - 5 - 2
	if m.state.Notice != "" {
		h -= 2
	}
	return max(h, 1)
}

func (m Model) isPlaced(key string) bool {
	for _, p := range m.placed {
		if p.Point.Key == key {
			return true
		}
	}
	return false
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Search):
		return m, m.search.Focus()
	case m.handleMapKey(msg):
		m.refresh()
		return m, nil
	}

	if _, ok := m.state.Sidebar.(picker.Detail); ok {
		return m.handleDetailKey(msg)
	}
	return m.handleBrowsingKey(msg)
}

// handleMapKey pans, zooms and cycles marker focus. It reports whether msg
// was a map key.
func (m *Model) handleMapKey(msg tea.KeyPressMsg) bool {
	w, h := m.canvas.Size()
	stepX, stepY := max(w/8, 1), max(h/4, 1)

	switch {
	case key.Matches(msg, m.keys.PanLeft):
		m.canvas.Pan(-stepX, 0)
	case key.Matches(msg, m.keys.PanRight):
		m.canvas.Pan(stepX, 0)
	case key.Matches(msg, m.keys.PanUp):
		m.canvas.Pan(0, -stepY)
	case key.Matches(msg, m.keys.PanDown):
		m.canvas.Pan(0, stepY)
	case key.Matches(msg, m.keys.ZoomIn):
		m.canvas.ZoomBy(1)
	case key.Matches(msg, m.keys.ZoomOut):
		m.canvas.ZoomBy(-1)
	case key.Matches(msg, m.keys.NextMarker):
		m.cycleFocus(1)
	case key.Matches(msg, m.keys.PrevMarker):
		m.cycleFocus(-1)
	case key.Matches(msg, m.keys.SelectMarker):
		if m.focusKey != "" {
			if err := m.picker.SelectKey(m.focusKey); err != nil {
				logger := logging.Component("tui")
				logger.Debug().Err(err).Msg("select focused marker")
			}
		}
	default:
		return false
	}
	return true
}

// cycleFocus moves keyboard focus through the markers drawn on the map.
func (m *Model) cycleFocus(dir int) {
	if len(m.placed) == 0 {
		m.focusKey = ""
		return
	}

	idx := -1
	for i, p := range m.placed {
		if p.Point.Key == m.focusKey {
			idx = i
			break
		}
	}

	switch {
	case idx < 0 && dir > 0:
		idx = 0
	case idx < 0:
		idx = len(m.placed) - 1
	default:
		idx = (idx + dir + len(m.placed)) % len(m.placed)
	}
	m.focusKey = m.placed[idx].Point.Key
}

func (m Model) handleBrowsingKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	points := m.state.Points

	switch {
	case key.Matches(msg, m.keys.CursorUp):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.CursorDown):
		m.cursor = min(m.cursor+1, max(len(points)-1, 0))
	case key.Matches(msg, m.keys.Choose):
		if m.cursor < len(points) {
			// The list may lag a refresh the picker already applied.
			if err := m.picker.SelectKey(points[m.cursor].Key); err != nil {
				logger := logging.Component("tui")
				logger.Debug().Err(err).Msg("choose list entry")
			}
			m.refresh()
		}
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.picker.Back()
		m.refresh()
	case key.Matches(msg, m.keys.Confirm):
		point, _ := m.state.Selected()
		if err := m.picker.Confirm(); err != nil {
			if errors.Is(err, picker.ErrNoSelection) {
				m.refresh()
				return m, nil
			}
			return m, m.pushToast(toastError, err.Error())
		}
		m.chosen = &point
		return m.quit()
	case key.Matches(msg, m.keys.ScrollUp):
		m.detail.HalfPageUp()
	case key.Matches(msg, m.keys.ScrollDown):
		m.detail.HalfPageDown()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.BlurSearch):
		m.recall.Reset()
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.HistPrev):
		if q, ok := m.recall.Prev(m.search.Value()); ok {
			m.setSearchText(q)
		}
		return m, nil
	case key.Matches(msg, m.keys.HistNext):
		if q, ok := m.recall.Next(); ok {
			m.setSearchText(q)
		}
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.recall.Reset()
		m.search.Blur()
		m.picker.SetQuery(m.search.Value())
		if m.search.Value() == "" {
			return m, nil
		}
		m.searching = true
		return m, m.submitSearch()
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.picker.SetQuery(m.search.Value())
	return m, cmd
}

func (m *Model) setSearchText(q string) {
	m.search.SetValue(q)
	m.search.CursorEnd()
	m.picker.SetQuery(q)
}

func (m Model) loadHistory() tea.Cmd {
	store, ctx := m.history, m.ctx
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := store.List(ctx)
		if err != nil {
			logger := logging.Component("tui")
			logger.Warn().Err(err).Msg("load search history")
			return nil
		}
		return historyLoadedMsg{entries: entries}
	}
}

func (m Model) saveHistory(e picker.SearchResolved) tea.Cmd {
	store, ctx, size := m.history, m.ctx, m.historySize
	if store == nil {
		return nil
	}
	entry := history.Entry{Query: e.Query, Position: e.Position, Timestamp: time.Now()}
	return func() tea.Msg {
		if err := store.Save(ctx, entry, size); err != nil {
			logger := logging.Component("tui")
			logger.Warn().Err(err).Msg("save search history")
		}
		return nil
	}
}

// submitSearch geocodes off the Update goroutine. The map itself is only moved
// from Update, where pans and zooms also happen.
func (m Model) submitSearch() tea.Cmd {
	p, ctx := m.picker, m.ctx
	return func() tea.Msg {
		pos, err := p.Resolve(ctx)
		return searchDoneMsg{position: pos, err: err}
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}
