package tui

import "charm.land/bubbles/v2/key"

type keyMap struct {
	PanLeft  key.Binding
	PanRight key.Binding
	PanUp    key.Binding
	PanDown  key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding

	CursorUp   key.Binding
	CursorDown key.Binding
	Choose     key.Binding
	Confirm    key.Binding
	Back       key.Binding

	NextMarker   key.Binding
	PrevMarker   key.Binding
	SelectMarker key.Binding

	Search     key.Binding
	Submit     key.Binding
	BlurSearch key.Binding
	HistPrev   key.Binding
	HistNext   key.Binding

	ScrollUp   key.Binding
	ScrollDown key.Binding

	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PanLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan west")),
		PanRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan east")),
		PanUp:    key.NewBinding(key.WithKeys("shift+up", "k"), key.WithHelp("k", "pan north")),
		PanDown:  key.NewBinding(key.WithKeys("shift+down", "j"), key.WithHelp("j", "pan south")),
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),

		CursorUp:   key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
		CursorDown: key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		Choose:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Back:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),

		NextMarker:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next marker")),
		PrevMarker:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous marker")),
		SelectMarker: key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "select marker")),

		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go")),
		BlurSearch: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		HistPrev:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "history")),
		HistNext:   key.NewBinding(key.WithKeys("down")),

		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),

		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// browsingHelp, detailHelp and searchHelp list the bindings shown in the
// footer for each mode.
func (k keyMap) browsingHelp() []key.Binding {
	return []key.Binding{k.PanLeft, k.PanUp, k.ZoomIn, k.CursorDown, k.Choose, k.NextMarker, k.Search, k.Quit}
}

func (k keyMap) detailHelp() []key.Binding {
	return []key.Binding{k.Back, k.Confirm, k.ScrollDown, k.PanLeft, k.ZoomIn, k.Quit}
}

func (k keyMap) searchHelp() []key.Binding {
	return []key.Binding{k.Submit, k.HistPrev, k.BlurSearch}
}
