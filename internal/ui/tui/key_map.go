package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the app surface.
type keyMap struct {
	home      key.Binding
	favorites key.Binding
	queue     key.Binding
	history   key.Binding
	focus     key.Binding
	play      key.Binding
	next      key.Binding
	prev      key.Binding
	enqueue   key.Binding
	remove    key.Binding
	favorite  key.Binding
	add       key.Binding
	seed      key.Binding
	impl      key.Binding
	refresh   key.Binding
	logout    key.Binding
	help      key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		home:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "home")),
		favorites: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "favorites")),
		queue:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "queue")),
		history:   key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "history")),
		focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		play:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "previous")),
		enqueue:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "enqueue")),
		remove:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		favorite:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add song")),
		seed:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "seed")),
		impl:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "impl")),
		refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		logout:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
		help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.play, k.next, k.prev, k.favorite, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.home, k.favorites, k.queue, k.history, k.focus},
		{k.play, k.next, k.prev, k.enqueue, k.remove, k.favorite},
		{k.add, k.seed, k.impl, k.refresh, k.logout, k.quit},
	}
}

// formKeyMap is used by the login screen and the input forms.
type formKeyMap struct {
	submit   key.Binding
	next     key.Binding
	cancel   key.Binding
	remember key.Binding
	quit     key.Binding
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		next:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		remember: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "toggle remember me")),
		quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}
