package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/jukeclient/internal/app/orchestrator"
	"github.com/osa030/jukeclient/internal/app/playback"
	"github.com/osa030/jukeclient/internal/domain/song"
)

// Actions is the orchestrator surface the TUI drives.
type Actions interface {
	orchestrator.FavoriteChecker
	Refresh(ctx context.Context) error
	Run(ctx context.Context, interval time.Duration) error
	Login(ctx context.Context, username string, remember bool) error
	Logout(ctx context.Context) error
	AddSong(ctx context.Context, n song.NewSong) (song.Song, error)
	RemoveSong(ctx context.Context, id int64) error
	Enqueue(ctx context.Context, id int64) error
	Play(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	SetImpl(ctx context.Context, impl string) error
	SeedFast(ctx context.Context) error
	ToggleFavorite(ctx context.Context, s song.Song) error
}

// Surface is the top-level screen.
type Surface int

const (
	LoginSurface Surface = iota
	AppSurface
)

// View is one of the app views.
type View int

const (
	HomeView View = iota
	FavoritesView
	QueueView
	HistoryView
)

var viewNames = []string{"Home", "Favorites", "Queue", "History"}

// overlay is an input form drawn over the app surface.
type overlay int

const (
	noOverlay overlay = iota
	addSongOverlay
	implOverlay
)

// homePanes are the lists in the home view, in tab order.
var homePanes = []orchestrator.Target{
	orchestrator.TargetSongs,
	orchestrator.TargetQueue,
	orchestrator.TargetHistory,
}

// Options configures the model.
type Options struct {
	SyncInterval time.Duration // 0 refreshes once at start
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	actions Actions
	opts    Options

	surface Surface
	view    View
	overlay overlay
	pane    int

	user       string
	button     string
	nowPlaying string
	player     playback.State

	login    textinput.Model
	remember bool
	form     songForm
	impl     implPrompt

	lists map[orchestrator.Target]*list.Model

	status  string
	err     error
	pending int

	width    int
	height   int
	help     help.Model
	keys     keyMap
	formKeys formKeyMap
}

// NewModel creates a new TUI model driving actions.
func NewModel(ctx context.Context, actions Actions, opts Options) *Model {
	login := textinput.New()
	login.Placeholder = "username"
	login.Prompt = "Username: "
	login.CharLimit = 64
	login.Focus()

	m := &Model{
		ctx:        ctx,
		actions:    actions,
		opts:       opts,
		surface:    LoginSurface,
		button:     "Login",
		nowPlaying: song.NoneLabel,
		login:      login,
		form:       newSongForm(),
		impl:       newImplPrompt(),
		lists:      make(map[orchestrator.Target]*list.Model),
		help:       help.New(),
		keys:       newKeyMap(),
		formKeys:   newFormKeyMap(),
	}

	titles := map[orchestrator.Target]string{
		orchestrator.TargetSongs:       "Songs",
		orchestrator.TargetQueue:       "Queue",
		orchestrator.TargetHistory:     "History",
		orchestrator.TargetFavorites:   "Favorites",
		orchestrator.TargetQueueOnly:   "Queue",
		orchestrator.TargetHistoryOnly: "History",
	}
	for target, title := range titles {
		l := newSongList(title)
		m.lists[target] = &l
	}
	return m
}

// Init starts the initial sync.
func (m *Model) Init() tea.Cmd {
	if m.opts.SyncInterval > 0 {
		return tea.Batch(textinput.Blink, func() tea.Msg {
			return actionDoneMsg{name: "sync", err: m.actions.Run(m.ctx, m.opts.SyncInterval), background: true}
		})
	}
	return tea.Batch(textinput.Blink, m.run("refresh", m.actions.Refresh))
}

// Surface returns the active surface.
func (m *Model) Surface() Surface { return m.surface }

// ActiveView returns the active app view.
func (m *Model) ActiveView() View { return m.view }

// Err returns the last action error.
func (m *Model) Err() error { return m.err }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case showLoginMsg:
		m.surface = LoginSurface
		m.overlay = noOverlay
		m.button = msg.prompt.ButtonLabel
		m.user = ""
		if msg.prompt.Prefill != "" && m.login.Value() == "" {
			m.login.SetValue(msg.prompt.Prefill)
			m.login.CursorEnd()
		}
		return m, m.login.Focus()

	case focusLoginMsg:
		return m, m.login.Focus()

	case showAppMsg:
		m.surface = AppSurface
		m.user = msg.user
		m.button = msg.button
		m.login.Blur()
		return m, nil

	case renderListMsg:
		l := m.lists[msg.target]
		if l == nil {
			return m, nil
		}
		return m, l.SetItems(songItems(msg.songs, msg.withFavorite, m.actions))

	case nowPlayingMsg:
		m.nowPlaying = string(msg)
		return m, nil

	case playerStateMsg:
		m.player = playback.State(msg)
		return m, nil

	case actionDoneMsg:
		if !msg.background {
			m.pending--
		}
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			zlog.Warn().Err(msg.err).Msgf("%s failed", msg.name)
			return m, nil
		}
		m.err = nil
		m.status = msg.name + " ok"
		return m, nil

	case tea.KeyMsg:
		if m.surface == LoginSurface {
			return m.handleLoginKeys(msg)
		}
		switch m.overlay {
		case addSongOverlay:
			return m.handleFormKeys(msg)
		case implOverlay:
			return m.handleImplKeys(msg)
		}
		return m.handleAppKeys(msg)
	}

	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.quit), key.Matches(msg, m.formKeys.cancel):
		return m, tea.Quit
	case key.Matches(msg, m.formKeys.remember):
		m.remember = !m.remember
		return m, nil
	case key.Matches(msg, m.formKeys.submit):
		username, remember := m.login.Value(), m.remember
		return m, m.run("login", func(ctx context.Context) error {
			return m.actions.Login(ctx, username, remember)
		})
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return m, cmd
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.formKeys.cancel):
		m.overlay = noOverlay
		return m, nil
	case msg.String() == "shift+tab":
		return m, m.form.move(-1)
	case key.Matches(msg, m.formKeys.next):
		return m, m.form.move(1)
	case key.Matches(msg, m.formKeys.submit):
		n, err := m.form.value()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.overlay = noOverlay
		return m, m.run("add song", func(ctx context.Context) error {
			_, err := m.actions.AddSong(ctx, n)
			return err
		})
	}
	return m, m.form.update(msg)
}

func (m *Model) handleImplKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.formKeys.cancel):
		m.overlay = noOverlay
		return m, nil
	case key.Matches(msg, m.formKeys.submit):
		impl := m.impl.input.Value()
		m.overlay = noOverlay
		return m, m.run("impl", func(ctx context.Context) error {
			return m.actions.SetImpl(ctx, impl)
		})
	}

	var cmd tea.Cmd
	m.impl.input, cmd = m.impl.input.Update(msg)
	return m, cmd
}

func (m *Model) handleAppKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.home):
		m.view = HomeView
		return m, nil
	case key.Matches(msg, m.keys.favorites):
		m.view = FavoritesView
		return m, nil
	case key.Matches(msg, m.keys.queue):
		m.view = QueueView
		return m, nil
	case key.Matches(msg, m.keys.history):
		m.view = HistoryView
		return m, nil
	case key.Matches(msg, m.keys.focus):
		if m.view == HomeView {
			m.pane = (m.pane + 1) % len(homePanes)
		}
		return m, nil
	case key.Matches(msg, m.keys.play):
		return m, m.run("play", m.actions.Play)
	case key.Matches(msg, m.keys.next):
		return m, m.run("next", m.actions.Next)
	case key.Matches(msg, m.keys.prev):
		return m, m.run("previous", m.actions.Previous)
	case key.Matches(msg, m.keys.refresh):
		return m, m.run("refresh", m.actions.Refresh)
	case key.Matches(msg, m.keys.seed):
		return m, m.run("seed", m.actions.SeedFast)
	case key.Matches(msg, m.keys.logout):
		return m, m.run("logout", m.actions.Logout)
	case key.Matches(msg, m.keys.add):
		m.overlay = addSongOverlay
		return m, m.form.open()
	case key.Matches(msg, m.keys.impl):
		m.overlay = implOverlay
		return m, m.impl.open()
	case key.Matches(msg, m.keys.enqueue):
		if s, ok := m.selected(); ok {
			return m, m.run("enqueue", func(ctx context.Context) error {
				return m.actions.Enqueue(ctx, s.ID)
			})
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if s, ok := m.selected(); ok {
			return m, m.run("remove", func(ctx context.Context) error {
				return m.actions.RemoveSong(ctx, s.ID)
			})
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if s, ok := m.selected(); ok && m.favoriteEnabled() {
			return m, m.run("favorite", func(ctx context.Context) error {
				return m.actions.ToggleFavorite(ctx, s)
			})
		}
		return m, nil
	}

	var cmd tea.Cmd
	l := m.lists[m.activeTarget()]
	*l, cmd = l.Update(msg)
	return m, cmd
}

// run executes an action off the event loop and reports the result.
func (m *Model) run(name string, fn func(context.Context) error) tea.Cmd {
	m.pending++
	return func() tea.Msg {
		return actionDoneMsg{name: name, err: fn(m.ctx)}
	}
}

// activeTarget returns the list that receives navigation keys.
func (m *Model) activeTarget() orchestrator.Target {
	switch m.view {
	case FavoritesView:
		return orchestrator.TargetFavorites
	case QueueView:
		return orchestrator.TargetQueueOnly
	case HistoryView:
		return orchestrator.TargetHistoryOnly
	default:
		return homePanes[m.pane]
	}
}

// favoriteEnabled is false on the read-only queue and history views.
func (m *Model) favoriteEnabled() bool {
	t := m.activeTarget()
	return t != orchestrator.TargetQueueOnly && t != orchestrator.TargetHistoryOnly
}

func (m *Model) selected() (song.Song, bool) {
	item, ok := m.lists[m.activeTarget()].SelectedItem().(songItem)
	if !ok {
		return song.Song{}, false
	}
	return item.song, true
}

func (m *Model) resize() {
	w, h := m.width-4, m.height-10
	if w < 20 || h < 5 {
		return
	}
	m.lists[orchestrator.TargetSongs].SetSize(w/2, h)
	m.lists[orchestrator.TargetQueue].SetSize(w-w/2-4, h/2-2)
	m.lists[orchestrator.TargetHistory].SetSize(w-w/2-4, h-h/2-2)
	for _, t := range []orchestrator.Target{
		orchestrator.TargetFavorites,
		orchestrator.TargetQueueOnly,
		orchestrator.TargetHistoryOnly,
	} {
		m.lists[t].SetSize(w, h)
	}
}

// View renders the UI based on the current surface.
func (m *Model) View() string {
	if m.surface == LoginSurface {
		return m.renderLogin()
	}

	var body string
	switch m.overlay {
	case addSongOverlay:
		body = m.form.view() + "\n" + m.help.ShortHelpView([]key.Binding{m.formKeys.submit, m.formKeys.next, m.formKeys.cancel})
	case implOverlay:
		body = styles.title.Render("Queue implementation") + "\n" + m.impl.input.View() + "\n\n" +
			m.help.ShortHelpView([]key.Binding{m.formKeys.submit, m.formKeys.cancel})
	default:
		body = m.renderView()
	}

	return strings.Join([]string{m.renderHeader(), body, m.renderStatus(), m.help.View(m.keys)}, "\n")
}

func (m *Model) renderLogin() string {
	check := "[ ]"
	if m.remember {
		check = "[x]"
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.formKeys.submit, m.formKeys.remember, m.formKeys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s remember me\n\n%s\n%s",
		styles.title.Render("jukeclient"),
		m.login.View(),
		check,
		m.renderStatus(),
		helpView,
	)
}

func (m *Model) renderHeader() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if View(i) == m.view {
			tabs[i] = styles.activeTab.Render(label)
		} else {
			tabs[i] = styles.tab.Render(label)
		}
	}
	nav := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	right := styles.help.Render(m.button)
	playing := fmt.Sprintf("♪ %s [%s]", m.nowPlaying, m.player)
	return fmt.Sprintf("%s  %s\n%s", nav, right, styles.ok.Render(playing))
}

func (m *Model) renderView() string {
	if m.view != HomeView {
		return styles.focusPane.Render(m.lists[m.activeTarget()].View())
	}

	pane := func(i int) string {
		v := m.lists[homePanes[i]].View()
		if i == m.pane {
			return styles.focusPane.Render(v)
		}
		return styles.pane.Render(v)
	}
	right := lipgloss.JoinVertical(lipgloss.Left, pane(1), pane(2))
	return lipgloss.JoinHorizontal(lipgloss.Top, pane(0), right)
}

func (m *Model) renderStatus() string {
	switch {
	case m.err != nil:
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.pending > 0:
		return styles.warn.Render("working...")
	case m.status != "":
		return styles.ok.Render(m.status)
	default:
		return ""
	}
}
