package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/osa030/jukeclient/internal/app/orchestrator"
	"github.com/osa030/jukeclient/internal/app/playback"
	"github.com/osa030/jukeclient/internal/domain/song"
)

var _ orchestrator.Renderer = (*Renderer)(nil)

// Sender delivers messages to a running program. [tea.Program] implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Renderer forwards view updates to the bubbletea program.
// Updates sent before [Renderer.Attach] are dropped.
type Renderer struct {
	mu     sync.RWMutex
	sender Sender
}

// NewRenderer creates a detached renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Attach sets the program that receives view updates.
func (r *Renderer) Attach(s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sender = s
}

func (r *Renderer) send(msg tea.Msg) {
	r.mu.RLock()
	s := r.sender
	r.mu.RUnlock()
	if s != nil {
		s.Send(msg)
	}
}

// ShowLogin implements [orchestrator.Renderer].
func (r *Renderer) ShowLogin(prompt orchestrator.LoginPrompt) {
	r.send(showLoginMsg{prompt: prompt})
}

// FocusLogin implements [orchestrator.Renderer].
func (r *Renderer) FocusLogin() {
	r.send(focusLoginMsg{})
}

// ShowApp implements [orchestrator.Renderer].
func (r *Renderer) ShowApp(user, buttonLabel string) {
	r.send(showAppMsg{user: user, button: buttonLabel})
}

// RenderList implements [orchestrator.Renderer].
func (r *Renderer) RenderList(target orchestrator.Target, songs song.List, withFavorite bool) {
	r.send(renderListMsg{target: target, songs: songs, withFavorite: withFavorite})
}

// SetNowPlaying implements [orchestrator.Renderer].
func (r *Renderer) SetNowPlaying(label string) {
	r.send(nowPlayingMsg(label))
}

// PlayerEvent forwards a playback transition. It is a [playback.Listener].
func (r *Renderer) PlayerEvent(e playback.Event) {
	r.send(playerStateMsg(e.State))
}
