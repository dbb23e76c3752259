package tui

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/jukeclient/internal/app/orchestrator"
	"github.com/osa030/jukeclient/internal/app/playback"
	"github.com/osa030/jukeclient/internal/domain/song"
)

type captureSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (c *captureSender) Send(msg tea.Msg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func TestRenderer_DropsUntilAttached(t *testing.T) {
	r := NewRenderer()
	r.SetNowPlaying("ignored")

	sender := &captureSender{}
	r.Attach(sender)
	r.SetNowPlaying("One - A")

	require.Len(t, sender.msgs, 1)
	assert.Equal(t, nowPlayingMsg("One - A"), sender.msgs[0])
}

func TestRenderer_Messages(t *testing.T) {
	sender := &captureSender{}
	r := NewRenderer()
	r.Attach(sender)

	songs := song.List{{ID: 1, Title: "One", Artist: "A"}}
	r.ShowLogin(orchestrator.LoginPrompt{ButtonLabel: "Login", Prefill: "bob"})
	r.FocusLogin()
	r.ShowApp("bob", "Logout (bob)")
	r.RenderList(orchestrator.TargetQueue, songs, false)

	assert.Equal(t, []tea.Msg{
		showLoginMsg{prompt: orchestrator.LoginPrompt{ButtonLabel: "Login", Prefill: "bob"}},
		focusLoginMsg{},
		showAppMsg{user: "bob", button: "Logout (bob)"},
		renderListMsg{target: orchestrator.TargetQueue, songs: songs, withFavorite: false},
	}, sender.msgs)
}

func TestRenderer_PlayerEvent(t *testing.T) {
	sender := &captureSender{}
	r := NewRenderer()
	r.Attach(sender)

	r.PlayerEvent(playback.Event{Type: playback.EventStarted, State: playback.StateLoadedPlaying})

	require.Len(t, sender.msgs, 1)
	assert.Equal(t, playerStateMsg(playback.StateLoadedPlaying), sender.msgs[0])
}
