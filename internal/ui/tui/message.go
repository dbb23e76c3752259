package tui

import (
	"github.com/osa030/jukeclient/internal/app/orchestrator"
	"github.com/osa030/jukeclient/internal/app/playback"
	"github.com/osa030/jukeclient/internal/domain/song"
)

type showLoginMsg struct {
	prompt orchestrator.LoginPrompt
}

type focusLoginMsg struct{}

type showAppMsg struct {
	user   string
	button string
}

type renderListMsg struct {
	target       orchestrator.Target
	songs        song.List
	withFavorite bool
}

type nowPlayingMsg string

type playerStateMsg playback.State

// actionDoneMsg reports the outcome of a user action.
type actionDoneMsg struct {
	name       string
	err        error
	background bool // not counted as pending
}
