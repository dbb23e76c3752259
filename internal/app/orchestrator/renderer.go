package orchestrator

import "github.com/osa030/jukeclient/internal/domain/song"

// Target is a view region populated from one collection.
type Target int

const (
	TargetSongs       Target = iota // Catalogue, with favorite toggles
	TargetQueue                     // Primary queue list
	TargetHistory                   // Primary history list
	TargetFavorites                 // Favorites view, with favorite toggles
	TargetQueueOnly                 // Queue view (read-only)
	TargetHistoryOnly               // History view (read-only)
)

// String returns the string representation of the target.
func (t Target) String() string {
	switch t {
	case TargetSongs:
		return "songs"
	case TargetQueue:
		return "queue"
	case TargetHistory:
		return "history"
	case TargetFavorites:
		return "favorites"
	case TargetQueueOnly:
		return "queue_only"
	case TargetHistoryOnly:
		return "history_only"
	default:
		return "unknown"
	}
}

// LoginPrompt describes the logged-out surface.
type LoginPrompt struct {
	ButtonLabel string
	Prefill     string // remembered username; "" when none
}

// Renderer is the view layer. It holds no state of its own that the
// orchestrator depends on and never talks to the network.
type Renderer interface {
	// ShowLogin reveals the login surface and hides the app.
	// A non-empty Prefill must not overwrite a username the user already typed.
	ShowLogin(prompt LoginPrompt)
	// FocusLogin moves input focus to the username field.
	FocusLogin()
	// ShowApp reveals the app surface for user and hides the login surface.
	ShowApp(user, buttonLabel string)
	// RenderList clears target and repopulates it from songs.
	RenderList(target Target, songs song.List, withFavorite bool)
	// SetNowPlaying updates the now-playing label.
	SetNowPlaying(label string)
}

// FavoriteChecker is how renderers read favorite markers.
type FavoriteChecker interface {
	IsFavorite(id int64) bool
}
