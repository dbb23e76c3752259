package orchestrator

import (
	"github.com/osa030/jukeclient/internal/domain/session"
	"github.com/osa030/jukeclient/internal/domain/song"
)

// Snapshot is the server state fetched by one refresh.
// It is never mutated after it has been applied.
type Snapshot struct {
	Seq       uint64
	Session   session.Session
	Songs     song.List
	Queue     song.List
	History   song.List
	Play      song.PlayState
	Favorites song.List
}

// clone returns a copy that does not share list storage.
func (s Snapshot) clone() Snapshot {
	out := s
	if s.Songs != nil {
		out.Songs = s.Songs.Clone()
	}
	if s.Queue != nil {
		out.Queue = s.Queue.Clone()
	}
	if s.History != nil {
		out.History = s.History.Clone()
	}
	if s.Favorites != nil {
		out.Favorites = s.Favorites.Clone()
	}
	if s.Play.Song != nil {
		cur := *s.Play.Song
		out.Play.Song = &cur
	}
	return out
}
