package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/osa030/jukeclient/internal/app/orchestrator"
	"github.com/osa030/jukeclient/internal/domain/song"
)

var _ list.Item = songItem{}

const (
	favoriteOn  = "★"
	favoriteOff = "☆"
)

// songItem wraps [song.Song] to implement [list.Item].
// The favorite marker is read on every render so a toggle shows up everywhere at once.
type songItem struct {
	song         song.Song
	withFavorite bool
	favorites    orchestrator.FavoriteChecker
}

func (i songItem) FilterValue() string { return i.song.Title }

func (i songItem) Title() string {
	if !i.withFavorite || i.favorites == nil {
		return i.song.Line()
	}
	marker := favoriteOff
	if i.favorites.IsFavorite(i.song.ID) {
		marker = favoriteOn
	}
	return fmt.Sprintf("%s %s", i.song.Line(), marker)
}

func (i songItem) Description() string {
	d := fmt.Sprintf("%d:%02d", i.song.DurationSec/60, i.song.DurationSec%60)
	if !i.song.Playable() {
		d += " • no audio"
	}
	return d
}

func songItems(songs song.List, withFavorite bool, favorites orchestrator.FavoriteChecker) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s, withFavorite: withFavorite, favorites: favorites}
	}
	return items
}

func newSongList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}
