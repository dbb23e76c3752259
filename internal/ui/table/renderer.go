// Package table prints orchestrator output as plain-text tables for one-shot commands.
package table

import (
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"github.com/osa030/jukeclient/internal/app/orchestrator"
	"github.com/osa030/jukeclient/internal/domain/song"
)

var _ orchestrator.Renderer = (*Renderer)(nil)

// DefaultTargets are the regions printed when no targets are given.
var DefaultTargets = []orchestrator.Target{
	orchestrator.TargetSongs,
	orchestrator.TargetQueue,
	orchestrator.TargetHistory,
}

var titles = map[orchestrator.Target]string{
	orchestrator.TargetSongs:       "Songs",
	orchestrator.TargetQueue:       "Queue",
	orchestrator.TargetHistory:     "History",
	orchestrator.TargetFavorites:   "Favorites",
	orchestrator.TargetQueueOnly:   "Queue",
	orchestrator.TargetHistoryOnly: "History",
}

// Renderer writes each rendered region to out as a table.
type Renderer struct {
	mu        sync.Mutex
	out       io.Writer
	favorites orchestrator.FavoriteChecker
	targets   map[orchestrator.Target]bool
}

// New creates a renderer printing the given targets, or [DefaultTargets] if none.
func New(out io.Writer, targets ...orchestrator.Target) *Renderer {
	if len(targets) == 0 {
		targets = DefaultTargets
	}
	return &Renderer{
		out:     out,
		targets: lo.SliceToMap(targets, func(t orchestrator.Target) (orchestrator.Target, bool) { return t, true }),
	}
}

// SetOutput redirects subsequent output.
func (r *Renderer) SetOutput(out io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = out
}

// SetFavorites sets where favorite markers are read from.
func (r *Renderer) SetFavorites(f orchestrator.FavoriteChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.favorites = f
}

// ShowLogin implements [orchestrator.Renderer].
func (r *Renderer) ShowLogin(prompt orchestrator.LoginPrompt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prompt.Prefill != "" {
		fmt.Fprintf(r.out, "Not logged in (remembered user: %s)\n", prompt.Prefill)
		return
	}
	fmt.Fprintln(r.out, "Not logged in")
}

// FocusLogin implements [orchestrator.Renderer]. There is nothing to focus.
func (r *Renderer) FocusLogin() {}

// ShowApp implements [orchestrator.Renderer].
func (r *Renderer) ShowApp(user, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "Logged in as %s\n", user)
}

// SetNowPlaying implements [orchestrator.Renderer].
func (r *Renderer) SetNowPlaying(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "Now playing: %s\n", label)
}

// RenderList implements [orchestrator.Renderer].
func (r *Renderer) RenderList(target orchestrator.Target, songs song.List, withFavorite bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.targets[target] {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(titles[target])

	showFav := withFavorite && r.favorites != nil
	header := table.Row{"ID", "Title", "Artist", "Duration", "Audio"}
	if showFav {
		header = append(header, "Fav")
	}
	t.AppendHeader(header)

	for _, s := range songs {
		audio := "-"
		if s.Playable() {
			audio = "yes"
		}
		row := table.Row{s.ID, s.Title, s.Artist, formatDuration(int64(s.DurationSec)), audio}
		if showFav {
			row = append(row, lo.Ternary(r.favorites.IsFavorite(s.ID), "★", ""))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d songs", len(songs)), "", formatDuration(songs.TotalDuration())})
	t.Render()
}

func formatDuration(sec int64) string {
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}
