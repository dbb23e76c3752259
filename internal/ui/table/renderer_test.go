package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/jukeclient/internal/app/orchestrator"
	"github.com/osa030/jukeclient/internal/domain/song"
)

type favs map[int64]bool

func (f favs) IsFavorite(id int64) bool { return f[id] }

func TestRenderer_RenderList(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	r.SetFavorites(favs{2: true})

	url := "http://audio/1.mp3"
	r.RenderList(orchestrator.TargetSongs, song.List{
		{ID: 1, Title: "One", Artist: "A", DurationSec: 65, AudioURL: &url},
		{ID: 2, Title: "Two", Artist: "B", DurationSec: 5},
	}, true)

	out := buf.String()
	assert.Contains(t, out, "Songs")
	assert.Contains(t, out, "One")
	assert.Contains(t, out, "1:05")
	assert.Contains(t, out, "★")
	assert.Contains(t, out, "2 songs")
	assert.Contains(t, out, "1:10")
}

func TestRenderer_SkipsUnselectedTargets(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, orchestrator.TargetFavorites)

	r.RenderList(orchestrator.TargetSongs, song.List{{ID: 1, Title: "One"}}, true)
	assert.Empty(t, buf.String())

	r.RenderList(orchestrator.TargetFavorites, song.List{{ID: 1, Title: "One"}}, true)
	assert.Contains(t, buf.String(), "Favorites")
}

func TestRenderer_SessionLines(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	r.ShowLogin(orchestrator.LoginPrompt{ButtonLabel: "Login", Prefill: "bob"})
	r.ShowLogin(orchestrator.LoginPrompt{ButtonLabel: "Login"})
	r.FocusLogin()
	r.ShowApp("alice", "Logout (alice)")
	r.SetNowPlaying(song.NoneLabel)

	assert.Equal(t, "Not logged in (remembered user: bob)\nNot logged in\nLogged in as alice\nNow playing: None\n", buf.String())
}

func TestRenderer_SetOutput(t *testing.T) {
	var first, second bytes.Buffer
	r := New(&first)

	r.SetNowPlaying("A")
	r.SetOutput(&second)
	r.SetNowPlaying("B")

	assert.Equal(t, "Now playing: A\n", first.String())
	assert.Equal(t, "Now playing: B\n", second.String())
}
