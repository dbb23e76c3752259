package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"github.com/osa030/jukeclient/internal/domain/song"
)

const (
	fieldTitle = iota
	fieldArtist
	fieldDuration
	fieldAudioURL
	fieldCount
)

// songForm collects a new song.
type songForm struct {
	inputs []textinput.Model
	focus  int
}

func newSongForm() songForm {
	f := songForm{inputs: make([]textinput.Model, fieldCount)}
	for i := range f.inputs {
		in := textinput.New()
		in.CharLimit = 256
		f.inputs[i] = in
	}
	f.inputs[fieldTitle].Prompt = "Title:    "
	f.inputs[fieldArtist].Prompt = "Artist:   "
	f.inputs[fieldDuration].Prompt = "Duration: "
	f.inputs[fieldDuration].Placeholder = "seconds"
	f.inputs[fieldDuration].CharLimit = 6
	f.inputs[fieldAudioURL].Prompt = "Audio URL:"
	f.inputs[fieldAudioURL].Placeholder = "optional"
	return f
}

// open resets the form and focuses the first field.
func (f *songForm) open() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.inputs[i].Blur()
	}
	f.focus = fieldTitle
	return f.inputs[f.focus].Focus()
}

// move shifts focus by delta fields, wrapping around.
func (f *songForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *songForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// value builds the NewSong; an empty duration counts as 0.
func (f *songForm) value() (song.NewSong, error) {
	n := song.NewSong{
		Title:  f.inputs[fieldTitle].Value(),
		Artist: f.inputs[fieldArtist].Value(),
	}
	if d := strings.TrimSpace(f.inputs[fieldDuration].Value()); d != "" {
		sec, err := strconv.Atoi(d)
		if err != nil {
			return song.NewSong{}, errors.Newf("duration must be a number of seconds: %q", d)
		}
		n.DurationSec = sec
	}
	u := f.inputs[fieldAudioURL].Value()
	n.AudioURL = &u
	return n.Normalize(), nil
}

func (f *songForm) view() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Add song"))
	b.WriteString("\n")
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return b.String()
}

// implPrompt asks for the server queue implementation name.
type implPrompt struct {
	input textinput.Model
}

func newImplPrompt() implPrompt {
	in := textinput.New()
	in.Prompt = "Impl: "
	in.Placeholder = "queue implementation"
	in.CharLimit = 64
	return implPrompt{input: in}
}

func (p *implPrompt) open() tea.Cmd {
	p.input.Reset()
	return p.input.Focus()
}
