// Package song provides the Song domain entity and its collections.
package song

import (
	"fmt"
	"strings"
)

// NoneLabel is the now-playing label shown when nothing is current.
const NoneLabel = "None"

// Song represents a song as the server returns it.
// The client never mutates a Song; it is replaced on every refresh.
type Song struct {
	ID          int64   `json:"id"`           // Server-assigned identity
	Title       string  `json:"title"`        // Song title
	Artist      string  `json:"artist"`       // Artist name
	DurationSec int     `json:"duration_sec"` // Duration in seconds
	AudioURL    *string `json:"audio_url"`    // Playable source (nil if none)
}

// Label returns "<title> - <artist>".
func (s Song) Label() string {
	return fmt.Sprintf("%s - %s", s.Title, s.Artist)
}

// Line returns "<id>: <title> - <artist>", the list item text.
func (s Song) Line() string {
	return fmt.Sprintf("%d: %s", s.ID, s.Label())
}

// Source returns the audio URL, or "" when the song has none.
func (s Song) Source() string {
	if s.AudioURL == nil {
		return ""
	}
	return strings.TrimSpace(*s.AudioURL)
}

// Playable reports whether the song has a non-empty audio source.
func (s Song) Playable() bool {
	return s.Source() != ""
}

// NewSong is the payload for creating a song on the server.
type NewSong struct {
	Title       string  `json:"title" validate:"required"`
	Artist      string  `json:"artist" validate:"required"`
	DurationSec int     `json:"duration_sec" validate:"gte=0"`
	AudioURL    *string `json:"audio_url"` // Absolute, or relative to the server
}

// Normalize trims whitespace and maps an empty audio URL to nil,
// matching how the form fields are submitted.
func (n NewSong) Normalize() NewSong {
	n.Title = strings.TrimSpace(n.Title)
	n.Artist = strings.TrimSpace(n.Artist)
	if n.DurationSec < 0 {
		n.DurationSec = 0
	}
	if n.AudioURL != nil {
		u := strings.TrimSpace(*n.AudioURL)
		if u == "" {
			n.AudioURL = nil
		} else {
			n.AudioURL = &u
		}
	}
	return n
}

// PlayState is the server's current song, if any.
type PlayState struct {
	Song *Song `json:"song"`
}

// HasSong reports whether a song is current.
func (p PlayState) HasSong() bool {
	return p.Song != nil
}

// NowPlaying returns the now-playing label, or NoneLabel.
func (p PlayState) NowPlaying() string {
	if p.Song == nil {
		return NoneLabel
	}
	return p.Song.Label()
}
