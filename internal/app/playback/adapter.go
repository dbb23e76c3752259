package playback

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/jukeclient/internal/domain/song"
)

// Device is the audio output handle driven by the adapter.
type Device interface {
	Source() string
	SetSource(ctx context.Context, url string) error
	ClearSource()
	Play(ctx context.Context) error
	Pause()
	Playing() bool
}

// Adapter maps songs onto a single Device.
//
// Only explicit user actions pass autoplay=true. A passive refresh may load
// or unload a source but never starts audio.
type Adapter struct {
	mu       sync.Mutex
	device   Device
	listener Listener
}

// NewAdapter creates a new adapter for device.
func NewAdapter(device Device) *Adapter {
	return &Adapter{device: device}
}

// OnEvent registers the listener for device transitions. A nil listener disables events.
func (a *Adapter) OnEvent(l Listener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener = l
}

// SetPlayer points the device at s. A nil or unplayable song stops playback.
// Re-assigning the current source is a no-op so in-progress playback is not interrupted.
// Play failures are logged and swallowed.
func (a *Adapter) SetPlayer(ctx context.Context, s *song.Song, autoplay bool) {
	a.mu.Lock()
	events := a.setPlayerLocked(ctx, s, autoplay)
	listener := a.listener
	a.mu.Unlock()

	notify(listener, events)
}

func (a *Adapter) setPlayerLocked(ctx context.Context, s *song.Song, autoplay bool) []Event {
	if s == nil || !s.Playable() {
		return a.stopLocked()
	}

	var events []Event
	src := s.Source()
	if a.device.Source() != src {
		if err := a.device.SetSource(ctx, src); err != nil {
			zlog.Warn().Msgf("failed to load song %d: %v", s.ID, err)
			events = append(events, Event{Type: EventLoadFailed, Song: s})
			return append(events, a.stopLocked()...)
		}
		zlog.Debug().Msgf("loaded song %d: %s", s.ID, src)
		events = append(events, Event{Type: EventLoaded, Song: s, State: a.stateLocked()})
	}

	if autoplay && !a.device.Playing() {
		if err := a.device.Play(ctx); err != nil {
			zlog.Debug().Msgf("play request for song %d rejected: %v", s.ID, err)
		} else {
			events = append(events, Event{Type: EventStarted, Song: s, State: a.stateLocked()})
		}
	}
	return events
}

// Stop pauses the device and removes its source.
func (a *Adapter) Stop() {
	a.mu.Lock()
	events := a.stopLocked()
	listener := a.listener
	a.mu.Unlock()

	notify(listener, events)
}

func (a *Adapter) stopLocked() []Event {
	if a.device.Playing() {
		a.device.Pause()
	}
	if a.device.Source() == "" {
		return nil
	}
	a.device.ClearSource()
	return []Event{{Type: EventStopped, State: StateStopped}}
}

// State returns the current device state.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stateLocked()
}

func (a *Adapter) stateLocked() State {
	switch {
	case a.device.Source() == "":
		return StateStopped
	case a.device.Playing():
		return StateLoadedPlaying
	default:
		return StateLoadedPaused
	}
}

// Source returns the currently assigned source.
func (a *Adapter) Source() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.device.Source()
}

func notify(l Listener, events []Event) {
	if l == nil {
		return
	}
	for _, e := range events {
		l(e)
	}
}
