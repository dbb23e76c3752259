package playback

import "github.com/osa030/jukeclient/internal/domain/song"

// EventType represents a playback event type.
type EventType int

const (
	EventLoaded     EventType = iota // New source assigned (paused)
	EventStarted                     // Audio started
	EventStopped                     // Source removed
	EventLoadFailed                  // Source could not be loaded
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventLoaded:
		return "loaded"
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventLoadFailed:
		return "load_failed"
	default:
		return "unknown"
	}
}

// Event represents a device transition made by the adapter.
type Event struct {
	Type  EventType
	Song  *song.Song // Song involved (nil for EventStopped)
	State State      // Device state after the transition
}

// Listener receives adapter events. It is called without the adapter lock held.
type Listener func(Event)
